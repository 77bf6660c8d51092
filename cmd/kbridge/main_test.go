package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/HendryAvila/kbridge/internal/config"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, key := range []string{
		config.EnvBackend, config.EnvAPIURL, config.EnvSiteName, config.EnvHTTPTimeout,
		config.EnvLogLevel, config.EnvLogFormat, config.EnvJournalPath,
		config.EnvZendeskSubdomain, config.EnvZendeskEmail, config.EnvZendeskToken,
		config.EnvZendeskLocale, config.EnvZendeskAPIURL,
	} {
		t.Setenv(key, kv[key])
	}
}

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute("version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "kbridge v") {
		t.Errorf("output = %q", out)
	}
}

func TestToolsCmd_Zendesk(t *testing.T) {
	setEnv(t, map[string]string{
		config.EnvZendeskSubdomain: "acme",
		config.EnvZendeskEmail:     "agent@example.com",
		config.EnvZendeskToken:     "secret",
		config.EnvJournalPath:      config.JournalOff,
	})

	out, err := execute("tools")
	if err != nil {
		t.Fatalf("tools: %v", err)
	}

	var defs []struct {
		Name        string `json:"name"`
		InputSchema struct {
			Required []string `json:"required"`
		} `json:"inputSchema"`
	}
	if err := json.Unmarshal([]byte(out), &defs); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(defs) != 3 || defs[0].Name != "list_categories" {
		t.Fatalf("defs = %+v", defs)
	}
	if len(defs[1].InputSchema.Required) != 1 || defs[1].InputSchema.Required[0] != "article_id" {
		t.Errorf("fetch_article should require article_id: %+v", defs[1])
	}
}

func TestToolsCmd_ConfigError(t *testing.T) {
	setEnv(t, map[string]string{
		config.EnvBackend:          "zendesk",
		config.EnvZendeskSubdomain: "acme",
	})

	_, err := execute("tools")
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if !strings.Contains(err.Error(), config.EnvZendeskToken) {
		t.Errorf("error should name the missing variable: %v", err)
	}
}
