package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/HendryAvila/kbridge/internal/kb"
)

// clearEnv blanks every variable the package reads. Empty values count as
// unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvBackend, EnvAPIURL, EnvSiteName, EnvHTTPTimeout, EnvLogLevel,
		EnvLogFormat, EnvJournalPath, EnvZendeskSubdomain, EnvZendeskEmail,
		EnvZendeskToken, EnvZendeskLocale, EnvZendeskAPIURL,
	} {
		t.Setenv(key, "")
	}
}

// --- FromEnv ---

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if cfg.Backend != kb.VariantGeneric {
		t.Errorf("Backend = %s, want generic", cfg.Backend)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %s", cfg.APIURL)
	}
	if cfg.SiteName != DefaultSiteName {
		t.Errorf("SiteName = %s", cfg.SiteName)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %s", cfg.HTTPTimeout)
	}
	if cfg.Zendesk.Locale != DefaultLocale {
		t.Errorf("Locale = %s", cfg.Zendesk.Locale)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "console" {
		t.Errorf("log settings = %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if !strings.HasSuffix(cfg.JournalPath, filepath.Join(".kbridge", "journal.db")) {
		t.Errorf("JournalPath = %s", cfg.JournalPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestFromEnv_ZendeskInferredFromSubdomain(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvZendeskSubdomain, "acme")
	t.Setenv(EnvZendeskEmail, "agent@acme.com")
	t.Setenv(EnvZendeskToken, "t0k3n")
	t.Setenv(EnvZendeskLocale, "en-gb")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Backend != kb.VariantZendesk {
		t.Errorf("Backend = %s, want zendesk", cfg.Backend)
	}
	if cfg.SiteName != DefaultZendeskSiteName {
		t.Errorf("SiteName = %s", cfg.SiteName)
	}
	if cfg.Zendesk.Locale != "en-gb" {
		t.Errorf("Locale = %s", cfg.Zendesk.Locale)
	}
	if got := cfg.BaseURL(); got != "https://acme.zendesk.com/api/v2" {
		t.Errorf("BaseURL = %s", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestFromEnv_ExplicitBackendWins(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBackend, "Generic")
	t.Setenv(EnvZendeskSubdomain, "acme")
	t.Setenv(EnvAPIURL, "https://kb.example.com/")
	t.Setenv(EnvSiteName, "Example KB")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Backend != kb.VariantGeneric {
		t.Errorf("Backend = %s, want generic", cfg.Backend)
	}
	if cfg.SiteName != "Example KB" {
		t.Errorf("SiteName = %s", cfg.SiteName)
	}
	if got := cfg.BaseURL(); got != "https://kb.example.com" {
		t.Errorf("BaseURL = %s", got)
	}
}

func TestFromEnv_JournalOff(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvJournalPath, "OFF")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.JournalPath != "" {
		t.Errorf("JournalPath = %q, want disabled", cfg.JournalPath)
	}
}

func TestFromEnv_BadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvHTTPTimeout, "soon")

	if _, err := FromEnv(); err == nil {
		t.Error("expected error for unparseable timeout")
	}
}

// --- Validate ---

func TestValidate(t *testing.T) {
	zendesk := Config{
		Backend: kb.VariantZendesk,
		Zendesk: Zendesk{Subdomain: "acme", Email: "a@acme.com", APIToken: "tok", Locale: "en-us"},
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"complete zendesk", func(c *Config) {}, ""},
		{"missing token", func(c *Config) { c.Zendesk.APIToken = "" }, EnvZendeskToken},
		{"missing email", func(c *Config) { c.Zendesk.Email = "" }, EnvZendeskEmail},
		{"missing subdomain", func(c *Config) { c.Zendesk.Subdomain = "" }, EnvZendeskSubdomain},
		{"url override replaces subdomain", func(c *Config) {
			c.Zendesk.Subdomain = ""
			c.Zendesk.APIURL = "http://127.0.0.1:9999/api/v2"
		}, ""},
		{"empty locale", func(c *Config) { c.Zendesk.Locale = "" }, EnvZendeskLocale},
		{"generic without url", func(c *Config) { c.Backend = kb.VariantGeneric }, EnvAPIURL},
		{"generic bad scheme", func(c *Config) {
			c.Backend = kb.VariantGeneric
			c.APIURL = "ftp://kb.example.com"
		}, "http(s)"},
		{"unknown backend", func(c *Config) { c.Backend = "confluence" }, EnvBackend},
		{"negative timeout", func(c *Config) { c.HTTPTimeout = -time.Second }, EnvHTTPTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := zendesk
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error mentioning %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

// --- Load ---

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables already present, even empty ones,
	// so drop the blanked keys this file sets.
	for _, key := range []string{EnvBackend, EnvAPIURL, EnvSiteName} {
		os.Unsetenv(key)
	}

	path := filepath.Join(t.TempDir(), "kbridge.env")
	content := "KB_BACKEND=generic\nKB_API_URL=https://help.example.org\nKB_SITE_NAME=\"Example Help\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing env file: %v", err)
	}
	t.Cleanup(func() {
		for _, key := range []string{EnvBackend, EnvAPIURL, EnvSiteName} {
			os.Unsetenv(key)
		}
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "https://help.example.org" || cfg.SiteName != "Example Help" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("expected error for missing env file")
	}
}

func TestLoad_ZendeskMissingCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBackend, "zendesk")
	t.Setenv(EnvZendeskSubdomain, "acme")

	_, err := Load(writeEmptyEnv(t))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), EnvZendeskEmail) || !strings.Contains(err.Error(), EnvZendeskToken) {
		t.Errorf("error should name both missing variables: %v", err)
	}
}

func writeEmptyEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empty.env")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("writing env file: %v", err)
	}
	return path
}
