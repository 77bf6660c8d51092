// Package config loads the process configuration from the environment.
//
// A .env file in the working directory is read first (variables already
// set in the environment win), then values are bound with viper. The
// resulting Config is immutable and passed explicitly to whatever needs it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HendryAvila/kbridge/internal/kb"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment variable names.
const (
	EnvBackend          = "KB_BACKEND"
	EnvAPIURL           = "KB_API_URL"
	EnvSiteName         = "KB_SITE_NAME"
	EnvHTTPTimeout      = "KB_HTTP_TIMEOUT"
	EnvLogLevel         = "KB_LOG_LEVEL"
	EnvLogFormat        = "KB_LOG_FORMAT"
	EnvJournalPath      = "KB_JOURNAL_PATH"
	EnvZendeskSubdomain = "ZENDESK_SUBDOMAIN"
	EnvZendeskEmail     = "ZENDESK_EMAIL"
	EnvZendeskToken     = "ZENDESK_API_TOKEN"
	EnvZendeskLocale    = "ZENDESK_LOCALE"
	EnvZendeskAPIURL    = "ZENDESK_API_URL"
)

// Defaults.
const (
	DefaultAPIURL          = "https://ev-kb.doghouse.cloud"
	DefaultSiteName        = "Engage Victoria Knowledge"
	DefaultZendeskSiteName = "Zendesk Help Center"
	DefaultLocale          = "en-us"
	DefaultHTTPTimeout     = "30s"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"

	// JournalOff disables the invocation journal when used as KB_JOURNAL_PATH.
	JournalOff = "off"
)

// Zendesk holds the credentials and locale for the Zendesk variant.
type Zendesk struct {
	Subdomain string
	Email     string
	APIToken  string
	Locale    string
	// APIURL overrides https://<subdomain>.zendesk.com/api/v2.
	APIURL string
}

// Config is the process-wide configuration.
type Config struct {
	Backend     kb.Variant
	APIURL      string
	SiteName    string
	Zendesk     Zendesk
	HTTPTimeout time.Duration
	LogLevel    string
	LogFormat   string
	// JournalPath is the SQLite file for the invocation journal.
	// Empty means the journal is disabled.
	JournalPath string
}

// Load reads envFiles (or ".env" when none are given) into the process
// environment and builds a validated Config. A missing default .env is not
// an error; a missing file named explicitly is.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("reading env file: %w", err)
	}

	cfg, err := FromEnv()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables without validating it.
func FromEnv() (Config, error) {
	v := newViper()

	timeout, err := time.ParseDuration(v.GetString(EnvHTTPTimeout))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", EnvHTTPTimeout, err)
	}

	cfg := Config{
		Backend:  kb.Variant(strings.ToLower(strings.TrimSpace(v.GetString(EnvBackend)))),
		APIURL:   v.GetString(EnvAPIURL),
		SiteName: v.GetString(EnvSiteName),
		Zendesk: Zendesk{
			Subdomain: v.GetString(EnvZendeskSubdomain),
			Email:     v.GetString(EnvZendeskEmail),
			APIToken:  v.GetString(EnvZendeskToken),
			Locale:    v.GetString(EnvZendeskLocale),
			APIURL:    v.GetString(EnvZendeskAPIURL),
		},
		HTTPTimeout: timeout,
		LogLevel:    v.GetString(EnvLogLevel),
		LogFormat:   v.GetString(EnvLogFormat),
		JournalPath: journalPath(v.GetString(EnvJournalPath)),
	}

	if cfg.Backend == "" {
		cfg.Backend = kb.VariantGeneric
		if cfg.Zendesk.Subdomain != "" {
			cfg.Backend = kb.VariantZendesk
		}
	}
	if cfg.SiteName == "" {
		cfg.SiteName = DefaultSiteName
		if cfg.Backend == kb.VariantZendesk {
			cfg.SiteName = DefaultZendeskSiteName
		}
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(EnvAPIURL, DefaultAPIURL)
	v.SetDefault(EnvZendeskLocale, DefaultLocale)
	v.SetDefault(EnvHTTPTimeout, DefaultHTTPTimeout)
	v.SetDefault(EnvLogLevel, DefaultLogLevel)
	v.SetDefault(EnvLogFormat, DefaultLogFormat)
	v.AutomaticEnv()
	return v
}

// journalPath resolves KB_JOURNAL_PATH: unset means ~/.kbridge/journal.db,
// "off" disables the journal.
func journalPath(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, JournalOff) {
		return ""
	}
	if raw != "" {
		return raw
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kbridge", "journal.db")
}

// Validate checks that the selected backend has everything it needs.
func (c Config) Validate() error {
	switch c.Backend {
	case kb.VariantGeneric:
		if err := validateURL(EnvAPIURL, c.APIURL); err != nil {
			return err
		}
	case kb.VariantZendesk:
		var missing []string
		if c.Zendesk.Subdomain == "" && c.Zendesk.APIURL == "" {
			missing = append(missing, EnvZendeskSubdomain)
		}
		if c.Zendesk.Email == "" {
			missing = append(missing, EnvZendeskEmail)
		}
		if c.Zendesk.APIToken == "" {
			missing = append(missing, EnvZendeskToken)
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
		}
		if c.Zendesk.Locale == "" {
			return fmt.Errorf("%s must not be empty", EnvZendeskLocale)
		}
		if c.Zendesk.APIURL != "" {
			if err := validateURL(EnvZendeskAPIURL, c.Zendesk.APIURL); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvBackend, kb.VariantGeneric, kb.VariantZendesk, c.Backend)
	}

	if c.HTTPTimeout < 0 {
		return fmt.Errorf("%s must not be negative", EnvHTTPTimeout)
	}
	return nil
}

// BaseURL is the URL every backend endpoint is appended to.
func (c Config) BaseURL() string {
	if c.Backend == kb.VariantZendesk {
		if c.Zendesk.APIURL != "" {
			return strings.TrimRight(c.Zendesk.APIURL, "/")
		}
		return fmt.Sprintf("https://%s.zendesk.com/api/v2", c.Zendesk.Subdomain)
	}
	return strings.TrimRight(c.APIURL, "/")
}

func validateURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host: %q", name, raw)
	}
	return nil
}
