package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-autotranslate/internal/languages"
	"github.com/goliatone/go-autotranslate/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.Provider.MinInterval != 3*time.Second || cfg.Provider.DailyLimit != 1000 {
		t.Fatalf("unexpected provider defaults %+v", cfg.Provider)
	}
	if cfg.TargetLanguages() != nil {
		t.Fatalf("expected no language restriction by default")
	}
}

func TestConfigValidate_RequiresDSNForSQLDrivers(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.DSN = " "

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsFieldRanges(t *testing.T) {
	cases := map[string]func(*runtimeconfig.Config){
		"unknown driver":  func(c *runtimeconfig.Config) { c.Storage.Driver = "mongo" },
		"runtime":         func(c *runtimeconfig.Config) { c.Provider.Runtime = "edge" },
		"max depth":       func(c *runtimeconfig.Config) { c.Translation.MaxDepth = 0 },
		"source language": func(c *runtimeconfig.Config) { c.Languages.Targets = []string{"id"} },
		"retries":         func(c *runtimeconfig.Config) { c.Commands.MaxRetries = -1 },
	}
	for name, mutate := range cases {
		cfg := runtimeconfig.DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "syslog"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Format = "xml"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autotranslate.yaml")
	body := []byte(`
languages:
  targets: [DE, nl]
provider:
  endpoint: https://translate.example.test/translate
  min_interval: 500ms
storage:
  driver: sqlite
  dsn: file:content.db
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := runtimeconfig.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Provider.Endpoint != "https://translate.example.test/translate" || cfg.Provider.MinInterval != 500*time.Millisecond {
		t.Fatalf("unexpected provider config %+v", cfg.Provider)
	}
	if cfg.Provider.DailyLimit != 1000 {
		t.Fatalf("expected default daily limit to survive, got %d", cfg.Provider.DailyLimit)
	}
	targets := cfg.TargetLanguages()
	if len(targets) != 2 || targets[0] != languages.German || targets[1] != languages.Dutch {
		t.Fatalf("unexpected targets %v", targets)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestApplyEnvReadsSecretAndOverrides(t *testing.T) {
	t.Setenv("AUTOTRANSLATE_PROVIDER_API_KEY", "secret-key")
	t.Setenv("AUTOTRANSLATE_PROVIDER_DAILY_LIMIT", "25")
	t.Setenv("AUTOTRANSLATE_LOG_FOCUS", "autotranslate.provider,autotranslate.jobs")

	cfg := runtimeconfig.DefaultConfig()
	if err := runtimeconfig.ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Provider.APIKey != "secret-key" || cfg.Provider.DailyLimit != 25 {
		t.Fatalf("unexpected provider config %+v", cfg.Provider)
	}
	if cfg.Provider.MinInterval != 3*time.Second {
		t.Fatalf("unset variables must keep existing values, got %s", cfg.Provider.MinInterval)
	}
	if len(cfg.Logging.Focus) != 2 {
		t.Fatalf("unexpected focus %v", cfg.Logging.Focus)
	}
}
