package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-autotranslate/internal/languages"
	"github.com/goliatone/go-autotranslate/internal/provider"
	"github.com/goliatone/go-autotranslate/internal/storage"
)

var (
	ErrLoggingProviderUnknown = errors.New("autotranslate config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("autotranslate config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("autotranslate config: logging format is invalid")
	ErrStorageDSNRequired     = errors.New("autotranslate config: storage dsn is required for sql drivers")
)

// Config aggregates the settings for the translation runtime. It is loaded
// from YAML, then overlaid with environment variables.
type Config struct {
	Languages   LanguagesConfig   `yaml:"languages"`
	Provider    ProviderConfig    `yaml:"provider"`
	Translation TranslationConfig `yaml:"translation"`
	Storage     StorageConfig     `yaml:"storage"`
	Logging     LoggingConfig     `yaml:"logging"`
	Commands    CommandsConfig    `yaml:"commands"`
}

// LanguagesConfig narrows the default target languages. Empty means all.
type LanguagesConfig struct {
	Targets []string `yaml:"targets" env:"AUTOTRANSLATE_LANGUAGES" envSeparator:","`
}

// ProviderConfig configures the machine translation adapter.
type ProviderConfig struct {
	Endpoint string `yaml:"endpoint" env:"AUTOTRANSLATE_PROVIDER_ENDPOINT"`
	// APIKey is only read from the environment.
	APIKey         string        `yaml:"-" env:"AUTOTRANSLATE_PROVIDER_API_KEY"`
	Runtime        string        `yaml:"runtime" env:"AUTOTRANSLATE_PROVIDER_RUNTIME"`
	MinInterval    time.Duration `yaml:"min_interval" env:"AUTOTRANSLATE_PROVIDER_MIN_INTERVAL"`
	DailyLimit     int           `yaml:"daily_limit" env:"AUTOTRANSLATE_PROVIDER_DAILY_LIMIT"`
	Timeout        time.Duration `yaml:"timeout" env:"AUTOTRANSLATE_PROVIDER_TIMEOUT"`
	CacheTTL       time.Duration `yaml:"cache_ttl" env:"AUTOTRANSLATE_PROVIDER_CACHE_TTL"`
	CacheCapacity  int           `yaml:"cache_capacity" env:"AUTOTRANSLATE_PROVIDER_CACHE_CAPACITY"`
	DictionaryPath string        `yaml:"dictionary_path" env:"AUTOTRANSLATE_PROVIDER_DICTIONARY"`
}

type TranslationConfig struct {
	MaxDepth    int `yaml:"max_depth" env:"AUTOTRANSLATE_MAX_DEPTH"`
	Concurrency int `yaml:"concurrency" env:"AUTOTRANSLATE_CONCURRENCY"`
}

// StorageConfig selects the content store.
type StorageConfig struct {
	Driver     string        `yaml:"driver" env:"AUTOTRANSLATE_STORAGE_DRIVER"`
	DSN        string        `yaml:"dsn" env:"AUTOTRANSLATE_STORAGE_DSN"`
	CacheReads bool          `yaml:"cache_reads" env:"AUTOTRANSLATE_STORAGE_CACHE_READS"`
	CacheTTL   time.Duration `yaml:"cache_ttl" env:"AUTOTRANSLATE_STORAGE_CACHE_TTL"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider" env:"AUTOTRANSLATE_LOG_PROVIDER"`
	Level     string   `yaml:"level" env:"AUTOTRANSLATE_LOG_LEVEL"`
	Format    string   `yaml:"format" env:"AUTOTRANSLATE_LOG_FORMAT"`
	AddSource bool     `yaml:"add_source" env:"AUTOTRANSLATE_LOG_ADD_SOURCE"`
	Focus     []string `yaml:"focus" env:"AUTOTRANSLATE_LOG_FOCUS" envSeparator:","`
}

type CommandsConfig struct {
	Timeout    time.Duration `yaml:"timeout" env:"AUTOTRANSLATE_COMMAND_TIMEOUT"`
	MaxRetries int           `yaml:"max_retries" env:"AUTOTRANSLATE_COMMAND_MAX_RETRIES"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderConfig{
			Runtime:       string(provider.RuntimeServer),
			MinInterval:   provider.DefaultMinInterval,
			DailyLimit:    provider.DefaultDailyLimit,
			Timeout:       provider.DefaultTimeout,
			CacheTTL:      provider.DefaultCacheTTL,
			CacheCapacity: provider.DefaultCacheCapacity,
		},
		Translation: TranslationConfig{
			MaxDepth:    5,
			Concurrency: 4,
		},
		Storage: StorageConfig{
			Driver:   storage.DriverMemory,
			CacheTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
		Commands: CommandsConfig{
			Timeout: 2 * time.Minute,
		},
	}
}

// LoadFile reads a YAML file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("autotranslate config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("autotranslate config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables that are set onto cfg.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("autotranslate config: parse env: %w", err)
	}
	return nil
}

// Load is LoadFile (when path is not empty) followed by ApplyEnv and Validate.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// TargetLanguages returns the normalized default targets.
func (cfg Config) TargetLanguages() []languages.Code {
	codes, err := languages.NormalizeTargets(cfg.Languages.Targets)
	if err != nil || len(cfg.Languages.Targets) == 0 {
		return nil
	}
	return codes
}

// Validate checks field ranges first, then the cross-field rules.
func (cfg Config) Validate() error {
	err := validation.ValidateStruct(&cfg,
		validation.Field(&cfg.Languages),
		validation.Field(&cfg.Provider),
		validation.Field(&cfg.Translation),
		validation.Field(&cfg.Storage),
		validation.Field(&cfg.Commands),
	)
	if err != nil {
		return err
	}
	if isSQLDriver(cfg.Storage.Driver) && strings.TrimSpace(cfg.Storage.DSN) == "" {
		return ErrStorageDSNRequired
	}
	return cfg.Logging.validate()
}

func (c LanguagesConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Targets, validation.By(func(value any) error {
			raw, _ := value.([]string)
			if _, err := languages.NormalizeTargets(raw); err != nil {
				return validation.NewError("autotranslate.config.languages", err.Error())
			}
			return nil
		})),
	)
}

func (c ProviderConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Runtime, validation.In(string(provider.RuntimeServer), string(provider.RuntimeClient))),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.CacheTTL, validation.Min(time.Duration(0))),
		validation.Field(&c.CacheCapacity, validation.Min(0)),
	)
}

func (c TranslationConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxDepth, validation.Min(1)),
		validation.Field(&c.Concurrency, validation.Min(0)),
	)
}

func (c StorageConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required,
			validation.In(storage.DriverMemory, storage.DriverSQLite, "sqlite3", storage.DriverPostgres, "postgresql", "pg")),
		validation.Field(&c.CacheTTL, validation.Min(time.Duration(0))),
	)
}

func (c CommandsConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.MaxRetries, validation.Min(0)),
	)
}

func (c LoggingConfig) validate() error {
	provider := normalize(c.Provider)
	if provider == "" {
		return nil
	}
	if provider != "gologger" && provider != "noop" {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := normalize(c.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := normalize(c.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func isSQLDriver(driver string) bool {
	return normalize(driver) != storage.DriverMemory
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch format {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
