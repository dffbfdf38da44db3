package autotranslate

import "github.com/goliatone/go-autotranslate/internal/runtimeconfig"

var (
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
)

type (
	Config            = runtimeconfig.Config
	LanguagesConfig   = runtimeconfig.LanguagesConfig
	ProviderConfig    = runtimeconfig.ProviderConfig
	TranslationConfig = runtimeconfig.TranslationConfig
	StorageConfig     = runtimeconfig.StorageConfig
	LoggingConfig     = runtimeconfig.LoggingConfig
	CommandsConfig    = runtimeconfig.CommandsConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads path (optional), applies AUTOTRANSLATE_* environment
// variables and validates the result.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
