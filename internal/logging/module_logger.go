package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-autotranslate/pkg/interfaces"
)

const (
	rootModule         = "autotranslate"
	providerModule     = "autotranslate.provider"
	translationsModule = "autotranslate.translations"
	coverageModule     = "autotranslate.coverage"
	jobsModule         = "autotranslate.jobs"
	commandsModule     = "autotranslate.commands"
)

const (
	fieldContentType = "content_type"
	fieldContentID   = "content_id"
	fieldLanguage    = "language"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ProviderLogger returns the logger namespace reserved for the translation provider adapter.
func ProviderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, providerModule)
}

// TranslationsLogger returns the logger namespace reserved for orchestrators and readers.
func TranslationsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, translationsModule)
}

func CoverageLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, coverageModule)
}

// JobsLogger returns the logger namespace reserved for backfill workers.
func JobsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, jobsModule)
}

func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithContentContext enriches logger with the content coordinates being
// translated. Empty values are ignored.
func WithContentContext(logger interfaces.Logger, contentType, contentID, language string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(contentType); trimmed != "" {
		fields[fieldContentType] = trimmed
	}
	if trimmed := strings.TrimSpace(contentID); trimmed != "" {
		fields[fieldContentID] = trimmed
	}
	if trimmed := strings.TrimSpace(language); trimmed != "" {
		fields[fieldLanguage] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
