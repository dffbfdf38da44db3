package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-autotranslate/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "autotranslate.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ModuleLogger(provider, providerModule).Info("with provider")

	if len(provider.requested) != 1 || provider.requested[0] != providerModule {
		t.Fatalf("expected module %s, got %v", providerModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != providerModule {
		t.Fatalf("expected module field %s, got %v", providerModule, rec.fields)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, "")

	if provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestNamedModuleLoggers(t *testing.T) {
	cases := map[string]func(interfaces.LoggerProvider) interfaces.Logger{
		translationsModule: TranslationsLogger,
		coverageModule:     CoverageLogger,
		jobsModule:         JobsLogger,
		commandsModule:     CommandsLogger,
	}
	for module, build := range cases {
		provider := &stubProvider{logger: &recordingLogger{}}
		_ = build(provider)
		if len(provider.requested) != 1 || provider.requested[0] != module {
			t.Fatalf("expected %s request, got %v", module, provider.requested)
		}
	}
}

func TestWithContentContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}
	_ = WithContentContext(rec, "package", "", " en ")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	fields := rec.fields[0]
	if fields[fieldContentType] != "package" || fields[fieldLanguage] != "en" {
		t.Fatalf("unexpected fields %v", fields)
	}
	if _, ok := fields[fieldContentID]; ok {
		t.Fatalf("empty content id should be skipped, got %v", fields)
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"run": "a"})
	ctx = ContextWithFields(ctx, map[string]any{"item": 3})

	fields := ContextFields(ctx)
	if fields["run"] != "a" || fields["item"] != 3 {
		t.Fatalf("unexpected merged fields %v", fields)
	}
	fields["run"] = "mutated"
	if ContextFields(ctx)["run"] != "a" {
		t.Fatal("context fields must be copied on read")
	}

	rec := &recordingLogger{}
	_ = FromContext(ctx, rec)
	if len(rec.fields) != 1 || rec.fields[0]["item"] != 3 {
		t.Fatalf("expected context fields on logger, got %v", rec.fields)
	}
}
