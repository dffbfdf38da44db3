// Package autotranslate translates travel-site content from Indonesian into
// the supported target languages and reports translation coverage.
package autotranslate

import (
	"context"
	"io/fs"

	"github.com/google/uuid"

	translationcmd "github.com/goliatone/go-autotranslate/internal/commands/translation"
	"github.com/goliatone/go-autotranslate/internal/content"
	"github.com/goliatone/go-autotranslate/internal/coverage"
	"github.com/goliatone/go-autotranslate/internal/di"
	"github.com/goliatone/go-autotranslate/internal/jobs"
	"github.com/goliatone/go-autotranslate/internal/languages"
	"github.com/goliatone/go-autotranslate/internal/logging"
	"github.com/goliatone/go-autotranslate/internal/markdown"
	"github.com/goliatone/go-autotranslate/internal/provider"
	"github.com/goliatone/go-autotranslate/internal/translations"
)

type (
	ContentType     = content.Type
	Item            = content.Item
	Translation     = content.Translation
	Language        = languages.Code
	TriggerRequest  = translations.TriggerRequest
	TriggerResult   = translations.TriggerResult
	Outcome         = translations.Outcome
	CoverageReport  = coverage.Report
	ItemCoverage    = coverage.ItemCoverage
	LanguageStatus  = coverage.LanguageStatus
	BackfillSummary = jobs.Summary
	AuditEvent      = jobs.AuditEvent
	ProviderStats   = provider.Stats

	MarkdownImportResult = markdown.ImportResult

	TranslateContentCommand     = translationcmd.TranslateContentCommand
	BackfillTranslationsCommand = translationcmd.BackfillTranslationsCommand
)

const (
	TypePackage     = content.TypePackage
	TypeBlog        = content.TypeBlog
	TypeTestimonial = content.TypeTestimonial
	TypeGallery     = content.TypeGallery
	TypeSection     = content.TypeSection
)

// Module is the top level runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using cfg and optional container overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Migrate creates the content and translation tables for SQL stores.
func (m *Module) Migrate(ctx context.Context) error {
	return m.container.Migrate(ctx)
}

func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Items returns the source content repository.
func (m *Module) Items() content.ItemRepository {
	return m.container.Items()
}

// Trigger translates one item into the requested (or all) target languages.
func (m *Module) Trigger(ctx context.Context, req TriggerRequest) (TriggerResult, error) {
	return m.container.Service().Trigger(ctx, req)
}

// Status reports per-language completeness for one item.
func (m *Module) Status(ctx context.Context, contentType ContentType, id uuid.UUID) (map[Language]LanguageStatus, error) {
	return m.container.Service().Status(ctx, contentType, id)
}

// Coverage reports every section, or only section when it is not nil.
func (m *Module) Coverage(ctx context.Context, section *ContentType) (CoverageReport, error) {
	return m.container.Service().Coverage(ctx, section)
}

// Localized returns the source fields with the stored translation overlaid.
func (m *Module) Localized(ctx context.Context, contentType ContentType, id uuid.UUID, lang Language) (map[string]any, error) {
	return m.container.Service().Localized(ctx, contentType, id, lang)
}

// GetTranslation returns nil when no row exists or lang is the source language.
func (m *Module) GetTranslation(ctx context.Context, contentType ContentType, id uuid.UUID, lang Language) (*Translation, error) {
	return m.container.Reader().GetTranslation(ctx, contentType, id, lang)
}

// Backfill runs one non-forced pass over every eligible item.
func (m *Module) Backfill(ctx context.Context, opts ...jobs.Option) (BackfillSummary, error) {
	return m.container.Worker(opts...).Process(ctx)
}

// BackfillHistory lists the per-item audit events recorded by backfills.
func (m *Module) BackfillHistory(ctx context.Context) ([]AuditEvent, error) {
	return m.container.AuditRecorder().List(ctx)
}

// TranslateText runs a single string through the field translator.
func (m *Module) TranslateText(ctx context.Context, text string, target Language) string {
	out := m.container.FieldTranslator().TranslateFields(ctx, map[string]any{"text": text}, target)
	value, _ := out["text"].(string)
	return value
}

// ProviderStats is the zero value when the provider adapter is replaced.
func (m *Module) ProviderStats() ProviderStats {
	if adapter := m.container.Provider(); adapter != nil {
		return adapter.Stats()
	}
	return ProviderStats{}
}

// ClearProviderCache drops cached provider results.
func (m *Module) ClearProviderCache() {
	if adapter := m.container.Provider(); adapter != nil {
		adapter.ClearCache()
	}
}

// ReloadDictionary swaps the offline dictionary used by the provider.
func (m *Module) ReloadDictionary(path string) error {
	adapter := m.container.Provider()
	if adapter == nil {
		return nil
	}
	dict, err := provider.LoadDictionary(path)
	if err != nil {
		return err
	}
	adapter.ReloadDictionary(dict)
	return nil
}

// Dispatch sends a translation command through the go-command dispatcher.
// SubscribeCommands must be called first.
func (m *Module) Dispatch(ctx context.Context, msg any) error {
	return m.container.Dispatch(ctx, msg)
}

func (m *Module) SubscribeCommands() {
	m.container.SubscribeCommands()
}

// ImportMarkdown creates blog items from the Markdown posts under dir.
// Posts whose slug already exists are skipped.
func (m *Module) ImportMarkdown(ctx context.Context, fsys fs.FS, dir string) (MarkdownImportResult, error) {
	importer := markdown.NewImporter(m.container.Items(),
		markdown.WithLogger(logging.ModuleLogger(m.container.LoggerProvider(), "autotranslate.markdown")),
	)
	return importer.ImportDir(ctx, fsys, dir)
}

// ParseContentType accepts singular and plural section names.
func ParseContentType(raw string) (ContentType, error) {
	return content.ParseType(raw)
}

// ParseLanguage normalizes raw into a supported language code.
func ParseLanguage(raw string) (Language, error) {
	return languages.Normalize(raw)
}
