package translations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-autotranslate/internal/content"
	"github.com/goliatone/go-autotranslate/internal/fieldtree"
	"github.com/goliatone/go-autotranslate/internal/identity"
	"github.com/goliatone/go-autotranslate/internal/languages"
	"github.com/goliatone/go-autotranslate/internal/logging"
	"github.com/goliatone/go-autotranslate/pkg/interfaces"
)

// Options tune a single AutoTranslate run.
type Options struct {
	Force     bool
	Languages []languages.Code
}

// Orchestrator decides which target languages of one content type need
// translating and persists the results.
type Orchestrator struct {
	contentType  content.Type
	fields       []content.FieldSpec
	translations content.TranslationRepository
	translator   *fieldtree.Translator
	defaults     []languages.Code
	now          func() time.Time
	logger       interfaces.Logger
}

type OrchestratorOption func(*Orchestrator)

func WithClock(clock func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		if clock != nil {
			o.now = clock
		}
	}
}

func WithLogger(logger interfaces.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDefaultLanguages narrows the languages processed when a run does not
// name any. Unsupported codes are ignored.
func WithDefaultLanguages(codes ...languages.Code) OrchestratorOption {
	return func(o *Orchestrator) {
		o.defaults = nil
		for _, code := range codes {
			if languages.IsTarget(code) {
				o.defaults = append(o.defaults, code)
			}
		}
	}
}

func NewOrchestrator(contentType content.Type, translations content.TranslationRepository, translator *fieldtree.Translator, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		contentType:  contentType,
		fields:       content.Fields(contentType),
		translations: translations,
		translator:   translator,
		now:          time.Now,
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) ContentType() content.Type {
	return o.contentType
}

// AutoTranslate processes target languages one after another. Existing rows
// are skipped unless opts.Force is set. Store lookup errors abort the run;
// upsert errors are recorded per language and the run continues. A language
// whose translation was interrupted by cancellation is never written.
func (o *Orchestrator) AutoTranslate(ctx context.Context, contentID uuid.UUID, source map[string]any, opts Options) (Outcome, error) {
	outcome := Outcome{ContentType: o.contentType, ContentID: contentID}
	if contentID == uuid.Nil {
		return outcome, content.ErrContentIDRequired
	}
	targets, err := o.resolveTargets(opts.Languages)
	if err != nil {
		return outcome, err
	}

	for _, lang := range targets {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}
		logger := logging.WithContentContext(o.logger, o.contentType.String(), contentID.String(), lang.String())

		existing, err := o.translations.Get(ctx, o.contentType, contentID, lang)
		if err != nil && !content.IsNotFound(err) {
			return outcome, fmt.Errorf("translations: lookup %s/%s (%s): %w", o.contentType, contentID, lang, err)
		}
		if existing != nil && !opts.Force {
			logger.Debug("translations.language.skipped")
			outcome.Languages = append(outcome.Languages, LanguageOutcome{Language: lang, Status: StatusSkipped})
			continue
		}

		fields := o.translateFields(ctx, source, lang)
		// Leaves translated after cancellation fall back to source text.
		if err := ctx.Err(); err != nil {
			logger.Warn("translations.language.cancelled")
			return outcome, err
		}
		record := &content.Translation{
			ContentType:      o.contentType,
			ContentID:        contentID,
			Language:         lang,
			Fields:           fields,
			IsAutoTranslated: true,
			UpdatedAt:        o.now(),
		}
		if existing != nil {
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt
		} else {
			record.ID = identity.TranslationUUID(o.contentType.String(), contentID, lang.String())
		}

		if _, err := o.translations.Upsert(ctx, record); err != nil {
			perr := &PersistenceError{ContentType: o.contentType, ContentID: contentID, Language: lang, Err: err}
			logger.Error("translations.language.persist_failed", "error", err)
			outcome.Languages = append(outcome.Languages, LanguageOutcome{Language: lang, Status: StatusFailed, Err: perr})
			continue
		}
		logger.Info("translations.language.translated", "force", opts.Force)
		outcome.Languages = append(outcome.Languages, LanguageOutcome{Language: lang, Status: StatusTranslated})
	}
	return outcome, nil
}

// translateFields runs the field set through the tree translator. JSON
// fields stored as strings are decoded first and re-encoded afterwards so
// the row keeps the source representation.
func (o *Orchestrator) translateFields(ctx context.Context, source map[string]any, lang languages.Code) map[string]any {
	input := make(map[string]any, len(o.fields))
	encoded := map[string]bool{}
	for _, spec := range o.fields {
		value, ok := source[spec.Name]
		if !ok || value == nil {
			continue
		}
		if spec.Kind == content.FieldJSON {
			if raw, isString := value.(string); isString {
				if decoded, ok := content.DecodeJSONField(raw); ok {
					value = decoded
					encoded[spec.Name] = true
				}
			}
		}
		input[spec.Name] = value
	}

	translated := o.translator.TranslateFields(ctx, input, lang)

	out := make(map[string]any, len(o.fields))
	for _, spec := range o.fields {
		value, ok := translated[spec.Name]
		if !ok {
			out[spec.Name] = nil
			continue
		}
		if encoded[spec.Name] {
			raw, err := content.EncodeJSONField(value)
			if err != nil {
				o.logger.Warn("translations.field.encode_failed", "field", spec.Name, "error", err)
				out[spec.Name] = source[spec.Name]
				continue
			}
			value = raw
		}
		out[spec.Name] = value
	}
	return out
}

func (o *Orchestrator) resolveTargets(requested []languages.Code) ([]languages.Code, error) {
	if len(requested) == 0 {
		if len(o.defaults) > 0 {
			return append([]languages.Code(nil), o.defaults...), nil
		}
		return languages.Targets(), nil
	}
	raw := make([]string, len(requested))
	for i, code := range requested {
		raw[i] = string(code)
	}
	return languages.NormalizeTargets(raw)
}
