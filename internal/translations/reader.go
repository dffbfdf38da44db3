package translations

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-autotranslate/internal/content"
	"github.com/goliatone/go-autotranslate/internal/languages"
)

// Reader loads translation rows for overlay on top of source content.
type Reader struct {
	translations content.TranslationRepository
}

func NewReader(translations content.TranslationRepository) *Reader {
	return &Reader{translations: translations}
}

// GetTranslation returns nil for the source language and for missing rows.
// Null field values are dropped so callers fall back to the source per field.
func (r *Reader) GetTranslation(ctx context.Context, contentType content.Type, id uuid.UUID, lang languages.Code) (*content.Translation, error) {
	if languages.IsSource(lang) {
		return nil, nil
	}
	record, err := r.translations.Get(ctx, contentType, id, lang)
	if err != nil {
		if content.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	fields := make(map[string]any, len(record.Fields))
	for key, value := range record.Fields {
		if value != nil {
			fields[key] = value
		}
	}
	record.Fields = fields
	return record, nil
}

// Overlay merges translated over source field by field. Nil and blank
// translated values keep the source value.
func Overlay(source map[string]any, translated map[string]any) map[string]any {
	out := make(map[string]any, len(source)+len(translated))
	for key, value := range source {
		out[key] = value
	}
	for key, value := range translated {
		if value == nil {
			continue
		}
		if text, ok := value.(string); ok && strings.TrimSpace(text) == "" {
			continue
		}
		out[key] = value
	}
	return out
}
