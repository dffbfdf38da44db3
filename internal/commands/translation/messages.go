package translationcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-autotranslate/internal/content"
	"github.com/goliatone/go-autotranslate/internal/languages"
)

const (
	translateContentMessageType     = "autotranslate.translation.translate"
	backfillTranslationsMessageType = "autotranslate.translation.backfill"
)

// TranslateContentCommand triggers translation of one content item.
type TranslateContentCommand struct {
	// ContentType is one of package, blog, testimonial, gallery or section.
	ContentType string    `json:"content_type"`
	ContentID   uuid.UUID `json:"content_id"`
	// Force retranslates languages that already have a row.
	Force bool `json:"force,omitempty"`
	// Languages restricts the run; empty means every target language.
	Languages []string `json:"languages,omitempty"`
}

func (TranslateContentCommand) Type() string { return translateContentMessageType }

func (m TranslateContentCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ContentType, validation.Required, validation.By(contentTypeRule)),
		validation.Field(&m.ContentID, validation.By(func(value any) error {
			if id, _ := value.(uuid.UUID); id == uuid.Nil {
				return validation.NewError("autotranslate.translation.content_id_required", "content_id is required")
			}
			return nil
		})),
		validation.Field(&m.Languages, validation.By(languagesRule)),
	)
}

func (m TranslateContentCommand) LogFields() map[string]any {
	fields := map[string]any{
		"content_type": m.ContentType,
		"content_id":   m.ContentID.String(),
		"force":        m.Force,
	}
	if len(m.Languages) > 0 {
		fields["languages"] = strings.Join(m.Languages, ",")
	}
	return fields
}

// BackfillTranslationsCommand walks every eligible item and fills in
// missing translation rows.
type BackfillTranslationsCommand struct {
	ContentTypes []string `json:"content_types,omitempty"`
	Languages    []string `json:"languages,omitempty"`
	// BatchSize caps the items visited per content type; zero means no cap.
	BatchSize int `json:"batch_size,omitempty"`
}

func (BackfillTranslationsCommand) Type() string { return backfillTranslationsMessageType }

func (m BackfillTranslationsCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ContentTypes, validation.Each(validation.By(contentTypeRule))),
		validation.Field(&m.Languages, validation.By(languagesRule)),
		validation.Field(&m.BatchSize, validation.Min(0)),
	)
}

func (m BackfillTranslationsCommand) LogFields() map[string]any {
	fields := map[string]any{"batch_size": m.BatchSize}
	if len(m.ContentTypes) > 0 {
		fields["content_types"] = strings.Join(m.ContentTypes, ",")
	}
	if len(m.Languages) > 0 {
		fields["languages"] = strings.Join(m.Languages, ",")
	}
	return fields
}

func (m TranslateContentCommand) parsed() (content.Type, []languages.Code) {
	contentType, _ := content.ParseType(m.ContentType)
	codes, _ := languages.NormalizeTargets(m.Languages)
	if len(m.Languages) == 0 {
		codes = nil
	}
	return contentType, codes
}

func (m BackfillTranslationsCommand) parsed() ([]content.Type, []languages.Code) {
	types := make([]content.Type, 0, len(m.ContentTypes))
	for _, raw := range m.ContentTypes {
		if contentType, err := content.ParseType(raw); err == nil {
			types = append(types, contentType)
		}
	}
	codes, _ := languages.NormalizeTargets(m.Languages)
	if len(m.Languages) == 0 {
		codes = nil
	}
	return types, codes
}

func contentTypeRule(value any) error {
	raw, _ := value.(string)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if _, err := content.ParseType(raw); err != nil {
		return validation.NewError("autotranslate.translation.content_type_invalid", "content_type must be package, blog, testimonial, gallery or section")
	}
	return nil
}

func languagesRule(value any) error {
	codes, _ := value.([]string)
	if _, err := languages.NormalizeTargets(codes); err != nil {
		return validation.NewError("autotranslate.translation.language_invalid", "languages must be target languages (en, de, nl, zh)")
	}
	return nil
}
