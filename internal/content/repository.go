package content

import (
	"context"

	"github.com/goliatone/go-autotranslate/internal/languages"
	"github.com/google/uuid"
)

// ItemRepository reads source-language records from the content store.
type ItemRepository interface {
	Create(ctx context.Context, item *Item) (*Item, error)
	GetByID(ctx context.Context, contentType Type, id uuid.UUID) (*Item, error)
	ListEligible(ctx context.Context, contentType Type) ([]*Item, error)
}

// TranslationRepository persists translation rows keyed by
// (content type, content id, language).
type TranslationRepository interface {
	Get(ctx context.Context, contentType Type, id uuid.UUID, language languages.Code) (*Translation, error)
	ListByContent(ctx context.Context, contentType Type, id uuid.UUID) ([]*Translation, error)
	Upsert(ctx context.Context, record *Translation) (*Translation, error)
	Delete(ctx context.Context, contentType Type, id uuid.UUID, language languages.Code) error
}

func validateTranslation(record *Translation) error {
	if record == nil || record.ContentID == uuid.Nil {
		return ErrContentIDRequired
	}
	if _, ok := fieldSets[record.ContentType]; !ok {
		return ErrUnknownContentType
	}
	if record.Language == "" {
		return ErrLanguageRequired
	}
	if !languages.IsTarget(record.Language) {
		return ErrSourceLanguageTranslation
	}
	return nil
}

func translationKey(contentType Type, id uuid.UUID, language languages.Code) string {
	return string(contentType) + ":" + id.String() + ":" + string(language)
}
