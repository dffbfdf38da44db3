package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-autotranslate/internal/languages"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewItemRepository(db *bun.DB) repository.Repository[*Item] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Item]{
		NewRecord: func() *Item { return &Item{} },
		GetID: func(i *Item) uuid.UUID {
			return i.ID
		},
		SetID: func(i *Item, id uuid.UUID) {
			i.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(i *Item) string {
			if i == nil {
				return ""
			}
			return i.ID.String()
		},
	})
}

func NewTranslationRepository(db *bun.DB) repository.Repository[*Translation] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Translation]{
		NewRecord: func() *Translation { return &Translation{} },
		GetID: func(t *Translation) uuid.UUID {
			return t.ID
		},
		SetID: func(t *Translation, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(t *Translation) string {
			if t == nil {
				return ""
			}
			return t.ID.String()
		},
	})
}

type BunItemRepository struct {
	repo repository.Repository[*Item]
	// list bypasses the cache: the default key serializer cannot tell
	// query closures apart, so filtered lists would share one entry.
	list repository.Repository[*Item]
}

func NewBunItemRepository(db *bun.DB) *BunItemRepository {
	return NewBunItemRepositoryWithCache(db, nil, nil)
}

// NewBunItemRepositoryWithCache wraps source reads with go-repository-cache.
func NewBunItemRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunItemRepository {
	base := NewItemRepository(db)
	return &BunItemRepository{repo: wrapWithCache(base, cacheService, keySerializer), list: base}
}

func (r *BunItemRepository) Create(ctx context.Context, item *Item) (*Item, error) {
	if item == nil || item.ID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	if _, ok := fieldSets[item.ContentType]; !ok {
		return nil, ErrUnknownContentType
	}
	return r.repo.Create(ctx, item)
}

func (r *BunItemRepository) GetByID(ctx context.Context, contentType Type, id uuid.UUID) (*Item, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, string(contentType), id.String())
	}
	if result.ContentType != contentType {
		return nil, &NotFoundError{Resource: string(contentType), Key: id.String()}
	}
	return result, nil
}

func (r *BunItemRepository) ListEligible(ctx context.Context, contentType Type) ([]*Item, error) {
	statuses := EligibleStatuses(contentType)
	if len(statuses) == 0 {
		return nil, ErrUnknownContentType
	}
	records, _, err := r.list.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_type = ?", contentType).
				Where("LOWER(?TableAlias.status) IN (?)", bun.In(statuses)).
				OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s repository error: %w", contentType, err)
	}
	return records, nil
}

type BunTranslationRepository struct {
	db   *bun.DB
	repo repository.Repository[*Translation]
	now  func() time.Time
}

func NewBunTranslationRepository(db *bun.DB) *BunTranslationRepository {
	return &BunTranslationRepository{
		db:   db,
		repo: NewTranslationRepository(db),
		now:  time.Now,
	}
}

func (r *BunTranslationRepository) Get(ctx context.Context, contentType Type, id uuid.UUID, language languages.Code) (*Translation, error) {
	key := translationKey(contentType, id, language)
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_type = ?", contentType).
				Where("?TableAlias.content_id = ?", id).
				Where("?TableAlias.language = ?", language)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "translation", key)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "translation", Key: key}
	}
	return records[0], nil
}

func (r *BunTranslationRepository) ListByContent(ctx context.Context, contentType Type, id uuid.UUID) ([]*Translation, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_type = ?", contentType).
				Where("?TableAlias.content_id = ?", id)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("translation repository error: %w", err)
	}
	ordered := make([]*Translation, 0, len(records))
	for _, language := range languages.Targets() {
		for _, rec := range records {
			if rec.Language == language {
				ordered = append(ordered, rec)
			}
		}
	}
	return ordered, nil
}

// Upsert relies on the (content_type, content_id, language) unique index so
// concurrent writers resolve as last-writer-wins inside the database.
func (r *BunTranslationRepository) Upsert(ctx context.Context, record *Translation) (*Translation, error) {
	if err := validateTranslation(record); err != nil {
		return nil, err
	}
	model := cloneTranslation(record)
	if model.ID == uuid.Nil {
		model.ID = uuid.New()
	}
	now := r.now().UTC()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
	}
	if model.UpdatedAt.IsZero() {
		model.UpdatedAt = now
	}
	if model.Fields == nil {
		model.Fields = map[string]any{}
	}

	_, err := r.db.NewInsert().
		Model(model).
		On("CONFLICT (content_type, content_id, language) DO UPDATE").
		Set("fields = EXCLUDED.fields").
		Set("is_auto_translated = EXCLUDED.is_auto_translated").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("translation upsert %s: %w", translationKey(model.ContentType, model.ContentID, model.Language), err)
	}
	return r.Get(ctx, model.ContentType, model.ContentID, model.Language)
}

func (r *BunTranslationRepository) Delete(ctx context.Context, contentType Type, id uuid.UUID, language languages.Code) error {
	key := translationKey(contentType, id, language)
	res, err := r.db.NewDelete().
		Model((*Translation)(nil)).
		Where("content_type = ?", contentType).
		Where("content_id = ?", id).
		Where("language = ?", language).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("translation delete %s: %w", key, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return &NotFoundError{Resource: "translation", Key: key}
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", strings.TrimSpace(resource), err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
