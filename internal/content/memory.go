package content

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-autotranslate/internal/languages"
	"github.com/google/uuid"
)

// MemoryItemRepository is an in-memory source store for scaffolding and tests.
type MemoryItemRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*Item
}

// NewMemoryItemRepository creates an empty in-memory item repository.
func NewMemoryItemRepository() *MemoryItemRepository {
	return &MemoryItemRepository{items: make(map[uuid.UUID]*Item)}
}

// Create inserts or replaces an item.
func (m *MemoryItemRepository) Create(_ context.Context, item *Item) (*Item, error) {
	if item == nil || item.ID == uuid.Nil {
		return nil, ErrContentIDRequired
	}
	if _, ok := fieldSets[item.ContentType]; !ok {
		return nil, ErrUnknownContentType
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneItem(item)
	m.items[copied.ID] = copied
	return cloneItem(copied), nil
}

// GetByID retrieves an item of the given type.
func (m *MemoryItemRepository) GetByID(_ context.Context, contentType Type, id uuid.UUID) (*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.items[id]
	if !ok || rec.ContentType != contentType {
		return nil, &NotFoundError{Resource: string(contentType), Key: id.String()}
	}
	return cloneItem(rec), nil
}

// ListEligible returns items of the given type whose status is eligible,
// ordered by creation time.
func (m *MemoryItemRepository) ListEligible(_ context.Context, contentType Type) ([]*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Item, 0)
	for _, rec := range m.items {
		if rec.ContentType == contentType && IsEligible(rec) {
			out = append(out, cloneItem(rec))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// MemoryTranslationRepository stores translation rows in-memory.
type MemoryTranslationRepository struct {
	mu   sync.RWMutex
	rows map[string]*Translation
	now  func() time.Time
}

// NewMemoryTranslationRepository constructs the repository.
func NewMemoryTranslationRepository() *MemoryTranslationRepository {
	return &MemoryTranslationRepository{
		rows: make(map[string]*Translation),
		now:  time.Now,
	}
}

// Get fetches the row for (type, id, language).
func (m *MemoryTranslationRepository) Get(_ context.Context, contentType Type, id uuid.UUID, language languages.Code) (*Translation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.rows[translationKey(contentType, id, language)]
	if !ok {
		return nil, &NotFoundError{Resource: "translation", Key: translationKey(contentType, id, language)}
	}
	return cloneTranslation(rec), nil
}

// ListByContent returns every stored language row of an item in target order.
func (m *MemoryTranslationRepository) ListByContent(_ context.Context, contentType Type, id uuid.UUID) ([]*Translation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Translation, 0, len(languages.Targets()))
	for _, language := range languages.Targets() {
		if rec, ok := m.rows[translationKey(contentType, id, language)]; ok {
			out = append(out, cloneTranslation(rec))
		}
	}
	return out, nil
}

// Upsert inserts the row or replaces the stored fields of an existing one.
func (m *MemoryTranslationRepository) Upsert(_ context.Context, record *Translation) (*Translation, error) {
	if err := validateTranslation(record); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := translationKey(record.ContentType, record.ContentID, record.Language)
	copied := cloneTranslation(record)
	if existing, ok := m.rows[key]; ok {
		copied.ID = existing.ID
		copied.CreatedAt = existing.CreatedAt
	} else {
		if copied.ID == uuid.Nil {
			copied.ID = uuid.New()
		}
		if copied.CreatedAt.IsZero() {
			copied.CreatedAt = m.now()
		}
	}
	if copied.UpdatedAt.IsZero() {
		copied.UpdatedAt = m.now()
	}
	if copied.Fields == nil {
		copied.Fields = map[string]any{}
	}
	m.rows[key] = copied
	return cloneTranslation(copied), nil
}

// Delete removes a row, returning NotFoundError when absent.
func (m *MemoryTranslationRepository) Delete(_ context.Context, contentType Type, id uuid.UUID, language languages.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := translationKey(contentType, id, language)
	if _, ok := m.rows[key]; !ok {
		return &NotFoundError{Resource: "translation", Key: key}
	}
	delete(m.rows, key)
	return nil
}
