package translations

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-autotranslate/internal/content"
	"github.com/goliatone/go-autotranslate/internal/fieldtree"
	"github.com/goliatone/go-autotranslate/internal/languages"
)

type countingTranslator struct {
	mu    sync.Mutex
	calls int
}

func (c *countingTranslator) TranslateText(_ context.Context, text string, _, target languages.Code) string {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return text + " (" + string(target) + ")"
}

func (c *countingTranslator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// cancellingTranslator cancels the run on its first call and echoes text.
type cancellingTranslator struct {
	cancel context.CancelFunc
	calls  int
}

func (c *cancellingTranslator) TranslateText(_ context.Context, text string, _, _ languages.Code) string {
	c.calls++
	if c.calls == 1 {
		c.cancel()
	}
	return text
}

// flakyTranslations wraps the memory repository and injects failures.
type flakyTranslations struct {
	*content.MemoryTranslationRepository
	failUpsert map[languages.Code]error
	failGet    error
}

func (f *flakyTranslations) Get(ctx context.Context, contentType content.Type, id uuid.UUID, lang languages.Code) (*content.Translation, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	return f.MemoryTranslationRepository.Get(ctx, contentType, id, lang)
}

func (f *flakyTranslations) Upsert(ctx context.Context, record *content.Translation) (*content.Translation, error) {
	if err, ok := f.failUpsert[record.Language]; ok {
		return nil, err
	}
	return f.MemoryTranslationRepository.Upsert(ctx, record)
}

var errWriteFailed = errors.New("write failed")

type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTreeTranslator(text fieldtree.TextTranslator) *fieldtree.Translator {
	return fieldtree.NewTranslator(text)
}
