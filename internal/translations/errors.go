package translations

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-autotranslate/internal/content"
	"github.com/goliatone/go-autotranslate/internal/languages"
)

var (
	ErrOrchestratorMissing = errors.New("translations: no orchestrator registered for content type")
	ErrItemRepositoryNil   = errors.New("translations: item repository is nil")
)

// PersistenceError wraps an upsert failure for one (content, language) pair.
type PersistenceError struct {
	ContentType content.Type
	ContentID   uuid.UUID
	Language    languages.Code
	Err         error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("translations: persist %s/%s (%s): %v", e.ContentType, e.ContentID, e.Language, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
