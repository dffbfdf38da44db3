package content

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownContentType        = errors.New("content: unknown content type")
	ErrContentIDRequired         = errors.New("content: content id required")
	ErrLanguageRequired          = errors.New("content: language required")
	ErrSourceLanguageTranslation = errors.New("content: translations cannot target the source language")
)

// NotFoundError reports a missing item or translation row.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
