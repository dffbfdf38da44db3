package translations

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-autotranslate/internal/content"
	"github.com/goliatone/go-autotranslate/internal/languages"
)

// Status records what happened to one target language during a run.
type Status string

const (
	StatusTranslated Status = "translated"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

type LanguageOutcome struct {
	Language languages.Code `json:"language"`
	Status   Status         `json:"status"`
	Err      error          `json:"-"`
}

// Outcome summarises an orchestrator run for one content item.
type Outcome struct {
	ContentType content.Type      `json:"content_type"`
	ContentID   uuid.UUID         `json:"content_id"`
	Languages   []LanguageOutcome `json:"languages"`
}

func (o Outcome) Translated() []languages.Code { return o.withStatus(StatusTranslated) }
func (o Outcome) Skipped() []languages.Code    { return o.withStatus(StatusSkipped) }

// Failed returns the failed language entries including their errors.
func (o Outcome) Failed() []LanguageOutcome {
	var failed []LanguageOutcome
	for _, entry := range o.Languages {
		if entry.Status == StatusFailed {
			failed = append(failed, entry)
		}
	}
	return failed
}

func (o Outcome) withStatus(status Status) []languages.Code {
	var out []languages.Code
	for _, entry := range o.Languages {
		if entry.Status == status {
			out = append(out, entry.Language)
		}
	}
	return out
}

func (o Outcome) String() string {
	return fmt.Sprintf("%d translated, %d skipped, %d failed", len(o.Translated()), len(o.Skipped()), len(o.Failed()))
}
