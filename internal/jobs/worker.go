package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-autotranslate/internal/content"
	"github.com/goliatone/go-autotranslate/internal/languages"
	"github.com/goliatone/go-autotranslate/internal/logging"
	"github.com/goliatone/go-autotranslate/internal/translations"
	"github.com/goliatone/go-autotranslate/pkg/interfaces"
)

// Summary reports a single backfill run.
type Summary struct {
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Items      int                  `json:"items"`
	Translated int                  `json:"translated"`
	Skipped    int                  `json:"skipped"`
	Failed     int                  `json:"failed"`
	Errors     int                  `json:"errors"`
	Sections   map[content.Type]int `json:"sections"`
	Truncated  bool                 `json:"truncated"`
}

// Worker walks eligible source items and runs their orchestrator without
// forcing, so rows that already exist are left alone.
type Worker struct {
	items        content.ItemRepository
	registry     *translations.Registry
	audit        AuditRecorder
	logger       interfaces.Logger
	now          func() time.Time
	contentTypes []content.Type
	languages    []languages.Code
	batchSize    int
}

type Option func(*Worker)

func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(w *Worker) {
		w.audit = recorder
	}
}

func WithClock(clock func() time.Time) Option {
	return func(w *Worker) {
		if clock != nil {
			w.now = clock
		}
	}
}

func WithContentTypes(types ...content.Type) Option {
	return func(w *Worker) {
		if len(types) > 0 {
			w.contentTypes = append([]content.Type(nil), types...)
		}
	}
}

func WithLanguages(codes ...languages.Code) Option {
	return func(w *Worker) {
		w.languages = append([]languages.Code(nil), codes...)
	}
}

// WithBatchSize caps the items visited per content type in one run.
func WithBatchSize(size int) Option {
	return func(w *Worker) {
		if size > 0 {
			w.batchSize = size
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func NewWorker(items content.ItemRepository, registry *translations.Registry, opts ...Option) *Worker {
	w := &Worker{
		items:        items,
		registry:     registry,
		logger:       logging.NoOp(),
		now:          time.Now,
		contentTypes: content.Types(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Process runs one backfill pass. Cancellation is checked between items; a
// cancelled run returns the partial summary with the context error.
func (w *Worker) Process(ctx context.Context) (Summary, error) {
	summary := Summary{StartedAt: w.now(), Sections: map[content.Type]int{}}
	if w.items == nil {
		return summary, errors.New("jobs: item repository is nil")
	}
	if w.registry == nil {
		return summary, errors.New("jobs: orchestrator registry is nil")
	}

	for _, contentType := range w.contentTypes {
		orchestrator, err := w.registry.ForType(contentType)
		if err != nil {
			return w.finish(summary), err
		}
		items, err := w.items.ListEligible(ctx, contentType)
		if err != nil {
			return w.finish(summary), err
		}
		if w.batchSize > 0 && len(items) > w.batchSize {
			items = items[:w.batchSize]
			summary.Truncated = true
		}

		for _, item := range items {
			if err := ctx.Err(); err != nil {
				w.logger.Warn("jobs.backfill.cancelled", "processed", summary.Items)
				return w.finish(summary), err
			}
			if err := w.handleItem(ctx, orchestrator, item, &summary); err != nil {
				return w.finish(summary), err
			}
		}
	}

	summary = w.finish(summary)
	w.logger.Info("jobs.backfill.completed",
		"items", summary.Items,
		"translated", summary.Translated,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"errors", summary.Errors,
	)
	return summary, nil
}

func (w *Worker) handleItem(ctx context.Context, orchestrator *translations.Orchestrator, item *content.Item, summary *Summary) error {
	logger := logging.WithContentContext(w.logger, item.ContentType.String(), item.ID.String(), "")
	outcome, err := orchestrator.AutoTranslate(ctx, item.ID, item.Fields, translations.Options{Languages: w.languages})
	summary.Items++
	summary.Sections[item.ContentType]++

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		summary.Errors++
		logger.Error("jobs.backfill.item_failed", "error", err)
		w.recordAudit(ctx, AuditEvent{
			ContentType: item.ContentType,
			ContentID:   item.ID,
			Action:      ActionTranslateFailed,
			Error:       err.Error(),
			OccurredAt:  w.now(),
		})
		return nil
	}

	summary.Translated += len(outcome.Translated())
	summary.Skipped += len(outcome.Skipped())
	summary.Failed += len(outcome.Failed())
	if len(outcome.Translated()) == 0 && len(outcome.Failed()) == 0 {
		return nil
	}
	w.recordAudit(ctx, AuditEvent{
		ContentType: item.ContentType,
		ContentID:   item.ID,
		Action:      ActionTranslate,
		Translated:  outcome.Translated(),
		Skipped:     outcome.Skipped(),
		Failed:      len(outcome.Failed()),
		OccurredAt:  w.now(),
	})
	return nil
}

func (w *Worker) recordAudit(ctx context.Context, event AuditEvent) {
	if w.audit == nil {
		return
	}
	if err := w.audit.Record(ctx, event); err != nil {
		w.logger.Warn("jobs.audit.record_failed", "error", err)
	}
}

func (w *Worker) finish(summary Summary) Summary {
	summary.FinishedAt = w.now()
	return summary
}
