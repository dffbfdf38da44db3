package translationcmd

import (
	"context"

	"github.com/goliatone/go-autotranslate/internal/commands"
	"github.com/goliatone/go-autotranslate/internal/content"
	"github.com/goliatone/go-autotranslate/internal/jobs"
	"github.com/goliatone/go-autotranslate/internal/translations"
	"github.com/goliatone/go-autotranslate/pkg/interfaces"
)

// TriggerService is the slice of translations.Service the translate handler needs.
type TriggerService interface {
	Trigger(ctx context.Context, req translations.TriggerRequest) (translations.TriggerResult, error)
}

// TranslateContentHandler runs TranslateContentCommand through the shared
// command handler.
type TranslateContentHandler struct {
	inner *commands.Handler[TranslateContentCommand]
}

func NewTranslateContentHandler(service TriggerService, logger interfaces.Logger, observe func(translations.TriggerResult), opts ...commands.HandlerOption[TranslateContentCommand]) *TranslateContentHandler {
	exec := func(ctx context.Context, msg TranslateContentCommand) error {
		contentType, codes := msg.parsed()
		result, err := service.Trigger(ctx, translations.TriggerRequest{
			ContentType: contentType,
			ContentID:   msg.ContentID,
			Force:       msg.Force,
			Languages:   codes,
		})
		if observe != nil {
			observe(result)
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[TranslateContentCommand]{
		commands.WithLogger[TranslateContentCommand](logger),
		commands.WithOperation[TranslateContentCommand]("translation.translate"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &TranslateContentHandler{
		inner: commands.NewHandler[TranslateContentCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[TranslateContentCommand].
func (h *TranslateContentHandler) Execute(ctx context.Context, msg TranslateContentCommand) error {
	return h.inner.Execute(ctx, msg)
}

// BackfillTranslationsHandler builds a backfill worker per message.
type BackfillTranslationsHandler struct {
	inner *commands.Handler[BackfillTranslationsCommand]
}

func NewBackfillTranslationsHandler(items content.ItemRepository, registry *translations.Registry, logger interfaces.Logger, workerOpts []jobs.Option, observe func(jobs.Summary), opts ...commands.HandlerOption[BackfillTranslationsCommand]) *BackfillTranslationsHandler {
	exec := func(ctx context.Context, msg BackfillTranslationsCommand) error {
		types, codes := msg.parsed()
		options := append([]jobs.Option{jobs.WithLogger(logger)}, workerOpts...)
		options = append(options, jobs.WithContentTypes(types...), jobs.WithBatchSize(msg.BatchSize))
		if len(codes) > 0 {
			options = append(options, jobs.WithLanguages(codes...))
		}
		summary, err := jobs.NewWorker(items, registry, options...).Process(ctx)
		if observe != nil {
			observe(summary)
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[BackfillTranslationsCommand]{
		commands.WithLogger[BackfillTranslationsCommand](logger),
		commands.WithOperation[BackfillTranslationsCommand]("translation.backfill"),
		// backfills pace themselves through the provider limiter
		commands.WithTimeout[BackfillTranslationsCommand](0),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BackfillTranslationsHandler{
		inner: commands.NewHandler[BackfillTranslationsCommand](exec, handlerOpts...),
	}
}

func (h *BackfillTranslationsHandler) Execute(ctx context.Context, msg BackfillTranslationsCommand) error {
	return h.inner.Execute(ctx, msg)
}
