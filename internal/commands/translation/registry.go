package translationcmd

import (
	"errors"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-autotranslate/internal/commands"
	"github.com/goliatone/go-autotranslate/internal/content"
	"github.com/goliatone/go-autotranslate/internal/jobs"
	"github.com/goliatone/go-autotranslate/internal/translations"
	"github.com/goliatone/go-autotranslate/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract of go-command registries.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// Dependencies are the services the translation commands operate on.
type Dependencies struct {
	Service  TriggerService
	Items    content.ItemRepository
	Registry *translations.Registry
}

// HandlerSet groups the handlers produced by RegisterTranslationCommands.
type HandlerSet struct {
	Translate *TranslateContentHandler
	Backfill  *BackfillTranslationsHandler
}

type Option func(*options)

type options struct {
	translateOpts []commands.HandlerOption[TranslateContentCommand]
	backfillOpts  []commands.HandlerOption[BackfillTranslationsCommand]
	workerOpts    []jobs.Option
	onTranslate   func(translations.TriggerResult)
	onBackfill    func(jobs.Summary)
}

func WithTranslateHandlerOptions(opts ...commands.HandlerOption[TranslateContentCommand]) Option {
	return func(cfg *options) {
		cfg.translateOpts = append(cfg.translateOpts, opts...)
	}
}

func WithBackfillHandlerOptions(opts ...commands.HandlerOption[BackfillTranslationsCommand]) Option {
	return func(cfg *options) {
		cfg.backfillOpts = append(cfg.backfillOpts, opts...)
	}
}

// WithWorkerOptions forwards options to every backfill worker.
func WithWorkerOptions(opts ...jobs.Option) Option {
	return func(cfg *options) {
		cfg.workerOpts = append(cfg.workerOpts, opts...)
	}
}

// WithTranslateObserver receives every trigger result, including failures.
func WithTranslateObserver(fn func(translations.TriggerResult)) Option {
	return func(cfg *options) {
		cfg.onTranslate = fn
	}
}

func WithBackfillObserver(fn func(jobs.Summary)) Option {
	return func(cfg *options) {
		cfg.onBackfill = fn
	}
}

// RegisterTranslationCommands builds the translation handlers and registers
// them with reg when it is non-nil.
func RegisterTranslationCommands(reg CommandRegistry, deps Dependencies, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if deps.Service == nil {
		return nil, errors.New("translation command registration: service is nil")
	}
	if deps.Items == nil || deps.Registry == nil {
		return nil, errors.New("translation command registration: items and registry are required")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "translation")
	set := &HandlerSet{
		Translate: NewTranslateContentHandler(deps.Service, logger, cfg.onTranslate, cfg.translateOpts...),
		Backfill:  NewBackfillTranslationsHandler(deps.Items, deps.Registry, logger, cfg.workerOpts, cfg.onBackfill, cfg.backfillOpts...),
	}

	if reg != nil {
		if err := reg.RegisterCommand(set.Translate); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(set.Backfill); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Subscribe attaches the handlers to the global go-command dispatcher. The
// returned function removes both subscriptions.
func (s *HandlerSet) Subscribe(maxRetries int) func() {
	translate := dispatcher.SubscribeCommand(s.Translate, runner.WithMaxRetries(maxRetries))
	backfill := dispatcher.SubscribeCommand(s.Backfill, runner.WithMaxRetries(maxRetries))
	return func() {
		translate.Unsubscribe()
		backfill.Unsubscribe()
	}
}
