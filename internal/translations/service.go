package translations

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-autotranslate/internal/content"
	"github.com/goliatone/go-autotranslate/internal/coverage"
	"github.com/goliatone/go-autotranslate/internal/languages"
	"github.com/goliatone/go-autotranslate/internal/logging"
	"github.com/goliatone/go-autotranslate/pkg/interfaces"
)

// TriggerRequest asks for one content item to be translated.
type TriggerRequest struct {
	ContentType content.Type
	ContentID   uuid.UUID
	Force       bool
	Languages   []languages.Code
}

type TriggerResult struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Outcome Outcome `json:"outcome"`
}

// Service is the boundary the CMS talks to.
type Service struct {
	items    content.ItemRepository
	registry *Registry
	reader   *Reader
	checker  *coverage.Checker
	logger   interfaces.Logger
}

type ServiceOption func(*Service)

func WithServiceLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(items content.ItemRepository, registry *Registry, reader *Reader, checker *coverage.Checker, opts ...ServiceOption) *Service {
	s := &Service{
		items:    items,
		registry: registry,
		reader:   reader,
		checker:  checker,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Trigger loads the source item and runs its orchestrator. A persistence
// failure is returned as an error only when the run covered a single
// language, whether named by the request or by the default target set.
func (s *Service) Trigger(ctx context.Context, req TriggerRequest) (TriggerResult, error) {
	if s.items == nil {
		return TriggerResult{}, ErrItemRepositoryNil
	}
	orchestrator, err := s.registry.ForType(req.ContentType)
	if err != nil {
		return TriggerResult{Message: err.Error()}, err
	}
	item, err := s.items.GetByID(ctx, req.ContentType, req.ContentID)
	if err != nil {
		return TriggerResult{Message: err.Error()}, err
	}

	outcome, err := orchestrator.AutoTranslate(ctx, item.ID, item.Fields, Options{
		Force:     req.Force,
		Languages: req.Languages,
	})
	result := TriggerResult{Outcome: outcome}
	if err != nil {
		result.Message = err.Error()
		return result, err
	}

	failed := outcome.Failed()
	if len(outcome.Languages) == 1 && len(failed) == 1 {
		result.Message = failed[0].Err.Error()
		return result, failed[0].Err
	}

	// remaining per-language failures are reported in the outcome only
	result.Success = true
	result.Message = fmt.Sprintf("%s %s: %s", req.ContentType, req.ContentID, outcome)
	s.logger.Info("translations.trigger.completed",
		"content_type", req.ContentType.String(),
		"content_id", req.ContentID.String(),
		"translated", len(outcome.Translated()),
		"skipped", len(outcome.Skipped()),
		"failed", len(failed),
	)
	return result, nil
}

// Status reports per-language existence and completeness for one item.
func (s *Service) Status(ctx context.Context, contentType content.Type, id uuid.UUID) (map[languages.Code]coverage.LanguageStatus, error) {
	item, err := s.checker.ItemStatus(ctx, contentType, id)
	if err != nil {
		return nil, err
	}
	return item.Languages, nil
}

// Coverage reports every section, or only section when it is set.
func (s *Service) Coverage(ctx context.Context, section *content.Type) (coverage.Report, error) {
	if section != nil {
		return s.checker.CheckCoverage(ctx, *section)
	}
	return s.checker.CheckCoverage(ctx)
}

// Localized returns the effective field map for lang: the source fields
// with any translated values laid over them.
func (s *Service) Localized(ctx context.Context, contentType content.Type, id uuid.UUID, lang languages.Code) (map[string]any, error) {
	if s.items == nil {
		return nil, ErrItemRepositoryNil
	}
	item, err := s.items.GetByID(ctx, contentType, id)
	if err != nil {
		return nil, err
	}
	record, err := s.reader.GetTranslation(ctx, contentType, id, lang)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return Overlay(item.Fields, nil), nil
	}
	return Overlay(item.Fields, record.Fields), nil
}
