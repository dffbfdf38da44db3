package translationcmd

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-autotranslate/internal/content"
	"github.com/goliatone/go-autotranslate/internal/fieldtree"
	"github.com/goliatone/go-autotranslate/internal/jobs"
	"github.com/goliatone/go-autotranslate/internal/languages"
	"github.com/goliatone/go-autotranslate/internal/translations"
)

type stubService struct {
	requests []translations.TriggerRequest
	result   translations.TriggerResult
	err      error
}

func (s *stubService) Trigger(_ context.Context, req translations.TriggerRequest) (translations.TriggerResult, error) {
	s.requests = append(s.requests, req)
	return s.result, s.err
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

type markTranslator struct{}

func (markTranslator) TranslateText(_ context.Context, text string, _, target languages.Code) string {
	return "[" + string(target) + "] " + text
}

func TestTranslateContentCommandValidation(t *testing.T) {
	cases := []struct {
		name  string
		msg   TranslateContentCommand
		valid bool
	}{
		{"valid", TranslateContentCommand{ContentType: "blog", ContentID: uuid.New()}, true},
		{"plural type", TranslateContentCommand{ContentType: "packages", ContentID: uuid.New(), Languages: []string{"de"}}, true},
		{"missing type", TranslateContentCommand{ContentID: uuid.New()}, false},
		{"unknown type", TranslateContentCommand{ContentType: "widget", ContentID: uuid.New()}, false},
		{"nil id", TranslateContentCommand{ContentType: "blog"}, false},
		{"source language", TranslateContentCommand{ContentType: "blog", ContentID: uuid.New(), Languages: []string{"id"}}, false},
		{"unsupported language", TranslateContentCommand{ContentType: "blog", ContentID: uuid.New(), Languages: []string{"fr"}}, false},
	}
	for _, tc := range cases {
		err := tc.msg.Validate()
		if tc.valid && err != nil {
			t.Fatalf("%s: expected valid, got %v", tc.name, err)
		}
		if !tc.valid && err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestBackfillCommandValidation(t *testing.T) {
	if err := (BackfillTranslationsCommand{}).Validate(); err != nil {
		t.Fatalf("empty backfill should be valid: %v", err)
	}
	if err := (BackfillTranslationsCommand{ContentTypes: []string{"blog", "nope"}}).Validate(); err == nil {
		t.Fatal("expected unknown content type to fail")
	}
	if err := (BackfillTranslationsCommand{BatchSize: -1}).Validate(); err == nil {
		t.Fatal("expected negative batch size to fail")
	}
}

func TestTranslateHandlerForwardsParsedRequest(t *testing.T) {
	id := uuid.New()
	service := &stubService{result: translations.TriggerResult{Success: true, Message: "1 translated, 0 skipped, 0 failed"}}
	var observed translations.TriggerResult
	handler := NewTranslateContentHandler(service, nil, func(res translations.TriggerResult) { observed = res })

	err := handler.Execute(context.Background(), TranslateContentCommand{
		ContentType: "Blogs",
		ContentID:   id,
		Force:       true,
		Languages:   []string{"DE"},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(service.requests) != 1 {
		t.Fatalf("expected one trigger, got %d", len(service.requests))
	}
	req := service.requests[0]
	if req.ContentType != content.TypeBlog || req.ContentID != id || !req.Force {
		t.Fatalf("unexpected request %+v", req)
	}
	if len(req.Languages) != 1 || req.Languages[0] != languages.German {
		t.Fatalf("unexpected languages %v", req.Languages)
	}
	if !observed.Success {
		t.Fatalf("expected observer to receive result, got %+v", observed)
	}
}

func TestTranslateHandlerRejectsInvalidMessage(t *testing.T) {
	service := &stubService{}
	handler := NewTranslateContentHandler(service, nil, nil)

	err := handler.Execute(context.Background(), TranslateContentCommand{ContentType: "blog"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(service.requests) != 0 {
		t.Fatal("service should not be called for invalid messages")
	}
}

func TestTranslateHandlerWrapsServiceError(t *testing.T) {
	boom := errors.New("boom")
	handler := NewTranslateContentHandler(&stubService{err: boom}, nil, nil)

	err := handler.Execute(context.Background(), TranslateContentCommand{ContentType: "blog", ContentID: uuid.New()})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command error for %v, got %v", boom, err)
	}
}

func TestRegisterTranslationCommandsRunsBackfill(t *testing.T) {
	ctx := context.Background()
	items := content.NewMemoryItemRepository()
	repo := content.NewMemoryTranslationRepository()
	registry := translations.NewRegistry(repo, fieldtree.NewTranslator(markTranslator{}, fieldtree.WithConcurrency(1)))

	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	blog, err := items.Create(ctx, &content.Item{
		ID:          uuid.New(),
		ContentType: content.TypeBlog,
		Status:      "published",
		Fields:      map[string]any{"title": "Kuliner Malang"},
		CreatedAt:   created,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	reg := &recordingRegistry{}
	var summary jobs.Summary
	set, err := RegisterTranslationCommands(reg, Dependencies{
		Service:  &stubService{},
		Items:    items,
		Registry: registry,
	}, nil, WithBackfillObserver(func(s jobs.Summary) { summary = s }))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(reg.handlers) != 2 {
		t.Fatalf("expected two registered handlers, got %d", len(reg.handlers))
	}

	err = set.Backfill.Execute(ctx, BackfillTranslationsCommand{ContentTypes: []string{"blog"}, Languages: []string{"nl"}})
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if summary.Translated != 1 || summary.Items != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	row, err := repo.Get(ctx, content.TypeBlog, blog.ID, languages.Dutch)
	if err != nil {
		t.Fatalf("expected dutch row: %v", err)
	}
	if row.Fields["title"] != "[nl] Kuliner Malang" {
		t.Fatalf("unexpected translated title %v", row.Fields["title"])
	}
	if _, err := repo.Get(ctx, content.TypeBlog, blog.ID, languages.German); err == nil {
		t.Fatal("german row should not exist when backfill is restricted to nl")
	}
}

func TestRegisterTranslationCommandsRequiresDependencies(t *testing.T) {
	if _, err := RegisterTranslationCommands(nil, Dependencies{}, nil); err == nil {
		t.Fatal("expected missing service error")
	}
}

func TestMessageLogFieldsCarryTarget(t *testing.T) {
	id := uuid.New()
	fields := TranslateContentCommand{ContentType: "blog", ContentID: id, Languages: []string{"en", "de"}}.LogFields()
	if fields["content_id"] != id.String() || fields["languages"] != "en,de" || fields["force"] != false {
		t.Fatalf("unexpected translate fields %v", fields)
	}
	backfill := BackfillTranslationsCommand{ContentTypes: []string{"gallery"}, BatchSize: 10}.LogFields()
	if backfill["content_types"] != "gallery" || backfill["batch_size"] != 10 {
		t.Fatalf("unexpected backfill fields %v", backfill)
	}
	if _, ok := backfill["languages"]; ok {
		t.Fatalf("languages should be omitted when empty: %v", backfill)
	}
}
