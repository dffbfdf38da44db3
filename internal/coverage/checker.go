package coverage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-autotranslate/internal/content"
	"github.com/goliatone/go-autotranslate/internal/languages"
	"github.com/goliatone/go-autotranslate/internal/logging"
	"github.com/goliatone/go-autotranslate/pkg/interfaces"
)

// Checker computes translation completeness. It only reads.
type Checker struct {
	items        content.ItemRepository
	translations content.TranslationRepository
	logger       interfaces.Logger
}

type Option func(*Checker)

func WithLogger(logger interfaces.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewChecker(items content.ItemRepository, translations content.TranslationRepository, opts ...Option) *Checker {
	c := &Checker{
		items:        items,
		translations: translations,
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckCoverage reports the given sections, or every content type when none
// are given.
func (c *Checker) CheckCoverage(ctx context.Context, sections ...content.Type) (Report, error) {
	if len(sections) == 0 {
		sections = content.Types()
	}

	report := Report{
		Sections: make([]SectionReport, 0, len(sections)),
		Summary:  Summary{Languages: map[languages.Code]LanguageSummary{}},
	}
	totals := map[languages.Code]float64{}

	for _, section := range sections {
		sectionReport, err := c.CheckSection(ctx, section)
		if err != nil {
			return Report{}, err
		}
		report.Sections = append(report.Sections, sectionReport)
		report.Summary.TotalItems += sectionReport.TotalItems
		report.Summary.TranslatedItems += sectionReport.TranslatedItems

		for _, item := range sectionReport.Items {
			for _, lang := range languages.Targets() {
				status := item.Languages[lang]
				summary := report.Summary.Languages[lang]
				if status.Exists {
					summary.ExistingRows++
				}
				if status.Completeness == 100 {
					summary.CompleteRows++
				}
				report.Summary.Languages[lang] = summary
				totals[lang] += status.Completeness
			}
		}
	}

	report.Summary.CoveragePercentage = percentage(report.Summary.TranslatedItems, report.Summary.TotalItems)
	for _, lang := range languages.Targets() {
		summary := report.Summary.Languages[lang]
		if report.Summary.TotalItems > 0 {
			summary.AverageCompleteness = totals[lang] / float64(report.Summary.TotalItems)
		}
		report.Summary.Languages[lang] = summary
	}

	c.logger.Debug("coverage.report.computed",
		"sections", len(report.Sections),
		"total_items", report.Summary.TotalItems,
		"translated_items", report.Summary.TranslatedItems,
	)
	return report, nil
}

// CheckSection reports every eligible item of one content type.
func (c *Checker) CheckSection(ctx context.Context, contentType content.Type) (SectionReport, error) {
	if len(content.Fields(contentType)) == 0 {
		return SectionReport{}, fmt.Errorf("%w: %q", content.ErrUnknownContentType, contentType)
	}
	items, err := c.items.ListEligible(ctx, contentType)
	if err != nil {
		return SectionReport{}, fmt.Errorf("coverage: list %s: %w", contentType, err)
	}

	report := SectionReport{
		ContentType: contentType,
		TotalItems:  len(items),
		Items:       make([]ItemCoverage, 0, len(items)),
	}
	for _, item := range items {
		itemCoverage, err := c.coverItem(ctx, item)
		if err != nil {
			return SectionReport{}, err
		}
		switch itemCoverage.Status {
		case StateComplete:
			report.TranslatedItems++
		case StatePartial:
			report.PartialItems++
		default:
			report.MissingItems++
		}
		report.Items = append(report.Items, itemCoverage)
	}
	report.CoveragePercentage = percentage(report.TranslatedItems, report.TotalItems)
	return report, nil
}

func (c *Checker) CheckPackageTranslations(ctx context.Context) (SectionReport, error) {
	return c.CheckSection(ctx, content.TypePackage)
}

func (c *Checker) CheckBlogTranslations(ctx context.Context) (SectionReport, error) {
	return c.CheckSection(ctx, content.TypeBlog)
}

func (c *Checker) CheckTestimonialTranslations(ctx context.Context) (SectionReport, error) {
	return c.CheckSection(ctx, content.TypeTestimonial)
}

func (c *Checker) CheckGalleryTranslations(ctx context.Context) (SectionReport, error) {
	return c.CheckSection(ctx, content.TypeGallery)
}

func (c *Checker) CheckSectionTranslations(ctx context.Context) (SectionReport, error) {
	return c.CheckSection(ctx, content.TypeSection)
}

// ItemStatus reports coverage for a single item regardless of its status.
func (c *Checker) ItemStatus(ctx context.Context, contentType content.Type, id uuid.UUID) (ItemCoverage, error) {
	item, err := c.items.GetByID(ctx, contentType, id)
	if err != nil {
		return ItemCoverage{}, err
	}
	return c.coverItem(ctx, item)
}

func (c *Checker) coverItem(ctx context.Context, item *content.Item) (ItemCoverage, error) {
	rows, err := c.translations.ListByContent(ctx, item.ContentType, item.ID)
	if err != nil {
		return ItemCoverage{}, fmt.Errorf("coverage: translations for %s/%s: %w", item.ContentType, item.ID, err)
	}
	byLanguage := make(map[languages.Code]*content.Translation, len(rows))
	for _, row := range rows {
		byLanguage[row.Language] = row
	}

	specs := content.Fields(item.ContentType)
	result := ItemCoverage{
		ContentID: item.ID,
		Title:     item.Title(),
		Languages: map[languages.Code]LanguageStatus{
			languages.Source(): sourceStatus(specs),
		},
		MissingLanguages: []languages.Code{},
	}

	var sum float64
	targets := languages.Targets()
	for _, lang := range targets {
		status := languageStatus(specs, byLanguage[lang])
		result.Languages[lang] = status
		sum += status.Completeness
		if status.Completeness == 0 {
			result.MissingLanguages = append(result.MissingLanguages, lang)
		}
	}
	result.OverallCoverage = sum / float64(len(targets))
	result.Status = classify(result.OverallCoverage)
	return result, nil
}

func sourceStatus(specs []content.FieldSpec) LanguageStatus {
	filled := make([]string, len(specs))
	for i, spec := range specs {
		filled[i] = spec.Name
	}
	return LanguageStatus{Exists: true, Completeness: 100, FilledFields: filled, MissingFields: []string{}}
}

// languageStatus counts fields carrying a meaningful value.
func languageStatus(specs []content.FieldSpec, row *content.Translation) LanguageStatus {
	if row == nil {
		return LanguageStatus{Exists: false, Completeness: 0, FilledFields: []string{}, MissingFields: []string{allFields}}
	}
	status := LanguageStatus{Exists: true, FilledFields: []string{}, MissingFields: []string{}}
	for _, spec := range specs {
		if content.HasValue(spec, row.Fields[spec.Name]) {
			status.FilledFields = append(status.FilledFields, spec.Name)
		} else {
			status.MissingFields = append(status.MissingFields, spec.Name)
		}
	}
	status.Completeness = percentage(len(status.FilledFields), len(specs))
	return status
}

func classify(overall float64) ItemState {
	switch {
	case overall >= 100:
		return StateComplete
	case overall <= 0:
		return StateMissing
	default:
		return StatePartial
	}
}
