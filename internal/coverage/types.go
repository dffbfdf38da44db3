package coverage

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-autotranslate/internal/content"
	"github.com/goliatone/go-autotranslate/internal/languages"
)

// ItemState classifies an item by its overall coverage.
type ItemState string

const (
	StateComplete ItemState = "complete"
	StatePartial  ItemState = "partial"
	StateMissing  ItemState = "missing"
)

// allFields marks every field as missing when no translation row exists.
const allFields = "all"

type LanguageStatus struct {
	Exists        bool     `json:"exists"`
	Completeness  float64  `json:"completeness"`
	FilledFields  []string `json:"filled_fields"`
	MissingFields []string `json:"missing_fields"`
}

type ItemCoverage struct {
	ContentID        uuid.UUID                         `json:"content_id"`
	Title            string                            `json:"title,omitempty"`
	Languages        map[languages.Code]LanguageStatus `json:"languages"`
	OverallCoverage  float64                           `json:"overall_coverage"`
	Status           ItemState                         `json:"status"`
	MissingLanguages []languages.Code                  `json:"missing_languages"`
}

type SectionReport struct {
	ContentType        content.Type   `json:"content_type"`
	TotalItems         int            `json:"total_items"`
	TranslatedItems    int            `json:"translated_items"`
	PartialItems       int            `json:"partial_items"`
	MissingItems       int            `json:"missing_items"`
	CoveragePercentage float64        `json:"coverage_percentage"`
	Items              []ItemCoverage `json:"items"`
}

// LanguageSummary aggregates one target language across every checked item.
type LanguageSummary struct {
	ExistingRows        int     `json:"existing_rows"`
	CompleteRows        int     `json:"complete_rows"`
	AverageCompleteness float64 `json:"average_completeness"`
}

type Summary struct {
	TotalItems         int                                `json:"total_items"`
	TranslatedItems    int                                `json:"translated_items"`
	CoveragePercentage float64                            `json:"coverage_percentage"`
	Languages          map[languages.Code]LanguageSummary `json:"languages"`
}

type Report struct {
	Summary  Summary         `json:"summary"`
	Sections []SectionReport `json:"sections"`
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
