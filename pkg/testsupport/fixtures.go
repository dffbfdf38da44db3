package testsupport

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/goliatone/go-autotranslate/internal/content"
)

// Fixture is a JSON snapshot of source items and their translation rows.
type Fixture struct {
	Items        []*content.Item        `json:"items"`
	Translations []*content.Translation `json:"translations"`
}

// LoadFixture reads a Fixture from path.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fixture Fixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("testsupport: decode %s: %w", path, err)
	}
	return &fixture, nil
}

// Seed writes the fixture through the repositories.
func (f *Fixture) Seed(ctx context.Context, items content.ItemRepository, translations content.TranslationRepository) error {
	for _, item := range f.Items {
		if _, err := items.Create(ctx, item); err != nil {
			return fmt.Errorf("testsupport: seed item %s: %w", item.ID, err)
		}
	}
	for _, row := range f.Translations {
		if _, err := translations.Upsert(ctx, row); err != nil {
			return fmt.Errorf("testsupport: seed translation %s/%s: %w", row.ContentID, row.Language, err)
		}
	}
	return nil
}
