package translations

import (
	"fmt"

	"github.com/goliatone/go-autotranslate/internal/content"
	"github.com/goliatone/go-autotranslate/internal/fieldtree"
)

// Registry holds one orchestrator per content type.
type Registry struct {
	orchestrators map[content.Type]*Orchestrator
}

// NewRegistry builds orchestrators for every known content type sharing the
// same repository and tree translator.
func NewRegistry(translations content.TranslationRepository, translator *fieldtree.Translator, opts ...OrchestratorOption) *Registry {
	r := &Registry{orchestrators: make(map[content.Type]*Orchestrator, len(content.Types()))}
	for _, contentType := range content.Types() {
		r.orchestrators[contentType] = NewOrchestrator(contentType, translations, translator, opts...)
	}
	return r
}

func (r *Registry) ForType(contentType content.Type) (*Orchestrator, error) {
	if r == nil {
		return nil, ErrOrchestratorMissing
	}
	orchestrator, ok := r.orchestrators[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrOrchestratorMissing, contentType)
	}
	return orchestrator, nil
}
