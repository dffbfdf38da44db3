package fieldtree

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-autotranslate/internal/languages"
	"github.com/goliatone/go-autotranslate/internal/logging"
	"github.com/goliatone/go-autotranslate/pkg/interfaces"
)

// DefaultMaxDepth bounds record recursion.
const DefaultMaxDepth = 5

// TextTranslator translates a single string. It must not fail.
type TextTranslator interface {
	TranslateText(ctx context.Context, text string, source, target languages.Code) string
}

// Translator walks field trees and sends every string leaf to a TextTranslator.
// The output always has the same shape and keys as the input.
type Translator struct {
	text        TextTranslator
	source      languages.Code
	maxDepth    int
	concurrency int
	logger      interfaces.Logger
}

type Option func(*Translator)

func WithMaxDepth(depth int) Option {
	return func(t *Translator) {
		if depth > 0 {
			t.maxDepth = depth
		}
	}
}

// WithConcurrency caps the goroutines used for list elements. Zero or less
// leaves it unbounded.
func WithConcurrency(limit int) Option {
	return func(t *Translator) {
		t.concurrency = limit
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func NewTranslator(text TextTranslator, opts ...Option) *Translator {
	t := &Translator{
		text:     text,
		source:   languages.Source(),
		maxDepth: DefaultMaxDepth,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// MaxDepth reports the configured recursion bound.
func (t *Translator) MaxDepth() int {
	return t.maxDepth
}

// TranslateFields translates a flat field map starting at depth zero.
func (t *Translator) TranslateFields(ctx context.Context, fields map[string]any, target languages.Code) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	out, _ := t.TranslateAll(ctx, FromValue(fields), target, 0, t.maxDepth).Value().(map[string]any)
	return out
}

// TranslateAll translates node for target. Nodes deeper than maxDepth are
// returned unchanged.
func (t *Translator) TranslateAll(ctx context.Context, node Node, target languages.Code, depth, maxDepth int) Node {
	if node == nil {
		return nil
	}
	if depth > maxDepth {
		t.logger.Debug("fieldtree.depth.exceeded", "depth", depth, "max_depth", maxDepth, "kind", node.Kind().String())
		return node
	}

	switch typed := node.(type) {
	case Text:
		return t.translateText(ctx, typed, target)
	case List:
		return t.translateList(ctx, typed, target)
	case Record:
		return t.translateRecord(ctx, typed, target, depth, maxDepth)
	default:
		return node
	}
}

func (t *Translator) translateText(ctx context.Context, text Text, target languages.Code) Node {
	return Text(t.text.TranslateText(ctx, string(text), t.source, target))
}

// translateList fans elements out concurrently. Records inside a list get a
// single pass over their direct text fields; results keep their positions.
func (t *Translator) translateList(ctx context.Context, list List, target languages.Code) Node {
	out := make(List, len(list))
	var group errgroup.Group
	if t.concurrency > 0 {
		group.SetLimit(t.concurrency)
	}
	for i, item := range list {
		group.Go(func() error {
			switch typed := item.(type) {
			case Text:
				out[i] = t.translateText(ctx, typed, target)
			case Record:
				out[i] = t.translateShallow(ctx, typed, target)
			default:
				out[i] = item
			}
			return nil
		})
	}
	_ = group.Wait()
	return out
}

func (t *Translator) translateShallow(ctx context.Context, record Record, target languages.Code) Node {
	fields := make(map[string]Node, len(record.Fields))
	for _, key := range record.Keys {
		child := record.Fields[key]
		if text, ok := child.(Text); ok {
			fields[key] = t.translateText(ctx, text, target)
			continue
		}
		fields[key] = child
	}
	return Record{Keys: append([]string(nil), record.Keys...), Fields: fields}
}

func (t *Translator) translateRecord(ctx context.Context, record Record, target languages.Code, depth, maxDepth int) Node {
	fields := make(map[string]Node, len(record.Fields))
	for _, key := range record.Keys {
		child := record.Fields[key]
		switch typed := child.(type) {
		case Text:
			fields[key] = t.translateText(ctx, typed, target)
		case Record, List:
			fields[key] = t.TranslateAll(ctx, typed, target, depth+1, maxDepth)
		default:
			fields[key] = child
		}
	}
	return Record{Keys: append([]string(nil), record.Keys...), Fields: fields}
}
