package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts Markdown bodies into the HTML stored in blog content.
// Raw HTML in the source is dropped unless AllowHTML is set.
type Renderer struct {
	engine goldmark.Markdown
}

func NewRenderer(allowHTML bool) *Renderer {
	options := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.TaskList),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if allowHTML {
		options = append(options, goldmark.WithRendererOptions(html.WithUnsafe()))
	}
	return &Renderer{engine: goldmark.New(options...)}
}

func (r *Renderer) Render(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}
