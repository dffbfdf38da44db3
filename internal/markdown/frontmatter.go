package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
)

// Post is a blog post read from a Markdown file with YAML frontmatter.
type Post struct {
	Path            string
	Slug            string
	Title           string
	Excerpt         string
	Category        string
	Tags            []string
	MetaTitle       string
	MetaDescription string
	Draft           bool
	Date            time.Time
	Body            []byte
}

type frontMatterEnvelope struct {
	Title           string    `yaml:"title"`
	Slug            string    `yaml:"slug"`
	Excerpt         string    `yaml:"excerpt"`
	Summary         string    `yaml:"summary"`
	Category        string    `yaml:"category"`
	Tags            []string  `yaml:"tags"`
	MetaTitle       string    `yaml:"meta_title"`
	MetaDescription string    `yaml:"meta_description"`
	Draft           bool      `yaml:"draft"`
	Date            time.Time `yaml:"date"`
}

// ParsePost extracts the frontmatter and Markdown body from source.
func ParsePost(path string, source []byte) (*Post, error) {
	var meta frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter %s: %w", path, err)
	}

	excerpt := meta.Excerpt
	if excerpt == "" {
		excerpt = meta.Summary
	}
	return &Post{
		Path:            path,
		Slug:            meta.Slug,
		Title:           meta.Title,
		Excerpt:         excerpt,
		Category:        meta.Category,
		Tags:            append([]string(nil), meta.Tags...),
		MetaTitle:       meta.MetaTitle,
		MetaDescription: meta.MetaDescription,
		Draft:           meta.Draft,
		Date:            meta.Date,
		Body:            body,
	}, nil
}
