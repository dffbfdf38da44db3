package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-autotranslate/internal/content"
	"github.com/goliatone/go-autotranslate/internal/identity"
	"github.com/goliatone/go-autotranslate/internal/logging"
	"github.com/goliatone/go-autotranslate/internal/validation"
	"github.com/goliatone/go-autotranslate/pkg/interfaces"
)

// ImportResult lists the blog items created from a directory.
type ImportResult struct {
	Created []uuid.UUID `json:"created"`
	Skipped []string    `json:"skipped,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// Importer turns Markdown blog posts into source-language blog items.
type Importer struct {
	items    content.ItemRepository
	renderer *Renderer
	now      func() time.Time
	logger   interfaces.Logger
}

type ImporterOption func(*Importer)

func WithRenderer(renderer *Renderer) ImporterOption {
	return func(i *Importer) {
		if renderer != nil {
			i.renderer = renderer
		}
	}
}

func WithClock(clock func() time.Time) ImporterOption {
	return func(i *Importer) {
		if clock != nil {
			i.now = clock
		}
	}
}

func WithLogger(logger interfaces.Logger) ImporterOption {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

func NewImporter(items content.ItemRepository, opts ...ImporterOption) *Importer {
	i := &Importer{
		items:    items,
		renderer: NewRenderer(false),
		now:      time.Now,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// BlogItem maps a post onto the blog field set. Drafts keep status "draft"
// so they stay out of translation runs.
func (i *Importer) BlogItem(post *Post) (*content.Item, error) {
	key := post.Slug
	if strings.TrimSpace(key) == "" {
		key = post.Title
	}
	if strings.TrimSpace(key) == "" {
		key = strings.TrimSuffix(path.Base(post.Path), path.Ext(post.Path))
	}
	id := identity.ItemUUID(content.TypeBlog.String(), key)
	if id == uuid.Nil {
		return nil, fmt.Errorf("markdown: %s has no slug, title or file name", post.Path)
	}

	html, err := i.renderer.Render(post.Body)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{
		"title":           post.Title,
		"excerpt":         post.Excerpt,
		"content":         html,
		"metaTitle":       post.MetaTitle,
		"metaDescription": post.MetaDescription,
		"category":        post.Category,
	}
	if len(post.Tags) > 0 {
		encoded, err := content.EncodeJSONField(post.Tags)
		if err != nil {
			return nil, err
		}
		fields["tags"] = encoded
	}
	if err := validation.ValidateItemFields(content.TypeBlog, fields); err != nil {
		return nil, err
	}

	status := "published"
	if post.Draft {
		status = "draft"
	}
	created := post.Date
	if created.IsZero() {
		created = i.now()
	}
	return &content.Item{
		ID:          id,
		ContentType: content.TypeBlog,
		Status:      status,
		Fields:      fields,
		CreatedAt:   created,
		UpdatedAt:   i.now(),
	}, nil
}

// ImportDir reads every *.md file under dir (recursively) in lexical order.
// A failing file is recorded and the import continues.
func (i *Importer) ImportDir(ctx context.Context, fsys fs.FS, dir string) (ImportResult, error) {
	var files []string
	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(path.Ext(p), ".md") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("markdown: walk %s: %w", dir, err)
	}
	sort.Strings(files)

	result := ImportResult{Created: []uuid.UUID{}}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		id, err := i.importFile(ctx, fsys, file)
		if err != nil {
			i.logger.Warn("markdown.import.failed", "path", file, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file, err))
			continue
		}
		if id == uuid.Nil {
			result.Skipped = append(result.Skipped, file)
			continue
		}
		result.Created = append(result.Created, id)
	}
	i.logger.Info("markdown.import.completed",
		"created", len(result.Created),
		"skipped", len(result.Skipped),
		"errors", len(result.Errors),
	)
	return result, nil
}

// importFile returns uuid.Nil when the item already exists.
func (i *Importer) importFile(ctx context.Context, fsys fs.FS, file string) (uuid.UUID, error) {
	raw, err := fs.ReadFile(fsys, file)
	if err != nil {
		return uuid.Nil, err
	}
	post, err := ParsePost(file, raw)
	if err != nil {
		return uuid.Nil, err
	}
	item, err := i.BlogItem(post)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := i.items.GetByID(ctx, content.TypeBlog, item.ID); err == nil {
		return uuid.Nil, nil
	} else if !content.IsNotFound(err) {
		return uuid.Nil, err
	}
	createdItem, err := i.items.Create(ctx, item)
	if err != nil {
		return uuid.Nil, err
	}
	return createdItem.ID, nil
}
