package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-autotranslate/internal/languages"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Type identifies a translatable content section.
type Type string

const (
	TypePackage     Type = "package"
	TypeBlog        Type = "blog"
	TypeTestimonial Type = "testimonial"
	TypeGallery     Type = "gallery"
	TypeSection     Type = "section"
)

var types = []Type{TypePackage, TypeBlog, TypeTestimonial, TypeGallery, TypeSection}

// Types returns every content type in reporting order.
func Types() []Type {
	return append([]Type(nil), types...)
}

// ParseType resolves a raw content type name, accepting plural forms used by
// CMS routes ("packages", "blogs").
func ParseType(raw string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	switch name {
	case "packages":
		name = string(TypePackage)
	case "blogs", "posts":
		name = string(TypeBlog)
	case "testimonials":
		name = string(TypeTestimonial)
	case "gallery_items", "galleries":
		name = string(TypeGallery)
	case "sections":
		name = string(TypeSection)
	}
	for _, t := range types {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownContentType, raw)
}

func (t Type) String() string {
	return string(t)
}

// Item is a source-language record owned by the content store.
type Item struct {
	bun.BaseModel `bun:"table:content_items,alias:ci"`

	ID          uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	ContentType Type           `bun:"content_type,notnull" json:"content_type"`
	Status      string         `bun:"status,notnull,default:'draft'" json:"status"`
	Fields      map[string]any `bun:"fields,type:jsonb,notnull" json:"fields"`
	CreatedAt   time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Title returns the item's title field when it is a string.
func (i *Item) Title() string {
	if i == nil {
		return ""
	}
	if title, ok := i.Fields["title"].(string); ok {
		return title
	}
	return ""
}

// Translation stores the translated field values of one item in one target
// language. A nil entry in Fields represents a null column.
type Translation struct {
	bun.BaseModel `bun:"table:content_translations,alias:ctr"`

	ID               uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	ContentType      Type           `bun:"content_type,notnull" json:"content_type"`
	ContentID        uuid.UUID      `bun:"content_id,notnull,type:uuid" json:"content_id"`
	Language         languages.Code `bun:"language,notnull" json:"language"`
	Fields           map[string]any `bun:"fields,type:jsonb,notnull" json:"fields"`
	IsAutoTranslated bool           `bun:"is_auto_translated,notnull,default:false" json:"is_auto_translated"`
	CreatedAt        time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func cloneItem(src *Item) *Item {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Fields = cloneMap(src.Fields)
	return &copied
}

func cloneTranslation(src *Translation) *Translation {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Fields = cloneMap(src.Fields)
	return &copied
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, entry := range typed {
			out[i] = cloneValue(entry)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}
