package identity

import (
	"strings"

	"github.com/goliatone/go-slug"
	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "go-autotranslate"

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by entity type to avoid cross-entity collisions.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// TranslationUUID is the row id of one item's translation into lang, so
// repeated inserts of the same triple resolve to the same row.
func TranslationUUID(contentType string, contentID uuid.UUID, lang string) uuid.UUID {
	return UUID(namespace + ":translation:" + strings.ToLower(strings.TrimSpace(contentType)) + ":" + contentID.String() + ":" + strings.ToLower(strings.TrimSpace(lang)))
}

// ItemUUID derives a source item id from a human key such as a slug or a
// title. Keys are slug-normalized first so "Bromo Sunrise" and
// "bromo-sunrise" map to the same item.
func ItemUUID(contentType, key string) uuid.UUID {
	normalized := Slug(key)
	if normalized == "" {
		return uuid.Nil
	}
	return UUID(namespace + ":item:" + strings.ToLower(strings.TrimSpace(contentType)) + ":" + normalized)
}

// Slug normalizes value with go-slug, falling back to a lowercased copy when
// the normalizer rejects it.
func Slug(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if normalized, err := slug.Normalize(trimmed); err == nil && normalized != "" {
		return normalized
	}
	return strings.ToLower(trimmed)
}
