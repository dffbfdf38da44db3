package content

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FieldKind describes how a translatable field is stored on the source record.
type FieldKind int

const (
	// FieldText is a plain string column.
	FieldText FieldKind = iota
	// FieldJSON is a string column holding a JSON encoded array or object whose
	// string leaves are translatable.
	FieldJSON
)

// FieldSpec names one translatable field.
type FieldSpec struct {
	Name string
	Kind FieldKind
}

func text(name string) FieldSpec { return FieldSpec{Name: name, Kind: FieldText} }
func jsonField(name string) FieldSpec {
	return FieldSpec{Name: name, Kind: FieldJSON}
}

var fieldSets = map[Type][]FieldSpec{
	TypePackage: {
		text("title"),
		text("description"),
		text("longDescription"),
		jsonField("destinations"),
		jsonField("includes"),
		jsonField("excludes"),
		jsonField("highlights"),
		jsonField("itinerary"),
		jsonField("faqs"),
		text("groupSize"),
		text("difficulty"),
		text("bestFor"),
		text("departure"),
		text("return"),
		text("location"),
	},
	TypeBlog: {
		text("title"),
		text("excerpt"),
		text("content"),
		text("metaTitle"),
		text("metaDescription"),
		jsonField("tags"),
		text("category"),
	},
	TypeTestimonial: {
		text("title"),
		text("content"),
		text("location"),
		text("tripName"),
	},
	TypeGallery: {
		text("title"),
		text("description"),
		text("location"),
		text("category"),
		text("altText"),
	},
	TypeSection: {
		text("title"),
		text("subtitle"),
		text("description"),
		jsonField("content"),
		text("buttonText"),
	},
}

var eligibleStatuses = map[Type][]string{
	TypePackage:     {"active", "published"},
	TypeBlog:        {"published"},
	TypeTestimonial: {"approved"},
	TypeGallery:     {"active", "published"},
	TypeSection:     {"active", "published"},
}

// Fields returns the ordered translatable field set of a content type.
func Fields(t Type) []FieldSpec {
	return append([]FieldSpec(nil), fieldSets[t]...)
}

// FieldNames returns the field set names in order.
func FieldNames(t Type) []string {
	specs := fieldSets[t]
	out := make([]string, len(specs))
	for i, spec := range specs {
		out[i] = spec.Name
	}
	return out
}

// EligibleStatuses lists the source statuses that participate in coverage
// accounting for a content type.
func EligibleStatuses(t Type) []string {
	return append([]string(nil), eligibleStatuses[t]...)
}

// IsEligible reports whether an item's status makes it eligible for coverage.
func IsEligible(item *Item) bool {
	if item == nil {
		return false
	}
	status := strings.ToLower(strings.TrimSpace(item.Status))
	for _, allowed := range eligibleStatuses[item.ContentType] {
		if allowed == status {
			return true
		}
	}
	return false
}

// DecodeJSONField parses a JSON field value into a generic tree. Values that
// are already decoded are returned as-is; strings that are not valid JSON are
// returned unchanged with ok=false.
func DecodeJSONField(value any) (any, bool) {
	raw, isString := value.(string)
	if !isString {
		return value, value != nil
	}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || (trimmed[0] != '[' && trimmed[0] != '{') {
		return value, false
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return value, false
	}
	return decoded, true
}

// EncodeJSONField serializes a decoded tree back into its string column form.
// HTML characters are kept literal.
func EncodeJSONField(value any) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// HasValue reports whether a stored field value counts as filled.
func HasValue(spec FieldSpec, value any) bool {
	if spec.Kind == FieldJSON {
		if decoded, ok := DecodeJSONField(value); ok {
			return hasMeaningfulValue(decoded)
		}
	}
	return hasMeaningfulValue(value)
}

func hasMeaningfulValue(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(typed) != ""
	case *string:
		return typed != nil && strings.TrimSpace(*typed) != ""
	case []any:
		return len(typed) > 0
	case []string:
		return len(typed) > 0
	case map[string]any:
		return len(typed) > 0
	default:
		return true
	}
}
