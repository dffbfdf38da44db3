// Package languages holds the fixed five-language set used by the translation
// pipeline: one source language and four machine-translated targets.
package languages

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Code is a base ISO 639-1 language code.
type Code string

const (
	Indonesian Code = "id"
	English    Code = "en"
	German     Code = "de"
	Dutch      Code = "nl"
	Chinese    Code = "zh"
)

// ErrUnsupportedLanguage is returned for codes outside the fixed language set.
var ErrUnsupportedLanguage = errors.New("languages: unsupported language")

var targets = []Code{English, German, Dutch, Chinese}

var displayNames = map[Code]string{
	Indonesian: "Bahasa Indonesia",
	English:    "English",
	German:     "Deutsch",
	Dutch:      "Nederlands",
	Chinese:    "中文",
}

// Source returns the authoring language.
func Source() Code {
	return Indonesian
}

// Targets returns the machine-translated languages in processing order.
func Targets() []Code {
	return append([]Code(nil), targets...)
}

// All returns the source language followed by every target.
func All() []Code {
	return append([]Code{Indonesian}, targets...)
}

// IsSource reports whether code is the authoring language.
func IsSource(code Code) bool {
	return code == Indonesian
}

// IsTarget reports whether code is one of the translated languages.
func IsTarget(code Code) bool {
	for _, target := range targets {
		if target == code {
			return true
		}
	}
	return false
}

// DisplayName returns the native label of a supported language.
func DisplayName(code Code) string {
	return displayNames[code]
}

func (c Code) String() string {
	return string(c)
}

// Normalize reduces BCP-47 style input ("en-US", "zh_CN", "DE") to one of the
// supported base codes.
func Normalize(raw string) (Code, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty code", ErrUnsupportedLanguage)
	}
	tag, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, raw)
	}
	base, _ := tag.Base()
	code := Code(strings.ToLower(base.String()))
	if code == Indonesian || IsTarget(code) {
		return code, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, raw)
}

// NormalizeTargets resolves a list of raw codes into targets, dropping
// duplicates and preserving the canonical target order. An empty input yields
// every target.
func NormalizeTargets(raw []string) ([]Code, error) {
	if len(raw) == 0 {
		return Targets(), nil
	}
	requested := map[Code]struct{}{}
	for _, entry := range raw {
		code, err := Normalize(entry)
		if err != nil {
			return nil, err
		}
		if IsSource(code) {
			return nil, fmt.Errorf("%w: %q is the source language", ErrUnsupportedLanguage, entry)
		}
		requested[code] = struct{}{}
	}
	out := make([]Code, 0, len(requested))
	for _, target := range targets {
		if _, ok := requested[target]; ok {
			out = append(out, target)
		}
	}
	return out, nil
}
