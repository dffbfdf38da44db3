package provider

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-autotranslate/internal/languages"
)

//go:embed dictionary/default.yaml
var defaultDictionaryYAML []byte

type dictionaryEntries struct {
	Messages map[string]string `yaml:"messages"`
	Phrases  map[string]string `yaml:"phrases"`
}

type phraseTable struct {
	pattern *regexp.Regexp
	values  map[string]string
}

// Dictionary holds the static fallbacks for source-language text: exact
// whole-message matches and a phrase table applied with word boundaries.
type Dictionary struct {
	messages map[languages.Code]map[string]string
	phrases  map[languages.Code]*phraseTable
}

// DefaultDictionary parses the embedded travel vocabulary.
func DefaultDictionary() (*Dictionary, error) {
	return ParseDictionary(defaultDictionaryYAML)
}

// LoadDictionary reads path and merges its entries over the embedded
// defaults. An empty path returns the defaults.
func LoadDictionary(path string) (*Dictionary, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultDictionary()
	}
	override, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("provider: read dictionary %s: %w", path, err)
	}
	return ParseDictionary(defaultDictionaryYAML, override)
}

// ParseDictionary decodes one or more YAML documents. Later documents win
// on key collisions.
func ParseDictionary(sources ...[]byte) (*Dictionary, error) {
	messages := map[languages.Code]map[string]string{}
	phrases := map[languages.Code]map[string]string{}

	for _, raw := range sources {
		var doc map[string]dictionaryEntries
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("provider: decode dictionary: %w", err)
		}
		for rawLang, entries := range doc {
			lang, err := languages.Normalize(rawLang)
			if err != nil {
				return nil, fmt.Errorf("provider: dictionary language %q: %w", rawLang, err)
			}
			if !languages.IsTarget(lang) {
				return nil, fmt.Errorf("provider: dictionary language %q: %w", rawLang, languages.ErrUnsupportedLanguage)
			}
			if messages[lang] == nil {
				messages[lang] = map[string]string{}
				phrases[lang] = map[string]string{}
			}
			for key, value := range entries.Messages {
				if key = strings.TrimSpace(key); key != "" {
					messages[lang][key] = value
				}
			}
			for key, value := range entries.Phrases {
				if key = strings.ToLower(strings.TrimSpace(key)); key != "" {
					phrases[lang][key] = value
				}
			}
		}
	}

	dict := &Dictionary{
		messages: messages,
		phrases:  make(map[languages.Code]*phraseTable, len(phrases)),
	}
	for lang, values := range phrases {
		if table := compilePhrases(values); table != nil {
			dict.phrases[lang] = table
		}
	}
	return dict, nil
}

func compilePhrases(values map[string]string) *phraseTable {
	if len(values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	// longest first so multi-word phrases win over their component words
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	quoted := make([]string, len(keys))
	for i, key := range keys {
		quoted[i] = regexp.QuoteMeta(key)
	}
	return &phraseTable{
		pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`),
		values:  values,
	}
}

// Message returns the exact whole-message mapping for text.
func (d *Dictionary) Message(target languages.Code, text string) (string, bool) {
	if d == nil {
		return "", false
	}
	value, ok := d.messages[target][strings.TrimSpace(text)]
	return value, ok
}

// ApplyPhrases substitutes every known phrase or word in text. The boolean
// reports whether anything was replaced.
func (d *Dictionary) ApplyPhrases(target languages.Code, text string) (string, bool) {
	if d == nil {
		return text, false
	}
	table := d.phrases[target]
	if table == nil {
		return text, false
	}
	replaced := false
	out := table.pattern.ReplaceAllStringFunc(text, func(match string) string {
		value, ok := table.values[strings.ToLower(match)]
		if !ok {
			return match
		}
		replaced = true
		return value
	})
	return out, replaced
}

// Size reports the number of message and phrase entries for target.
func (d *Dictionary) Size(target languages.Code) (messages, phrases int) {
	if d == nil {
		return 0, 0
	}
	if table := d.phrases[target]; table != nil {
		phrases = len(table.values)
	}
	return len(d.messages[target]), phrases
}
