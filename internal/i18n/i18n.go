// Package i18n holds the localized screen texts and the ordered list of
// languages a player can pick from.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// FallbackLanguage must exist in every catalog; missing keys resolve to it.
const FallbackLanguage = "en"

//go:embed locales/*.json
var embeddedLocales embed.FS

// Language is one selectable display language
type Language struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Catalog looks up screen texts by language code and dotted key
type Catalog struct {
	languages []Language
	tags      map[string]language.Tag
	builder   *catalog.Builder
	fallback  language.Tag
}

// Load returns the catalog compiled into the binary
func Load() (*Catalog, error) {
	return LoadFromFS(embeddedLocales)
}

// LoadFromFS reads locales/languages.json and one locales/<code>.json per listed language
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, "locales/languages.json")
	if err != nil {
		return nil, fmt.Errorf("read language list: %w", err)
	}
	var languages []Language
	if err := json.Unmarshal(data, &languages); err != nil {
		return nil, fmt.Errorf("parse language list: %w", err)
	}
	if len(languages) == 0 {
		return nil, fmt.Errorf("language list is empty")
	}

	fallback := language.MustParse(FallbackLanguage)
	c := &Catalog{
		languages: languages,
		tags:      make(map[string]language.Tag, len(languages)),
		builder:   catalog.NewBuilder(catalog.Fallback(fallback)),
		fallback:  fallback,
	}

	for _, lang := range languages {
		tag, err := language.Parse(lang.Code)
		if err != nil {
			return nil, fmt.Errorf("language %q: %w", lang.Code, err)
		}
		if _, dup := c.tags[lang.Code]; dup {
			return nil, fmt.Errorf("language %q listed twice", lang.Code)
		}
		c.tags[lang.Code] = tag

		path := "locales/" + lang.Code + ".json"
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var messages map[string]string
		if err := json.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}

		keys := make([]string, 0, len(messages))
		for key := range messages {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if strings.TrimSpace(key) == "" {
				return nil, fmt.Errorf("catalog %s: message key cannot be blank", path)
			}
			if err := c.builder.SetString(tag, key, messages[key]); err != nil {
				return nil, fmt.Errorf("catalog %s: key %q: %w", path, key, err)
			}
		}
	}

	if _, ok := c.tags[FallbackLanguage]; !ok {
		return nil, fmt.Errorf("fallback language %s is not listed", FallbackLanguage)
	}
	return c, nil
}

// Languages returns the selectable languages in display order
func (c *Catalog) Languages() []Language {
	out := make([]Language, len(c.languages))
	copy(out, c.languages)
	return out
}

// Has reports whether code is one of the selectable languages
func (c *Catalog) Has(code string) bool {
	_, ok := c.tags[code]
	return ok
}

// Text formats the message for key in lang. Unknown languages use the fallback.
func (c *Catalog) Text(lang, key string, args ...any) string {
	return c.printer(lang).Sprintf(key, args...)
}

// Lines is Text split into display lines
func (c *Catalog) Lines(lang, key string, args ...any) []string {
	return strings.Split(c.Text(lang, key, args...), "\n")
}

func (c *Catalog) printer(lang string) *message.Printer {
	tag, ok := c.tags[lang]
	if !ok {
		tag = c.fallback
	}
	return message.NewPrinter(tag, message.Catalog(c.builder))
}
