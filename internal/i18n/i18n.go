// Package i18n provides the English and Indonesian message printers used by the platform.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// Supported locales. English is the fallback.
var (
	English    = language.English
	Indonesian = language.Indonesian
)

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

//go:embed locales/*.yaml
var embedded embed.FS

var (
	loadOnce sync.Once
	builder  *catalog.Builder
	loadErr  error
	matcher  = language.NewMatcher(SupportedTags())
)

// SupportedTags lists the locales in preference order.
func SupportedTags() []language.Tag {
	return []language.Tag{English, Indonesian}
}

// ParseTag resolves a user supplied locale ("id", "id_ID", "en-US") to a supported tag.
func ParseTag(locale string) (language.Tag, bool) {
	locale = strings.TrimSpace(strings.ReplaceAll(locale, "_", "-"))
	if locale == "" {
		return English, false
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return English, false
	}
	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		return English, false
	}
	return SupportedTags()[idx], true
}

// Load parses the locale files in fsys into a message catalog.
// Every locale must define the same keys as English.
func Load(fsys fs.FS) (*catalog.Builder, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale files: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}
	sort.Strings(paths)

	b := catalog.NewBuilder(catalog.Fallback(English))
	keys := map[string]map[string]bool{}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", p, err)
		}
		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", p, err)
		}
		name := strings.TrimSuffix(path.Base(p), path.Ext(p))
		if file.Locale != name {
			return nil, fmt.Errorf("locale %s: locale %q must match file name", p, file.Locale)
		}
		tag, err := language.Parse(file.Locale)
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", p, err)
		}
		keys[name] = map[string]bool{}
		for key, msg := range file.Messages {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("locale %s key %q: %w", p, key, err)
			}
			keys[name][key] = true
		}
	}

	base, ok := keys[English.String()]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined", English)
	}
	for name, defined := range keys {
		for key := range base {
			if !defined[key] {
				return nil, fmt.Errorf("locale %s is missing key %q", name, key)
			}
		}
	}
	return b, nil
}

func embeddedCatalog() (*catalog.Builder, error) {
	loadOnce.Do(func() {
		builder, loadErr = Load(embedded)
	})
	return builder, loadErr
}

// Printer formats messages for one locale.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a printer for locale. Unknown locales fall back to English.
func New(locale string) (*Printer, error) {
	cat, err := embeddedCatalog()
	if err != nil {
		return nil, err
	}
	tag, _ := ParseTag(locale)
	return &Printer{tag: tag, p: message.NewPrinter(tag, message.Catalog(cat))}, nil
}

// Tag returns the resolved locale.
func (p *Printer) Tag() language.Tag { return p.tag }

// Sprintf formats the message registered under key.
func (p *Printer) Sprintf(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}
