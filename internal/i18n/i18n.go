// Package i18n loads the per-language dictionaries and resolves their keys
// for the active language.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embedded embed.FS

var (
	// ErrUnsupportedLanguage is returned for lookups in a language the bundle does not serve.
	ErrUnsupportedLanguage = errors.New("i18n: unsupported language")
	// ErrMissingKey is returned when a key path has no entry in the requested language.
	ErrMissingKey = errors.New("i18n: missing key")
)

// Value is a single dictionary leaf: either a text or an ordered list of texts.
type Value struct {
	Text string
	List []string
}

// IsList reports whether the value came from a YAML sequence.
func (v Value) IsList() bool { return v.List != nil }

// Entry is one child of a dictionary mapping, in authored order.
type Entry struct {
	Key   string
	Value Value
}

type dictionary struct {
	values   map[string]Value
	children map[string][]string
	keys     []string
}

func newDictionary() *dictionary {
	return &dictionary{
		values:   map[string]Value{},
		children: map[string][]string{},
	}
}

// Bundle holds one nested dictionary per supported language.
type Bundle struct {
	dict      map[string]*dictionary
	primary   string
	supported []string
	matcher   language.Matcher
}

// Embedded returns the dictionaries compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		panic(fmt.Sprintf("i18n: embedded locales: %v", err))
	}
	return sub
}

// LoadDir reads `<dir>/<lang>.yaml` for each supported language.
func LoadDir(dir string, primary string, supported []string) (*Bundle, error) {
	return Load(os.DirFS(dir), primary, supported)
}

// Load reads `<lang>.yaml` from fsys for each supported language. The primary
// language must be present; other languages may be absent and then render empty.
func Load(fsys fs.FS, primary string, supported []string) (*Bundle, error) {
	primary = strings.ToLower(strings.TrimSpace(primary))
	if len(supported) == 0 {
		supported = []string{"id", "en"}
	}
	if primary == "" {
		primary = strings.ToLower(supported[0])
	}
	b := &Bundle{
		dict:    map[string]*dictionary{},
		primary: primary,
	}
	seen := map[string]bool{}
	for _, l := range supported {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		b.supported = append(b.supported, l)

		raw, err := fs.ReadFile(fsys, l+".yaml")
		if err != nil {
			if l == primary {
				return nil, fmt.Errorf("load locale %s: %w", l, err)
			}
			b.dict[l] = newDictionary()
			continue
		}
		d, err := parseDictionary(raw)
		if err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", l, err)
		}
		b.dict[l] = d
	}
	if !seen[primary] {
		return nil, fmt.Errorf("%w: primary %s is not in supported list", ErrUnsupportedLanguage, primary)
	}

	// matcher order puts the primary first so "no match" resolves to it
	order := []string{primary}
	for _, l := range b.supported {
		if l != primary {
			order = append(order, l)
		}
	}
	tags := make([]language.Tag, 0, len(order))
	for _, l := range order {
		tags = append(tags, language.Make(l))
	}
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

func parseDictionary(raw []byte) (*dictionary, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, err
	}
	d := newDictionary()
	if err := d.flatten("", &root); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *dictionary) flatten(prefix string, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			if err := d.flatten(prefix, c); err != nil {
				return err
			}
		}
	case yaml.AliasNode:
		return d.flatten(prefix, n.Alias)
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i].Value
			d.children[prefix] = append(d.children[prefix], k)
			if err := d.flatten(joinKey(prefix, k), n.Content[i+1]); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		if prefix == "" {
			return fmt.Errorf("line %d: top level must be a mapping", n.Line)
		}
		list := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: %s: list items must be strings", c.Line, prefix)
			}
			list = append(list, c.Value)
		}
		d.set(prefix, Value{List: list})
	case yaml.ScalarNode:
		if prefix == "" {
			return fmt.Errorf("line %d: top level must be a mapping", n.Line)
		}
		d.set(prefix, Value{Text: n.Value})
	}
	return nil
}

func (d *dictionary) set(key string, v Value) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = v
}

func joinKey(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + "." + k
}

// Supported returns the supported languages in configured order.
func (b *Bundle) Supported() []string {
	out := make([]string, len(b.supported))
	copy(out, b.supported)
	return out
}

// Primary returns the language used when nothing else was chosen.
func (b *Bundle) Primary() string { return b.primary }

// IsSupported reports whether lang is one of the configured languages.
func (b *Bundle) IsSupported(lang string) bool {
	_, ok := b.dict[lang]
	return ok
}

// Normalize lower-cases lang and strips a region subtag. It returns "" for
// unsupported languages.
func (b *Bundle) Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i != -1 {
		lang = lang[:i]
	}
	if !b.IsSupported(lang) {
		return ""
	}
	return lang
}

// Toggle returns the language that follows lang in the supported list. With
// two languages this flips between them.
func (b *Bundle) Toggle(lang string) string {
	for i, l := range b.supported {
		if l == lang {
			return b.supported[(i+1)%len(b.supported)]
		}
	}
	return b.primary
}

// T returns the text for key in lang. Missing keys render as the empty string;
// there is no fallback to another language.
func (b *Bundle) T(lang, key string) string {
	v, err := b.Lookup(lang, key)
	if err != nil {
		return ""
	}
	return v.Text
}

// List returns a copy of the list stored at key in lang, or nil.
func (b *Bundle) List(lang, key string) []string {
	v, err := b.Lookup(lang, key)
	if err != nil || v.List == nil {
		return nil
	}
	out := make([]string, len(v.List))
	copy(out, v.List)
	return out
}

// Lookup returns the value at key with an explicit missing signal.
func (b *Bundle) Lookup(lang, key string) (Value, error) {
	d, ok := b.dict[lang]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	v, ok := d.values[key]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s/%s", ErrMissingKey, lang, key)
	}
	return v, nil
}

// Entries returns the children of the mapping at prefix in authored order.
// Nested mappings appear with a zero Value.
func (b *Bundle) Entries(lang, prefix string) []Entry {
	d, ok := b.dict[lang]
	if !ok {
		return nil
	}
	kids := d.children[prefix]
	out := make([]Entry, 0, len(kids))
	for _, k := range kids {
		out = append(out, Entry{Key: k, Value: d.values[joinKey(prefix, k)]})
	}
	return out
}

// Keys returns every leaf key path of lang in authored order.
func (b *Bundle) Keys(lang string) []string {
	d, ok := b.dict[lang]
	if !ok {
		return nil
	}
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Missing lists key paths present in the primary language but absent in lang.
func (b *Bundle) Missing(lang string) []string {
	return diffKeys(b.dict[b.primary], b.dict[lang])
}

// Extra lists key paths present in lang but absent in the primary language.
func (b *Bundle) Extra(lang string) []string {
	return diffKeys(b.dict[lang], b.dict[b.primary])
}

func diffKeys(from, to *dictionary) []string {
	if from == nil {
		return nil
	}
	var out []string
	for _, k := range from.keys {
		if to == nil {
			out = append(out, k)
			continue
		}
		if _, ok := to.values[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

// Check reports every structural difference between the primary dictionary
// and the others.
func (b *Bundle) Check() error {
	var errs []error
	for _, l := range b.supported {
		if l == b.primary {
			continue
		}
		for _, k := range b.Missing(l) {
			errs = append(errs, fmt.Errorf("%w: %s has no %s", ErrMissingKey, l, k))
		}
		for _, k := range b.Extra(l) {
			errs = append(errs, fmt.Errorf("i18n: %s defines %s which %s lacks", l, k, b.primary))
		}
	}
	return errors.Join(errs...)
}

// Negotiate picks the best supported language for an Accept-Language header.
func (b *Bundle) Negotiate(acceptLang string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		return b.primary
	}
	tag, _, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return b.primary
	}
	base, _ := tag.Base()
	if l := b.Normalize(base.String()); l != "" {
		return l
	}
	return b.primary
}
