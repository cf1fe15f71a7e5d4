package content

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"maps"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

// ErrNotFound is returned when a content record cannot be located.
var ErrNotFound = errors.New("content: not found")

const (
	plantsFile = "plants.yaml"
	siteFile   = "site.yaml"
)

// Plant is one featured species with localized text and an ordered image set.
type Plant struct {
	ID              int                 `yaml:"id" json:"id"`
	Slug            string              `yaml:"slug" json:"slug"`
	Name            string              `yaml:"name" json:"name"`
	CommonName      map[string]string   `yaml:"common_name" json:"commonName"`
	Description     map[string]string   `yaml:"description" json:"description"`
	Characteristics map[string][]string `yaml:"characteristics" json:"characteristics"`
	Images          []string            `yaml:"images" json:"images"`

	descriptionHTML map[string]template.HTML
	summary         map[string]string
}

// CommonNameIn returns the localized common name, or "" when the locale has no entry.
func (p Plant) CommonNameIn(lang string) string { return p.CommonName[lang] }

// DescriptionIn returns the localized markdown description.
func (p Plant) DescriptionIn(lang string) string { return p.Description[lang] }

// DescriptionHTML returns the sanitized HTML rendering of the description.
func (p Plant) DescriptionHTML(lang string) template.HTML { return p.descriptionHTML[lang] }

// Summary returns the description as plain text.
func (p Plant) Summary(lang string) string { return p.summary[lang] }

// CharacteristicsIn returns the localized characteristic list.
func (p Plant) CharacteristicsIn(lang string) []string {
	src := p.Characteristics[lang]
	if src == nil {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// ImageCount returns the number of images.
func (p Plant) ImageCount() int { return len(p.Images) }

// Image returns the image reference at i, wrapping around the list.
func (p Plant) Image(i int) string {
	n := len(p.Images)
	if n == 0 {
		return ""
	}
	return p.Images[((i%n)+n)%n]
}

func (p Plant) clone() Plant {
	cp := p
	cp.CommonName = maps.Clone(p.CommonName)
	cp.Description = maps.Clone(p.Description)
	cp.Images = append([]string(nil), p.Images...)
	if p.Characteristics != nil {
		cp.Characteristics = make(map[string][]string, len(p.Characteristics))
		for k, v := range p.Characteristics {
			cp.Characteristics[k] = append([]string(nil), v...)
		}
	}
	return cp
}

// Validate reports every localized field missing for one of langs and an empty image list.
func (p Plant) Validate(langs []string) error {
	var errs []error
	if len(p.Images) == 0 {
		errs = append(errs, fmt.Errorf("content: plant %d (%s) has no images", p.ID, p.Name))
	}
	for _, l := range langs {
		if strings.TrimSpace(p.CommonName[l]) == "" {
			errs = append(errs, fmt.Errorf("content: plant %d (%s) has no common_name.%s", p.ID, p.Name, l))
		}
		if strings.TrimSpace(p.Description[l]) == "" {
			errs = append(errs, fmt.Errorf("content: plant %d (%s) has no description.%s", p.ID, p.Name, l))
		}
		if len(p.Characteristics[l]) == 0 {
			errs = append(errs, fmt.Errorf("content: plant %d (%s) has no characteristics.%s", p.ID, p.Name, l))
		}
	}
	return errors.Join(errs...)
}

// SiteInfo carries the static, non-translated facts rendered around the page.
type SiteInfo struct {
	Name          string            `yaml:"name"`
	BaseURL       string            `yaml:"base_url"`
	Logo          string            `yaml:"logo"`
	HeroVideo     string            `yaml:"hero_video"`
	MapImage      string            `yaml:"map_image"`
	Contact       Contact           `yaml:"contact"`
	Social        []Link            `yaml:"social"`
	Highlights    []Highlight       `yaml:"highlights"`
	LegendColors  map[string]string `yaml:"legend_colors"`
	MangroveTypes []Swatch          `yaml:"mangrove_types"`
}

// Contact lists outbound contact details.
type Contact struct {
	Email   string `yaml:"email"`
	Address string `yaml:"address"`
	Website string `yaml:"website"`
	MapsURL string `yaml:"maps_url"`
}

// Link is a named outbound hyperlink.
type Link struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Highlight is one tile of the about section; keys point into the dictionaries.
type Highlight struct {
	Emoji    string `yaml:"emoji"`
	TitleKey string `yaml:"title_key"`
	DescKey  string `yaml:"desc_key"`
}

// Swatch pairs a map label with its colour class.
type Swatch struct {
	Name   string `yaml:"name"`
	Swatch string `yaml:"swatch"`
}

// WebsiteHost returns the contact website without scheme or trailing slash.
func (s SiteInfo) WebsiteHost() string {
	h := strings.TrimPrefix(strings.TrimPrefix(s.Contact.Website, "https://"), "http://")
	return strings.TrimRight(h, "/")
}

// Store is the immutable, in-memory content catalogue.
type Store struct {
	plants []Plant
	byID   map[int]int
	site   SiteInfo
}

// Embedded returns the content files compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(fmt.Sprintf("content: embedded data: %v", err))
	}
	return sub
}

// LoadDir loads content from a directory on disk.
func LoadDir(dir string) (*Store, error) {
	return Load(os.DirFS(dir))
}

// Load parses plants.yaml and site.yaml from fsys and pre-renders descriptions.
func Load(fsys fs.FS) (*Store, error) {
	raw, err := fs.ReadFile(fsys, plantsFile)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", plantsFile, err)
	}
	var doc struct {
		Plants []Plant `yaml:"plants"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("content: parse %s: %w", plantsFile, err)
	}

	s := &Store{byID: map[int]int{}}
	for _, p := range doc.Plants {
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("content: duplicate plant id %d", p.ID)
		}
		p.descriptionHTML = map[string]template.HTML{}
		p.summary = map[string]string{}
		for lang, md := range p.Description {
			html, err := renderMarkdown(md)
			if err != nil {
				return nil, fmt.Errorf("content: render plant %d description.%s: %w", p.ID, lang, err)
			}
			p.descriptionHTML[lang] = html
			p.summary[lang] = plainText(string(html))
		}
		s.byID[p.ID] = len(s.plants)
		s.plants = append(s.plants, p)
	}

	raw, err = fs.ReadFile(fsys, siteFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("content: read %s: %w", siteFile, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(raw, &s.site); err != nil {
			return nil, fmt.Errorf("content: parse %s: %w", siteFile, err)
		}
	}
	return s, nil
}

// Plants returns every plant in authored order.
func (s *Store) Plants() []Plant {
	out := make([]Plant, 0, len(s.plants))
	for _, p := range s.plants {
		out = append(out, p.clone())
	}
	return out
}

// Len returns the number of plants.
func (s *Store) Len() int { return len(s.plants) }

// Plant returns the plant with the given id.
func (s *Store) Plant(id int) (Plant, error) {
	i, ok := s.byID[id]
	if !ok {
		return Plant{}, fmt.Errorf("%w: plant %d", ErrNotFound, id)
	}
	return s.plants[i].clone(), nil
}

// IDs returns plant ids in authored order.
func (s *Store) IDs() []int {
	out := make([]int, 0, len(s.plants))
	for _, p := range s.plants {
		out = append(out, p.ID)
	}
	return out
}

// Neighbour returns the plant step positions away from id, wrapping around.
func (s *Store) Neighbour(id, step int) (Plant, error) {
	i, ok := s.byID[id]
	if !ok {
		return Plant{}, fmt.Errorf("%w: plant %d", ErrNotFound, id)
	}
	n := len(s.plants)
	return s.plants[(((i+step)%n)+n)%n].clone(), nil
}

// Site returns the site-wide facts.
func (s *Store) Site() SiteInfo {
	cp := s.site
	cp.Social = append([]Link(nil), s.site.Social...)
	cp.Highlights = append([]Highlight(nil), s.site.Highlights...)
	cp.MangroveTypes = append([]Swatch(nil), s.site.MangroveTypes...)
	cp.LegendColors = maps.Clone(s.site.LegendColors)
	return cp
}

// Validate checks every plant against the supported languages.
func (s *Store) Validate(langs []string) error {
	var errs []error
	if len(s.plants) == 0 {
		errs = append(errs, errors.New("content: no plants defined"))
	}
	for _, p := range s.plants {
		if err := p.Validate(langs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Languages returns every language code used by any localized plant field.
func (s *Store) Languages() []string {
	seen := map[string]struct{}{}
	for _, p := range s.plants {
		for l := range p.CommonName {
			seen[l] = struct{}{}
		}
		for l := range p.Description {
			seen[l] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
