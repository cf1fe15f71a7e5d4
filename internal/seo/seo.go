// Package seo builds head metadata: OpenGraph, hreflang alternates and
// schema.org JSON-LD.
package seo

import (
	"html/template"
	"net/url"
	"strings"
)

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
	Locale      string
}

type Twitter struct {
	Card  string
	Image string
}

// Alternate is one hreflang link.
type Alternate struct {
	Href     string
	Hreflang string
}

// Meta is everything the base layout renders into <head>.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
	Alternates  []Alternate
	JSONLD      []template.JS
}

// Absolute resolves ref against base. It returns ref unchanged when either
// fails to parse.
func Absolute(base, ref string) string {
	b, err := url.Parse(strings.TrimRight(base, "/") + "/")
	if err != nil || base == "" {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// Alternates returns one ?hl= link per language plus x-default pointing at
// the primary language.
func Alternates(base string, langs []string, primary string) []Alternate {
	out := make([]Alternate, 0, len(langs)+1)
	for _, l := range langs {
		out = append(out, Alternate{Href: Absolute(base, "/?hl="+url.QueryEscape(l)), Hreflang: l})
	}
	if primary != "" {
		out = append(out, Alternate{Href: Absolute(base, "/?hl="+url.QueryEscape(primary)), Hreflang: "x-default"})
	}
	return out
}

// OGLocale maps a short language code to an OpenGraph locale.
func OGLocale(lang string) string {
	switch lang {
	case "id":
		return "id_ID"
	case "en":
		return "en_US"
	default:
		return lang
	}
}
