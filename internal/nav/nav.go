// Package nav builds the in-page section navigation.
package nav

import "karangjaladri.id/mangrove-web/internal/i18n"

// Item is one section anchor of the single-page layout.
type Item struct {
	Anchor   string // element id, e.g. "flora"
	LabelKey string // i18n key, e.g. "nav.flora"
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href   string
	Anchor string
	Label  string
	Active bool
}

// Main is the fallback section order used when the dictionary has no nav
// mapping.
var Main = []Item{
	{Anchor: "home", LabelKey: "nav.home"},
	{Anchor: "flora", LabelKey: "nav.flora"},
	{Anchor: "map", LabelKey: "nav.map"},
	{Anchor: "contact", LabelKey: "nav.contact"},
}

// Sections renders the navigation in the authored order of the nav
// dictionary section for lang. active marks one anchor, usually "home".
func Sections(bundle *i18n.Bundle, lang, active string) []RenderedItem {
	entries := bundle.Entries(lang, "nav")
	items := make([]RenderedItem, 0, len(Main))
	if len(entries) == 0 {
		for _, it := range Main {
			items = append(items, render(it.Anchor, bundle.T(lang, it.LabelKey), active))
		}
		return items
	}
	for _, e := range entries {
		if e.Value.IsList() || e.Value.Text == "" {
			continue
		}
		items = append(items, render(e.Key, e.Value.Text, active))
	}
	return items
}

func render(anchor, label, active string) RenderedItem {
	return RenderedItem{
		Href:   "#" + anchor,
		Anchor: anchor,
		Label:  label,
		Active: anchor == active,
	}
}
