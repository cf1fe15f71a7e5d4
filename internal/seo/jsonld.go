package seo

import (
	"encoding/json"
	"html/template"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Script marshals v for a <script type="application/ld+json"> body.
// encoding/json escapes <, > and & so the payload cannot close the element.
func Script(v any) template.JS {
	return template.JS(JSON(v))
}

// Organization returns a minimal Organization schema.
func Organization(name, url, logoURL, email string, sameAs []string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	if email != "" {
		m["email"] = email
	}
	if len(sameAs) > 0 {
		m["sameAs"] = sameAs
	}
	return m
}

// WebSite returns a minimal WebSite schema.
func WebSite(name, url, lang string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if lang != "" {
		m["inLanguage"] = lang
	}
	return m
}

// Attraction describes the tourist site for TouristAttraction.
type Attraction struct {
	Name        string
	Description string
	URL         string
	Image       string
	Address     string
	MapURL      string
	Activities  []string
	Lang        string
}

// TouristAttraction returns a schema.org TouristAttraction payload.
func TouristAttraction(a Attraction) map[string]any {
	m := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "TouristAttraction",
		"name":        a.Name,
		"description": a.Description,
	}
	m["isAccessibleForFree"] = true
	if a.URL != "" {
		m["url"] = a.URL
	}
	if a.Image != "" {
		m["image"] = a.Image
	}
	if a.Address != "" {
		m["address"] = map[string]any{
			"@type":          "PostalAddress",
			"streetAddress":  a.Address,
			"addressCountry": "ID",
			"addressRegion":  "Jawa Barat",
		}
	}
	if a.MapURL != "" {
		m["hasMap"] = a.MapURL
	}
	if len(a.Activities) > 0 {
		m["touristType"] = a.Activities
	}
	if a.Lang != "" {
		m["inLanguage"] = a.Lang
	}
	return m
}

// Taxon is one plant for the ItemList payload.
type Taxon struct {
	Name        string
	CommonName  string
	Description string
	Image       string
}

// FloraList returns an ItemList of Taxon entries.
func FloraList(name string, items []Taxon) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		t := map[string]any{
			"@type": "Taxon",
			"name":  it.Name,
		}
		if it.CommonName != "" {
			t["alternateName"] = it.CommonName
		}
		if it.Description != "" {
			t["description"] = it.Description
		}
		if it.Image != "" {
			t["image"] = it.Image
		}
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"item":     t,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "ItemList",
		"name":            name,
		"itemListElement": el,
	}
}
