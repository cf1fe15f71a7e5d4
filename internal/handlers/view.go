// Package handlers builds the view models the page and fragment templates
// render from a visitor's state snapshot.
package handlers

import "karangjaladri.id/mangrove-web/internal/i18n"

// View binds a dictionary to one language so templates can write
// {{.V.T "hero.title"}}.
type View struct {
	Lang   string
	bundle *i18n.Bundle
}

// NewView returns a View for lang.
func NewView(bundle *i18n.Bundle, lang string) View {
	return View{Lang: lang, bundle: bundle}
}

// T returns the text at key. Missing keys render empty.
func (v View) T(key string) string {
	if v.bundle == nil {
		return ""
	}
	return v.bundle.T(v.Lang, key)
}

// L returns the list at key.
func (v View) L(key string) []string {
	if v.bundle == nil {
		return nil
	}
	return v.bundle.List(v.Lang, key)
}

// Other is the language the toggle switches to.
func (v View) Other() string {
	if v.bundle == nil {
		return v.Lang
	}
	return v.bundle.Toggle(v.Lang)
}
