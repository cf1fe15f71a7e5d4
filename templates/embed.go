// Package templates holds the html/template sources of the page and its
// htmx fragments.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

//go:embed layouts/*.tmpl partials/*.tmpl
var files embed.FS

// ErrNoTemplates is returned when a directory holds no .tmpl files.
var ErrNoTemplates = errors.New("templates: no .tmpl files found")

// Embedded returns the templates compiled into the binary.
func Embedded() fs.FS { return files }

// Funcs is the function map every template set is parsed with.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"now": time.Now,
		"add": func(a, b int) int { return a + b },
	}
}

// Parse discovers every **/*.tmpl file under fsys and parses them into one set.
func Parse(fsys fs.FS) (*template.Template, error) {
	matches, err := doublestar.Glob(fsys, "**/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}
	if len(matches) == 0 {
		return nil, ErrNoTemplates
	}
	t, err := template.New("_root").Funcs(Funcs()).ParseFS(fsys, matches...)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}
