package httpserver

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"sync"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"karangjaladri.id/mangrove-web/internal/httpx"
	"karangjaladri.id/mangrove-web/internal/observability"
	"karangjaladri.id/mangrove-web/templates"
)

// Renderer executes named templates. In dev mode the set is reparsed from
// disk on every render so template edits show without a restart.
type Renderer struct {
	fsys fs.FS
	dev  bool

	mu  sync.RWMutex
	set *template.Template
}

// NewRenderer parses fsys once, so a broken template fails startup even in
// dev mode.
func NewRenderer(fsys fs.FS, dev bool) (*Renderer, error) {
	if fsys == nil {
		fsys = templates.Embedded()
	}
	set, err := templates.Parse(fsys)
	if err != nil {
		return nil, err
	}
	return &Renderer{fsys: fsys, dev: dev, set: set}, nil
}

func (r *Renderer) templates() (*template.Template, error) {
	if r.dev {
		set, err := templates.Parse(r.fsys)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.set = set
		r.mu.Unlock()
		return set, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.set, nil
}

// Component adapts the named template to templ's component interface.
func (r *Renderer) Component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		set, err := r.templates()
		if err != nil {
			return err
		}
		return set.ExecuteTemplate(w, name, data)
	})
}

// Bytes renders the named template into memory.
func (r *Renderer) Bytes(ctx context.Context, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Component(name, data).Render(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render writes the named template as the response. Output is buffered so a
// failing template yields a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data any) {
	templ.Handler(r.Component(name, data), templ.WithErrorHandler(func(req *http.Request, err error) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			observability.FromContext(req.Context()).Error("render template", zap.String("template", name), zap.Error(err))
			httpx.Internal(w, req)
		})
	})).ServeHTTP(w, req)
}
