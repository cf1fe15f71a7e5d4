package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"karangjaladri.id/mangrove-web/internal/carousel"
	"karangjaladri.id/mangrove-web/internal/content"
	"karangjaladri.id/mangrove-web/internal/handlers"
	"karangjaladri.id/mangrove-web/internal/httpx"
	"karangjaladri.id/mangrove-web/internal/i18n"
	"karangjaladri.id/mangrove-web/internal/live"
	custommw "karangjaladri.id/mangrove-web/internal/middleware"
	"karangjaladri.id/mangrove-web/internal/ui"
)

type site struct {
	renderer       *Renderer
	bundle         *i18n.Bundle
	content        *content.Store
	hub            *live.Hub
	swipeThreshold float64
	trackMouse     bool
	liveURL        string
}

// state returns the visitor's state. Session always runs first, so a
// missing visitor is a wiring error.
func (h *site) state(w http.ResponseWriter, r *http.Request) (*ui.State, bool) {
	v, ok := custommw.VisitorFromContext(r.Context())
	if !ok {
		httpx.Internal(w, r)
		return nil, false
	}
	return v.State, true
}

func (h *site) build(r *http.Request, st *ui.State) handlers.HomeData {
	return handlers.BuildHomeData(handlers.Input{
		Bundle:   h.bundle,
		Store:    h.content,
		Snapshot: st.Snapshot(),
		CSRF:     custommw.CSRFToken(r.Context()),
		LiveURL:  h.liveURL,
	})
}

// Home renders the full page from the visitor's state.
func (h *site) Home(w http.ResponseWriter, r *http.Request) {
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	h.renderer.Render(w, r, "base", h.build(r, st))
}

// fragment applies mutate to the visitor's state and renders one template
// from the resulting view model.
func (h *site) fragment(name string, pick func(handlers.HomeData) any, mutate func(*ui.State)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := h.state(w, r)
		if !ok {
			return
		}
		if mutate != nil {
			mutate(st)
		}
		h.renderer.Render(w, r, name, pick(h.build(r, st)))
	}
}

func whole(d handlers.HomeData) any    { return d }
func header(d handlers.HomeData) any   { return d.Header }
func flora(d handlers.HomeData) any    { return d.Carousel }
func detail(d handlers.HomeData) any   { return d.Detail }
func lightbox(d handlers.HomeData) any { return d.Gallery }
func mapView(d handlers.HomeData) any  { return d.Map }

// writeStateError maps state errors to 404 or 500.
func writeStateError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, content.ErrNotFound), errors.Is(err, carousel.ErrUnknownCard):
		httpx.NotFound(w, r, "unknown plant")
	case errors.Is(err, i18n.ErrUnsupportedLanguage):
		httpx.BadRequest(w, r, err.Error())
	default:
		httpx.Internal(w, r)
	}
}

func pathInt(r *http.Request, key string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, key))
}
