package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"karangjaladri.id/mangrove-web/internal/gesture"
	"karangjaladri.id/mangrove-web/internal/handlers"
	"karangjaladri.id/mangrove-web/internal/httpx"
	"karangjaladri.id/mangrove-web/internal/observability"
	"karangjaladri.id/mangrove-web/internal/scroll"
	"karangjaladri.id/mangrove-web/internal/ui"
)

// maxSwipePoints bounds the posted pointer trace.
const maxSwipePoints = 256

var errMissingField = errors.New("missing field")

// ToggleLanguage flips the page language and re-renders #app.
func (h *site) ToggleLanguage(w http.ResponseWriter, r *http.Request) {
	h.fragment("app", whole, func(st *ui.State) {
		lang := st.ToggleLanguage()
		w.Header().Set("Content-Language", lang)
	})(w, r)
}

// ToggleTheme flips dark mode and re-renders #app.
func (h *site) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	h.fragment("app", whole, func(st *ui.State) { st.ToggleTheme() })(w, r)
}

// ToggleMenu opens or closes the mobile menu.
func (h *site) ToggleMenu(w http.ResponseWriter, r *http.Request) {
	h.fragment("header", header, func(st *ui.State) { st.ToggleMenu() })(w, r)
}

// CloseMenu closes the mobile menu after a section link is followed.
func (h *site) CloseMenu(w http.ResponseWriter, r *http.Request) {
	h.fragment("header", header, func(st *ui.State) { st.CloseMenu() })(w, r)
}

// Scroll records container metrics and answers with out-of-band updates for
// the progress bar, the scroll-to-top button and the hero parallax.
func (h *site) Scroll(w http.ResponseWriter, r *http.Request) {
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	m, err := decodeMetrics(r)
	if err != nil {
		httpx.BadRequest(w, r, err.Error())
		return
	}
	pos := st.Scroll(m)
	d := handlers.BuildScroll(handlers.NewView(h.bundle, st.Language()), h.content, pos)
	d.OOB = true
	h.renderer.Render(w, r, "scroll_oob", d)
}

// NextCard centers the following card.
func (h *site) NextCard(w http.ResponseWriter, r *http.Request) {
	h.fragment("carousel", flora, func(st *ui.State) { st.NextCard() })(w, r)
}

// PrevCard centers the preceding card.
func (h *site) PrevCard(w http.ResponseWriter, r *http.Request) {
	h.fragment("carousel", flora, func(st *ui.State) { st.PrevCard() })(w, r)
}

// SetActiveCard centers the card named by the plant form value.
func (h *site) SetActiveCard(w http.ResponseWriter, r *http.Request) {
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	id, err := formInt(r, "plant")
	if err != nil {
		httpx.BadRequest(w, r, err.Error())
		return
	}
	if err := st.SetActiveCard(id); err != nil {
		writeStateError(w, r, err)
		return
	}
	h.renderer.Render(w, r, "carousel", flora(h.build(r, st)))
}

// PauseCarousel stops cycling while the page is hidden.
func (h *site) PauseCarousel(w http.ResponseWriter, r *http.Request) {
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	st.PauseCarousel()
	w.WriteHeader(http.StatusNoContent)
}

// ResumeCarousel restarts cycling on the card the page still shows centered.
func (h *site) ResumeCarousel(w http.ResponseWriter, r *http.Request) {
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	id, err := formInt(r, "plant")
	if err != nil && !errors.Is(err, errMissingField) {
		httpx.BadRequest(w, r, err.Error())
		return
	}
	st.ResumeCarousel(id)
	w.WriteHeader(http.StatusNoContent)
}

// JumpImage shows one image on a card when its pagination dot is clicked.
func (h *site) JumpImage(w http.ResponseWriter, r *http.Request) {
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	id, err := pathInt(r, "plantID")
	if err != nil {
		httpx.BadRequest(w, r, "plant id must be an integer")
		return
	}
	idx, err := pathInt(r, "index")
	if err != nil {
		httpx.BadRequest(w, r, "image index must be an integer")
		return
	}
	if _, err := st.JumpImage(id, idx); err != nil {
		writeStateError(w, r, err)
		return
	}
	h.renderCard(w, r, st, id, false)
}

func (h *site) renderCard(w http.ResponseWriter, r *http.Request, st *ui.State, plantID int, oob bool) {
	snap := st.Snapshot()
	card, err := handlers.BuildCard(handlers.NewView(h.bundle, snap.Language), h.content, snap, plantID)
	if err != nil {
		writeStateError(w, r, err)
		return
	}
	card.OOB = oob
	h.renderer.Render(w, r, "card_image", card)
}

// SelectPlant opens the detail overlay.
func (h *site) SelectPlant(w http.ResponseWriter, r *http.Request) {
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	id, err := pathInt(r, "plantID")
	if err != nil {
		httpx.BadRequest(w, r, "plant id must be an integer")
		return
	}
	if err := st.Select(id); err != nil {
		writeStateError(w, r, err)
		return
	}
	h.renderer.Render(w, r, "detail_overlay", detail(h.build(r, st)))
}

// ClosePlant closes the detail overlay.
func (h *site) ClosePlant(w http.ResponseWriter, r *http.Request) {
	h.fragment("detail_overlay", detail, func(st *ui.State) { st.ClearSelection() })(w, r)
}

// OpenGallery opens the lightbox on a plant's images. Without an index it
// starts at the image the plant's card is showing.
func (h *site) OpenGallery(w http.ResponseWriter, r *http.Request) {
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	id, err := formInt(r, "plant")
	if err != nil {
		httpx.BadRequest(w, r, err.Error())
		return
	}
	idx, err := formInt(r, "index")
	switch {
	case errors.Is(err, errMissingField):
		err = st.OpenCardGallery(id)
	case err != nil:
		httpx.BadRequest(w, r, err.Error())
		return
	default:
		err = st.OpenGallery(id, idx)
	}
	if err != nil {
		writeStateError(w, r, err)
		return
	}
	h.renderer.Render(w, r, "lightbox", lightbox(h.build(r, st)))
}

// GalleryNext shows the next lightbox image.
func (h *site) GalleryNext(w http.ResponseWriter, r *http.Request) {
	h.fragment("lightbox", lightbox, func(st *ui.State) { st.GalleryNext() })(w, r)
}

// GalleryPrev shows the previous lightbox image.
func (h *site) GalleryPrev(w http.ResponseWriter, r *http.Request) {
	h.fragment("lightbox", lightbox, func(st *ui.State) { st.GalleryPrev() })(w, r)
}

// CloseGallery closes the lightbox.
func (h *site) CloseGallery(w http.ResponseWriter, r *http.Request) {
	h.fragment("lightbox", lightbox, func(st *ui.State) { st.CloseGallery() })(w, r)
}

// Swipe classifies a posted pointer trace and steps the lightbox.
func (h *site) Swipe(w http.ResponseWriter, r *http.Request) {
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	pointer, err := gesture.ParsePointer(r.FormValue("pointer"))
	if err != nil {
		httpx.BadRequest(w, r, err.Error())
		return
	}
	var points []gesture.Point
	if err := json.Unmarshal([]byte(r.FormValue("points")), &points); err != nil {
		httpx.BadRequest(w, r, "points must be a JSON array of {x, y}")
		return
	}
	if len(points) > maxSwipePoints {
		httpx.BadRequest(w, r, fmt.Sprintf("at most %d points", maxSwipePoints))
		return
	}
	dir := gesture.New(h.swipeThreshold, h.trackMouse).Replay(pointer, points)
	observability.FromContext(r.Context()).Debug("swipe",
		zap.String("pointer", pointer.String()),
		zap.String("direction", dir.String()),
		zap.Int("points", len(points)))
	st.Swipe(dir)
	h.renderer.Render(w, r, "lightbox", lightbox(h.build(r, st)))
}

// ZoomMap zooms the map around the cursor.
func (h *site) ZoomMap(w http.ResponseWriter, r *http.Request) {
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	v, err := formFloats(r, "steps", "x", "y", "width", "height")
	if err != nil {
		httpx.BadRequest(w, r, err.Error())
		return
	}
	st.ZoomMap(v[0], v[1], v[2], v[3], v[4])
	h.renderer.Render(w, r, "map_viewport", mapView(h.build(r, st)))
}

// PanMap drags the zoomed map.
func (h *site) PanMap(w http.ResponseWriter, r *http.Request) {
	st, ok := h.state(w, r)
	if !ok {
		return
	}
	v, err := formFloats(r, "dx", "dy", "width", "height")
	if err != nil {
		httpx.BadRequest(w, r, err.Error())
		return
	}
	st.PanMap(v[0], v[1], v[2], v[3])
	h.renderer.Render(w, r, "map_viewport", mapView(h.build(r, st)))
}

// ResetMap restores the unzoomed map.
func (h *site) ResetMap(w http.ResponseWriter, r *http.Request) {
	h.fragment("map_viewport", mapView, func(st *ui.State) { st.ResetMap() })(w, r)
}

func formInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return 0, fmt.Errorf("%s: %w", key, errMissingField)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

func formFloat(r *http.Request, key string) (float64, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return 0, fmt.Errorf("%s: %w", key, errMissingField)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be a finite number", key)
	}
	return f, nil
}

func formFloats(r *http.Request, keys ...string) ([]float64, error) {
	out := make([]float64, len(keys))
	for i, k := range keys {
		f, err := formFloat(r, k)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// decodeMetrics reads scroll metrics from a JSON body or form values.
func decodeMetrics(r *http.Request) (scroll.Metrics, error) {
	var m scroll.Metrics
	if ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); ct == "application/json" {
		if err := json.NewDecoder(io.LimitReader(r.Body, 4<<10)).Decode(&m); err != nil {
			return m, errors.New("invalid scroll metrics")
		}
	} else {
		v, err := formFloats(r, "offset", "scrollHeight", "clientHeight", "viewportHeight")
		if err != nil {
			return m, err
		}
		m = scroll.Metrics{Offset: v[0], ScrollHeight: v[1], ClientHeight: v[2], ViewportHeight: v[3]}
	}
	for _, f := range []float64{m.Offset, m.ScrollHeight, m.ClientHeight, m.ViewportHeight} {
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return m, errors.New("scroll metrics must be finite and non-negative")
		}
	}
	return m, nil
}
