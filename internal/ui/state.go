// Package ui holds the per-visitor page state: language, theme, menu,
// selected plant, lightbox, scroll position, carousel and map viewport.
//
// All mutation goes through State methods, serialized by one mutex. Views
// read a Snapshot value.
package ui

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"karangjaladri.id/mangrove-web/internal/carousel"
	"karangjaladri.id/mangrove-web/internal/content"
	"karangjaladri.id/mangrove-web/internal/gallery"
	"karangjaladri.id/mangrove-web/internal/gesture"
	"karangjaladri.id/mangrove-web/internal/i18n"
	"karangjaladri.id/mangrove-web/internal/mapview"
	"karangjaladri.id/mangrove-web/internal/scroll"
)

// Options tunes a new State. Zero values select the defaults.
type Options struct {
	Language       string
	Dark           bool
	Clock          carousel.Clock
	Interval       time.Duration
	TopThreshold   float64
	ParallaxFactor float64
	Logger         *zap.Logger
}

// GalleryView is the lightbox part of a Snapshot.
type GalleryView struct {
	Open    bool
	PlantID int
	Images  []string
	Index   int
	Current string
}

// Snapshot is an immutable copy of the state for rendering.
type Snapshot struct {
	Language     string
	Dark         bool
	MenuOpen     bool
	Selected     int
	HasSelection bool
	Gallery      GalleryView
	Scroll       scroll.Position
	ActiveCard   int
	Cards        []carousel.CardState
	Map          mapview.Viewport
}

// Card returns the carousel state for plantID.
func (s Snapshot) Card(plantID int) (carousel.CardState, bool) {
	for _, c := range s.Cards {
		if c.PlantID == plantID {
			return c, true
		}
	}
	return carousel.CardState{}, false
}

// State is one visitor's page state.
type State struct {
	mu sync.Mutex

	store  *content.Store
	bundle *i18n.Bundle
	logger *zap.Logger

	lang         string
	dark         bool
	menuOpen     bool
	selected     int
	hasSelection bool
	gallery      gallery.Gallery
	galleryPlant int
	tracker      *scroll.Tracker
	position     scroll.Position
	carousel     *carousel.Carousel
	viewport     mapview.Viewport
	closed       bool
}

// New builds the default state: primary language, light theme, nothing
// selected, lightbox closed, no scroll progress and the first plant centered.
// The carousel starts paused; ResumeCarousel starts cycling once the page is
// on screen.
func New(store *content.Store, bundle *i18n.Bundle, opts Options) *State {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	lang := bundle.Normalize(opts.Language)
	if lang == "" {
		lang = bundle.Primary()
	}

	plants := store.Plants()
	slots := make([]carousel.Slot, 0, len(plants))
	for _, p := range plants {
		slots = append(slots, carousel.Slot{PlantID: p.ID, Images: p.ImageCount()})
	}

	s := &State{
		store:    store,
		bundle:   bundle,
		logger:   logger,
		lang:     lang,
		dark:     opts.Dark,
		tracker:  scroll.New(opts.TopThreshold, opts.ParallaxFactor),
		carousel: carousel.New(opts.Clock, opts.Interval, slots),
		viewport: mapview.New(),
	}
	// The observer runs inside Scroll, which already holds s.mu.
	if err := s.tracker.Attach(func(p scroll.Position) { s.position = p }); err != nil {
		logger.Warn("attach scroll observer", zap.Error(err))
	}
	// Cycling waits until the page reports it is visible.
	s.carousel.Hold()
	if len(slots) > 0 {
		_ = s.carousel.SetActive(slots[0].PlantID)
	}
	return s
}

// Snapshot copies the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Language:     s.lang,
		Dark:         s.dark,
		MenuOpen:     s.menuOpen,
		Selected:     s.selected,
		HasSelection: s.hasSelection,
		Gallery: GalleryView{
			Open:    s.gallery.IsOpen(),
			PlantID: s.galleryPlant,
			Images:  s.gallery.Images(),
			Index:   s.gallery.Index(),
			Current: s.gallery.Current(),
		},
		Scroll: s.position,
		Cards:  s.carousel.Cards(),
		Map:    s.viewport,
	}
	if id, ok := s.carousel.Active(); ok {
		snap.ActiveCard = id
	}
	return snap
}

// Language returns the active language code.
func (s *State) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// ToggleLanguage switches to the other supported language and returns it.
func (s *State) ToggleLanguage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lang = s.bundle.Toggle(s.lang)
	return s.lang
}

// SetLanguage selects lang if it is supported.
func (s *State) SetLanguage(lang string) error {
	norm := s.bundle.Normalize(lang)
	if norm == "" {
		return fmt.Errorf("%w: %q", i18n.ErrUnsupportedLanguage, lang)
	}
	s.mu.Lock()
	s.lang = norm
	s.mu.Unlock()
	return nil
}

// ToggleTheme flips dark mode and returns the new value.
func (s *State) ToggleTheme() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dark = !s.dark
	return s.dark
}

// ToggleMenu opens or closes the mobile menu.
func (s *State) ToggleMenu() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menuOpen = !s.menuOpen
	return s.menuOpen
}

// CloseMenu closes the mobile menu.
func (s *State) CloseMenu() {
	s.mu.Lock()
	s.menuOpen = false
	s.mu.Unlock()
}

// Select opens the detail overlay for a plant.
func (s *State) Select(plantID int) error {
	if _, err := s.store.Plant(plantID); err != nil {
		return err
	}
	s.mu.Lock()
	s.selected, s.hasSelection = plantID, true
	s.mu.Unlock()
	return nil
}

// ClearSelection closes the detail overlay.
func (s *State) ClearSelection() {
	s.mu.Lock()
	s.selected, s.hasSelection = 0, false
	s.mu.Unlock()
}

// OpenGallery shows a plant's images in the lightbox starting at start.
func (s *State) OpenGallery(plantID, start int) error {
	p, err := s.store.Plant(plantID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gallery.Open(p.Images, start)
	s.galleryPlant = plantID
	return nil
}

// OpenCardGallery opens the lightbox at the image the plant's card is showing.
func (s *State) OpenCardGallery(plantID int) error {
	idx, err := s.carousel.Index(plantID)
	if err != nil {
		return err
	}
	return s.OpenGallery(plantID, idx)
}

// GalleryNext advances the lightbox.
func (s *State) GalleryNext() {
	s.mu.Lock()
	s.gallery.Next()
	s.mu.Unlock()
}

// GalleryPrev steps the lightbox back.
func (s *State) GalleryPrev() {
	s.mu.Lock()
	s.gallery.Prev()
	s.mu.Unlock()
}

// CloseGallery closes the lightbox.
func (s *State) CloseGallery() {
	s.mu.Lock()
	s.gallery.Close()
	s.galleryPlant = 0
	s.mu.Unlock()
}

// Swipe applies a recognized swipe to the lightbox: left shows the next
// image, right the previous one.
func (s *State) Swipe(d gesture.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch d {
	case gesture.Left:
		s.gallery.Next()
	case gesture.Right:
		s.gallery.Prev()
	}
}

// Scroll records new container metrics and returns the derived position.
func (s *State) Scroll(m scroll.Metrics) scroll.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.Update(m)
	return s.position
}

// SetActiveCard centers the card for plantID.
func (s *State) SetActiveCard(plantID int) error {
	return s.carousel.SetActive(plantID)
}

// NextCard centers the next card and returns its plant id.
func (s *State) NextCard() int { return s.carousel.Next() }

// PrevCard centers the previous card and returns its plant id.
func (s *State) PrevCard() int { return s.carousel.Prev() }

// JumpImage shows image i on the plant's card.
func (s *State) JumpImage(plantID, i int) (int, error) {
	return s.carousel.Jump(plantID, i)
}

// PauseCarousel stops automatic cycling while the page is hidden. The
// centered card stays centered.
func (s *State) PauseCarousel() { s.carousel.Hold() }

// ResumeCarousel restarts cycling. A known plantID is centered first; any
// other value keeps the current card, or the first plant when none is
// centered.
func (s *State) ResumeCarousel(plantID int) {
	if err := s.carousel.SetActive(plantID); err != nil {
		if _, ok := s.carousel.Active(); !ok {
			if ids := s.store.IDs(); len(ids) > 0 {
				_ = s.carousel.SetActive(ids[0])
			}
		}
	}
	s.carousel.Release()
}

// OnAdvance registers the callback for automatic card image changes.
func (s *State) OnAdvance(fn func(plantID, index int)) {
	s.carousel.OnAdvance(fn)
}

// ZoomMap zooms the map around a frame point.
func (s *State) ZoomMap(steps, x, y, w, h float64) mapview.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.Zoom(steps, x, y, w, h)
	return s.viewport
}

// PanMap drags the map.
func (s *State) PanMap(dx, dy, w, h float64) mapview.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.Pan(dx, dy, w, h)
	return s.viewport
}

// ResetMap restores the unzoomed map.
func (s *State) ResetMap() mapview.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.Reset()
	return s.viewport
}

// Close cancels carousel timers and detaches the scroll observer.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.carousel.Close()
	s.tracker.Detach()
	s.logger.Debug("ui state closed")
}

// Closed reports whether Close was called.
func (s *State) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
