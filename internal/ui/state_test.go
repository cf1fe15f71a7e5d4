package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"karangjaladri.id/mangrove-web/internal/carousel"
	"karangjaladri.id/mangrove-web/internal/content"
	"karangjaladri.id/mangrove-web/internal/gesture"
	"karangjaladri.id/mangrove-web/internal/i18n"
	"karangjaladri.id/mangrove-web/internal/scroll"
)

func newState(t *testing.T, opts Options) (*State, *carousel.FakeClock, *i18n.Bundle) {
	t.Helper()
	store, err := content.Load(content.Embedded())
	require.NoError(t, err)
	bundle, err := i18n.Load(i18n.Embedded(), "id", []string{"id", "en"})
	require.NoError(t, err)

	clock := carousel.NewFakeClock(time.Unix(0, 0))
	opts.Clock = clock
	s := New(store, bundle, opts)
	t.Cleanup(s.Close)
	return s, clock, bundle
}

func TestDefaultState(t *testing.T) {
	s, _, _ := newState(t, Options{})
	snap := s.Snapshot()

	require.Equal(t, "id", snap.Language)
	require.False(t, snap.Dark)
	require.False(t, snap.MenuOpen)
	require.False(t, snap.HasSelection)
	require.False(t, snap.Gallery.Open)
	require.Zero(t, snap.Scroll.Progress)
	require.False(t, snap.Scroll.ShowTop)
	require.Equal(t, 1, snap.ActiveCard)
	require.Len(t, snap.Cards, 5)
}

func TestToggleLanguageTwiceRestoresText(t *testing.T) {
	s, _, bundle := newState(t, Options{})
	before := bundle.T(s.Language(), "hero.title")

	require.Equal(t, "en", s.ToggleLanguage())
	require.NotEqual(t, before, bundle.T(s.Language(), "hero.title"))

	require.Equal(t, "id", s.ToggleLanguage())
	require.Equal(t, before, bundle.T(s.Language(), "hero.title"))
}

func TestSetLanguage(t *testing.T) {
	s, _, _ := newState(t, Options{Language: "en-US"})
	require.Equal(t, "en", s.Language())

	require.NoError(t, s.SetLanguage("ID"))
	require.Equal(t, "id", s.Language())
	require.True(t, errors.Is(s.SetLanguage("fr"), i18n.ErrUnsupportedLanguage))
}

func TestLightboxFromSecondCardCyclesBack(t *testing.T) {
	s, _, _ := newState(t, Options{})
	require.NoError(t, s.OpenGallery(2, 1))

	snap := s.Snapshot()
	require.True(t, snap.Gallery.Open)
	require.Equal(t, 2, snap.Gallery.PlantID)
	require.Len(t, snap.Gallery.Images, 3)

	for i := 0; i < 3; i++ {
		s.GalleryNext()
	}
	require.Equal(t, 1, s.Snapshot().Gallery.Index)

	s.CloseGallery()
	require.False(t, s.Snapshot().Gallery.Open)
}

func TestCardGalleryStartsAtShownImage(t *testing.T) {
	s, clock, _ := newState(t, Options{})
	s.ResumeCarousel(0)
	clock.Advance(2 * carousel.DefaultInterval)

	require.NoError(t, s.OpenCardGallery(1))
	require.Equal(t, 2, s.Snapshot().Gallery.Index)
}

func TestSwipeDrivesLightbox(t *testing.T) {
	s, _, _ := newState(t, Options{})
	require.NoError(t, s.OpenGallery(3, 0))

	s.Swipe(gesture.Left)
	require.Equal(t, 1, s.Snapshot().Gallery.Index)
	s.Swipe(gesture.Right)
	s.Swipe(gesture.Right)
	require.Equal(t, 2, s.Snapshot().Gallery.Index)
	s.Swipe(gesture.None)
	require.Equal(t, 2, s.Snapshot().Gallery.Index)
}

func TestScrollTopButton(t *testing.T) {
	s, _, _ := newState(t, Options{})
	m := scroll.Metrics{ScrollHeight: 6000, ClientHeight: 900, ViewportHeight: 900}

	m.Offset = 600
	require.True(t, s.Scroll(m).ShowTop)
	require.True(t, s.Snapshot().Scroll.ShowTop)

	m.Offset = 0
	require.False(t, s.Scroll(m).ShowTop)
}

func TestSelection(t *testing.T) {
	s, _, _ := newState(t, Options{})
	require.NoError(t, s.Select(4))
	snap := s.Snapshot()
	require.True(t, snap.HasSelection)
	require.Equal(t, 4, snap.Selected)

	require.True(t, errors.Is(s.Select(99), content.ErrNotFound))
	require.Equal(t, 4, s.Snapshot().Selected)

	s.ClearSelection()
	require.False(t, s.Snapshot().HasSelection)
}

func TestThemeAndMenu(t *testing.T) {
	s, _, _ := newState(t, Options{})
	require.True(t, s.ToggleTheme())
	require.True(t, s.ToggleMenu())
	s.CloseMenu()
	snap := s.Snapshot()
	require.True(t, snap.Dark)
	require.False(t, snap.MenuOpen)
}

func TestCarouselNavigationAndPause(t *testing.T) {
	s, clock, _ := newState(t, Options{})
	require.Equal(t, 2, s.NextCard())
	require.Equal(t, 1, s.PrevCard())
	require.Equal(t, 5, s.PrevCard())

	s.PauseCarousel()
	clock.Advance(5 * carousel.DefaultInterval)
	c, ok := s.Snapshot().Card(5)
	require.True(t, ok)
	require.Zero(t, c.Index)

	s.ResumeCarousel(5)
	clock.Advance(carousel.DefaultInterval)
	c, _ = s.Snapshot().Card(5)
	require.Equal(t, 1, c.Index)

	s.ResumeCarousel(99)
	require.Equal(t, 5, s.Snapshot().ActiveCard, "unknown plant keeps the centered card")
	require.Equal(t, 1, clock.Pending())
}

func TestNewStateWaitsForResume(t *testing.T) {
	s, clock, _ := newState(t, Options{})
	require.Zero(t, clock.Pending())

	clock.Advance(5 * carousel.DefaultInterval)
	c, ok := s.Snapshot().Card(1)
	require.True(t, ok)
	require.True(t, c.Active)
	require.Zero(t, c.Index)

	s.ResumeCarousel(0)
	require.Equal(t, 1, clock.Pending())
	require.Equal(t, 1, s.Snapshot().ActiveCard)
	clock.Advance(carousel.DefaultInterval)
	c, _ = s.Snapshot().Card(1)
	require.Equal(t, 1, c.Index)
}

func TestMapViewport(t *testing.T) {
	s, _, _ := newState(t, Options{})
	v := s.ZoomMap(1, 100, 100, 800, 600)
	require.True(t, v.Zoomed())
	s.PanMap(-50, 0, 800, 600)
	require.True(t, s.Snapshot().Map.Zoomed())
	require.False(t, s.ResetMap().Zoomed())
}

func TestCloseStopsTimersAndDetachesScroll(t *testing.T) {
	s, clock, _ := newState(t, Options{})
	var advances int
	s.OnAdvance(func(int, int) { advances++ })
	s.ResumeCarousel(0)
	require.Equal(t, 1, clock.Pending())

	s.Close()
	s.Close()
	require.True(t, s.Closed())
	require.Zero(t, clock.Pending())

	clock.Advance(10 * carousel.DefaultInterval)
	require.Zero(t, advances)

	s.Scroll(scroll.Metrics{Offset: 900, ScrollHeight: 2000, ClientHeight: 500, ViewportHeight: 500})
	require.False(t, s.Snapshot().Scroll.ShowTop, "detached observer no longer updates state")
}
