// Package scroll derives reading progress, scroll-to-top visibility and the
// hero parallax offset from the scroll container's metrics.
package scroll

import (
	"errors"
	"sync"
)

const (
	DefaultTopThreshold   = 500
	DefaultParallaxFactor = 0.4
)

// ErrAlreadyAttached is returned when a second observer is attached.
var ErrAlreadyAttached = errors.New("scroll: observer already attached")

// Metrics are the raw measurements of the scroll container.
type Metrics struct {
	Offset         float64 `json:"offset"`
	ScrollHeight   float64 `json:"scrollHeight"`
	ClientHeight   float64 `json:"clientHeight"`
	ViewportHeight float64 `json:"viewportHeight"`
}

// Position is the derived scroll state.
type Position struct {
	Offset   float64
	Progress float64
	ShowTop  bool
	Parallax float64
}

// ProgressPercent returns Progress scaled to 0..100.
func (p Position) ProgressPercent() float64 { return p.Progress * 100 }

// Tracker turns metrics into positions and forwards them to one observer.
type Tracker struct {
	TopThreshold   float64
	ParallaxFactor float64

	mu       sync.Mutex
	last     Position
	observer func(Position)
}

// New returns a tracker; non-positive arguments fall back to the defaults.
func New(topThreshold, parallaxFactor float64) *Tracker {
	if topThreshold <= 0 {
		topThreshold = DefaultTopThreshold
	}
	if parallaxFactor <= 0 {
		parallaxFactor = DefaultParallaxFactor
	}
	return &Tracker{TopThreshold: topThreshold, ParallaxFactor: parallaxFactor}
}

// Attach registers fn as the observer.
func (t *Tracker) Attach(fn func(Position)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.observer != nil {
		return ErrAlreadyAttached
	}
	t.observer = fn
	return nil
}

// Detach removes the observer. Later updates are still computed but not delivered.
func (t *Tracker) Detach() {
	t.mu.Lock()
	t.observer = nil
	t.mu.Unlock()
}

// Attached reports whether an observer is registered.
func (t *Tracker) Attached() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.observer != nil
}

// Update computes the position for m and notifies the observer.
//
// The parallax offset follows the scroll only while the hero is on screen
// (Offset below ViewportHeight); past that it keeps its last value.
func (t *Tracker) Update(m Metrics) Position {
	t.mu.Lock()
	pos := Position{
		Offset:   m.Offset,
		Progress: progress(m),
		ShowTop:  m.Offset > t.TopThreshold,
		Parallax: t.last.Parallax,
	}
	if m.Offset < m.ViewportHeight {
		pos.Parallax = m.Offset * t.ParallaxFactor
	}
	t.last = pos
	fn := t.observer
	t.mu.Unlock()

	if fn != nil {
		fn(pos)
	}
	return pos
}

// Last returns the most recent position.
func (t *Tracker) Last() Position {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

func progress(m Metrics) float64 {
	total := m.ScrollHeight - m.ClientHeight
	if total <= 0 {
		return 0
	}
	p := m.Offset / total
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
