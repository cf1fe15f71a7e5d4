// Package gesture classifies pointer traces into horizontal swipes.
//
// A trace starts with Down, may carry any number of Move samples and ends with
// Up, which reports the recognized direction. Cancel discards the trace.
package gesture

import (
	"fmt"
	"math"
	"strings"
)

// DefaultThreshold is the minimum horizontal travel, in CSS pixels, for a swipe.
const DefaultThreshold = 10

// Pointer identifies the input device of an event.
type Pointer int

const (
	Touch Pointer = iota
	Mouse
	Pen
)

func (p Pointer) String() string {
	switch p {
	case Mouse:
		return "mouse"
	case Pen:
		return "pen"
	default:
		return "touch"
	}
}

// ParsePointer maps a PointerEvent.pointerType value to a Pointer.
func ParsePointer(s string) (Pointer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "touch":
		return Touch, nil
	case "mouse":
		return Mouse, nil
	case "pen":
		return Pen, nil
	}
	return Touch, fmt.Errorf("gesture: unknown pointer type %q", s)
}

// Direction is the outcome of a completed trace.
type Direction int

const (
	None Direction = iota
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// Event is one pointer sample.
type Event struct {
	X, Y    float64
	Pointer Pointer
}

// Point is a position without device information, used by Replay.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Recognizer tracks one trace at a time.
type Recognizer struct {
	// Threshold is the minimum |dx| for a swipe. Zero uses DefaultThreshold.
	Threshold float64
	// TrackMouse enables swipes with a mouse; touch and pen always count.
	TrackMouse bool

	down        bool
	start, last Event
}

// New returns a recognizer with the given threshold and mouse tracking.
func New(threshold float64, trackMouse bool) *Recognizer {
	return &Recognizer{Threshold: threshold, TrackMouse: trackMouse}
}

func (r *Recognizer) accepts(p Pointer) bool {
	return p != Mouse || r.TrackMouse
}

func (r *Recognizer) threshold() float64 {
	if r.Threshold <= 0 {
		return DefaultThreshold
	}
	return r.Threshold
}

// Down begins a trace.
func (r *Recognizer) Down(e Event) {
	if !r.accepts(e.Pointer) {
		return
	}
	r.down = true
	r.start, r.last = e, e
}

// Move records a sample. It is ignored without a preceding Down or when the
// pointer type differs from the one that started the trace.
func (r *Recognizer) Move(e Event) {
	if !r.down || e.Pointer != r.start.Pointer {
		return
	}
	r.last = e
}

// Up ends the trace and reports the swipe direction.
func (r *Recognizer) Up(e Event) Direction {
	if !r.down || e.Pointer != r.start.Pointer {
		return None
	}
	r.last = e
	dx := r.last.X - r.start.X
	dy := r.last.Y - r.start.Y
	r.Cancel()

	if math.Abs(dx) < r.threshold() || math.Abs(dx) <= math.Abs(dy) {
		return None
	}
	if dx < 0 {
		return Left
	}
	return Right
}

// Cancel discards the current trace.
func (r *Recognizer) Cancel() {
	r.down = false
	r.start, r.last = Event{}, Event{}
}

// Active reports whether a trace is in progress.
func (r *Recognizer) Active() bool { return r.down }

// Replay feeds a recorded trace through the recognizer: the first point is
// Down, the last is Up and everything between is Move.
func (r *Recognizer) Replay(p Pointer, points []Point) Direction {
	if len(points) == 0 {
		return None
	}
	r.Cancel()
	r.Down(Event{X: points[0].X, Y: points[0].Y, Pointer: p})
	for i := 1; i < len(points)-1; i++ {
		r.Move(Event{X: points[i].X, Y: points[i].Y, Pointer: p})
	}
	last := points[len(points)-1]
	return r.Up(Event{X: last.X, Y: last.Y, Pointer: p})
}
