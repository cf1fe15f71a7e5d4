// Package carousel tracks the featured-plant carousel: which card is centered
// and, for that card only, the image index that cycles on a fixed interval.
//
// Each card owns at most one live timer. Deactivation stops the timer and
// bumps the card's generation so a callback that already fired but has not
// yet acquired the lock is discarded. A held carousel keeps its centered card
// but runs no timer until Release.
package carousel

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultInterval is the delay between automatic image advances.
const DefaultInterval = 3500 * time.Millisecond

// ErrUnknownCard is returned for operations on a plant id that has no card.
var ErrUnknownCard = errors.New("carousel: unknown card")

// Slot declares one card: the plant it shows and how many images it has.
type Slot struct {
	PlantID int
	Images  int
}

// CardState is a read-only view of a card.
type CardState struct {
	PlantID int
	Index   int
	Count   int
	Active  bool
	Cycling bool
}

type card struct {
	plantID    int
	count      int
	index      int
	active     bool
	timer      Timer
	generation uint64
}

// Carousel is the registry of cards keyed by plant id.
type Carousel struct {
	mu        sync.Mutex
	clock     Clock
	interval  time.Duration
	order     []int
	cards     map[int]*card
	activePos int
	onAdvance func(plantID, index int)
	held      bool
	closed    bool
}

// New builds a carousel with no active card. A nil clock uses RealClock and a
// non-positive interval uses DefaultInterval.
func New(clock Clock, interval time.Duration, slots []Slot) *Carousel {
	if clock == nil {
		clock = RealClock{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	c := &Carousel{
		clock:     clock,
		interval:  interval,
		cards:     make(map[int]*card, len(slots)),
		activePos: -1,
	}
	for _, s := range slots {
		if _, dup := c.cards[s.PlantID]; dup {
			continue
		}
		c.order = append(c.order, s.PlantID)
		c.cards[s.PlantID] = &card{plantID: s.PlantID, count: s.Images}
	}
	return c
}

// OnAdvance registers the callback invoked after every automatic advance.
// It runs outside the carousel lock.
func (c *Carousel) OnAdvance(fn func(plantID, index int)) {
	c.mu.Lock()
	c.onAdvance = fn
	c.mu.Unlock()
}

// SetActive centers the card for plantID, deactivating the previous one.
// Re-activating the already active card is a no-op.
func (c *Carousel) SetActive(plantID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	pos := c.position(plantID)
	if pos < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownCard, plantID)
	}
	c.moveTo(pos)
	return nil
}

// Next centers the following card, wrapping after the last.
func (c *Carousel) Next() int { return c.step(1) }

// Prev centers the preceding card, wrapping before the first.
func (c *Carousel) Prev() int { return c.step(-1) }

func (c *Carousel) step(delta int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.order)
	if n == 0 {
		return 0
	}
	pos := c.activePos
	if pos < 0 {
		pos = 0
		delta = 0
	}
	c.moveTo(((pos+delta)%n + n) % n)
	return c.order[c.activePos]
}

// Deactivate leaves no card centered and stops its timer.
func (c *Carousel) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activePos >= 0 {
		c.deactivate(c.cards[c.order[c.activePos]])
	}
	c.activePos = -1
}

// Hold stops cycling while keeping the centered card. Cards centered while
// held do not start a timer.
func (c *Carousel) Hold() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.held = true
	if c.activePos >= 0 {
		c.stop(c.cards[c.order[c.activePos]])
	}
}

// Release ends a Hold and starts a fresh interval on the centered card. It is
// a no-op when the carousel is not held.
func (c *Carousel) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.held || c.closed {
		return
	}
	c.held = false
	if c.activePos >= 0 {
		cd := c.cards[c.order[c.activePos]]
		cd.generation++
		if cd.count > 1 {
			c.schedule(cd)
		}
	}
}

// Held reports whether cycling is suspended.
func (c *Carousel) Held() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.held
}

// Active returns the centered plant id, or false when none is centered.
func (c *Carousel) Active() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activePos < 0 {
		return 0, false
	}
	return c.order[c.activePos], true
}

// Jump shows image i of the card, wrapping out-of-range values. The timer
// phase is left untouched.
func (c *Carousel) Jump(plantID, i int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cd, ok := c.cards[plantID]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownCard, plantID)
	}
	if cd.count == 0 {
		return 0, nil
	}
	cd.index = ((i % cd.count) + cd.count) % cd.count
	return cd.index, nil
}

// Index returns the image index currently shown by the card.
func (c *Carousel) Index(plantID int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cd, ok := c.cards[plantID]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownCard, plantID)
	}
	return cd.index, nil
}

// Cards returns every card in carousel order.
func (c *Carousel) Cards() []CardState {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CardState, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.cards[id].state())
	}
	return out
}

// Card returns the state of one card.
func (c *Carousel) Card(plantID int) (CardState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cd, ok := c.cards[plantID]
	if !ok {
		return CardState{}, fmt.Errorf("%w: %d", ErrUnknownCard, plantID)
	}
	return cd.state(), nil
}

// Close stops every timer. The carousel ignores timer callbacks afterwards.
func (c *Carousel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cd := range c.cards {
		c.deactivate(cd)
	}
	c.activePos = -1
	c.closed = true
}

func (c *Carousel) position(plantID int) int {
	for i, id := range c.order {
		if id == plantID {
			return i
		}
	}
	return -1
}

func (c *Carousel) moveTo(pos int) {
	if c.closed || pos == c.activePos {
		return
	}
	if c.activePos >= 0 {
		c.deactivate(c.cards[c.order[c.activePos]])
	}
	c.activePos = pos
	c.activate(c.cards[c.order[pos]])
}

func (c *Carousel) activate(cd *card) {
	cd.active = true
	cd.generation++
	if cd.count > 1 && !c.held {
		c.schedule(cd)
	}
}

func (c *Carousel) deactivate(cd *card) {
	cd.active = false
	c.stop(cd)
}

func (c *Carousel) stop(cd *card) {
	cd.generation++
	if cd.timer != nil {
		cd.timer.Stop()
		cd.timer = nil
	}
}

func (c *Carousel) schedule(cd *card) {
	id, gen := cd.plantID, cd.generation
	cd.timer = c.clock.AfterFunc(c.interval, func() { c.tick(id, gen) })
}

func (c *Carousel) tick(plantID int, gen uint64) {
	c.mu.Lock()
	cd, ok := c.cards[plantID]
	if c.closed || !ok || !cd.active || cd.generation != gen {
		c.mu.Unlock()
		return
	}
	cd.index = (cd.index + 1) % cd.count
	idx := cd.index
	c.schedule(cd)
	fn := c.onAdvance
	c.mu.Unlock()

	if fn != nil {
		fn(plantID, idx)
	}
}

func (cd *card) state() CardState {
	return CardState{
		PlantID: cd.plantID,
		Index:   cd.index,
		Count:   cd.count,
		Active:  cd.active,
		Cycling: cd.timer != nil,
	}
}
