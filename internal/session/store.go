package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"karangjaladri.id/mangrove-web/internal/ui"
)

// Factory builds the state for a new session id.
type Factory func(id string) *ui.State

// entry is engaged once its id is presented again after creation.
type entry struct {
	state    *ui.State
	lastSeen time.Time
	engaged  bool
}

// Store maps session ids to page state.
type Store struct {
	mu          sync.Mutex
	entries     map[string]*entry
	ttl         time.Duration
	probation   time.Duration
	maxSessions int
	factory     Factory
	logger      *zap.Logger
	now         func() time.Time
	onEvict     []func(id string)
	closed      bool
}

// Option tunes a Store.
type Option func(*Store)

// WithProbation expires sessions that were never used again after d instead
// of the full ttl. Zero disables it.
func WithProbation(d time.Duration) Option {
	return func(s *Store) { s.probation = d }
}

// WithMaxSessions bounds the store. Creating a session beyond n evicts the
// oldest session that was never used again, or the least recently seen one
// when every session is engaged. Zero means unbounded.
func WithMaxSessions(n int) Option {
	return func(s *Store) { s.maxSessions = n }
}

// NewStore returns an empty store whose sessions expire after ttl of inactivity.
func NewStore(ttl time.Duration, factory Factory, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		factory: factory,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnEvict registers a callback run after a session is removed.
func (s *Store) OnEvict(fn func(id string)) {
	s.mu.Lock()
	s.onEvict = append(s.onEvict, fn)
	s.mu.Unlock()
}

// Get returns the state for id and marks it as seen.
func (s *Store) Get(id string) (*ui.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	e.lastSeen = s.now()
	e.engaged = true
	return e.state, nil
}

// Peek returns the state for id without refreshing its idle timer.
func (s *Store) Peek(id string) (*ui.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return e.state, true
}

// GetOrCreate returns the state for id, creating it when absent. created
// reports whether the factory ran.
func (s *Store) GetOrCreate(id string) (st *ui.State, created bool) {
	s.mu.Lock()
	if e, ok := s.entries[id]; ok {
		e.lastSeen = s.now()
		e.engaged = true
		s.mu.Unlock()
		return e.state, false
	}
	var victims map[string]*ui.State
	if s.maxSessions > 0 && len(s.entries) >= s.maxSessions {
		victims = s.evictForRoom(len(s.entries) - s.maxSessions + 1)
	}
	st = s.factory(id)
	s.entries[id] = &entry{state: st, lastSeen: s.now()}
	count := len(s.entries)
	hooks := s.onEvict
	s.mu.Unlock()

	s.closeAll(victims, hooks)
	if len(victims) > 0 {
		s.logger.Warn("session limit reached, evicted oldest",
			zap.Int("evicted", len(victims)), zap.Int("max_sessions", s.maxSessions))
	}
	s.logger.Debug("session created", zap.String("session_id", id), zap.Int("sessions", count))
	return st, true
}

// evictForRoom removes n entries, never-engaged ones first, oldest first.
// The caller holds s.mu.
func (s *Store) evictForRoom(n int) map[string]*ui.State {
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.entries[ids[i]], s.entries[ids[j]]
		if a.engaged != b.engaged {
			return !a.engaged
		}
		return a.lastSeen.Before(b.lastSeen)
	})
	if n > len(ids) {
		n = len(ids)
	}
	victims := make(map[string]*ui.State, n)
	for _, id := range ids[:n] {
		victims[id] = s.entries[id].state
		delete(s.entries, id)
	}
	return victims
}

func (s *Store) closeAll(states map[string]*ui.State, hooks []func(id string)) {
	for id, st := range states {
		st.Close()
		for _, fn := range hooks {
			fn(id)
		}
	}
}

// Delete removes and closes the session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	e, ok := s.entries[id]
	delete(s.entries, id)
	hooks := s.onEvict
	s.mu.Unlock()
	if ok {
		e.state.Close()
		for _, fn := range hooks {
			fn(id)
		}
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep evicts sessions idle for longer than the ttl, and sessions never
// used again for longer than the probation period, and returns how many were
// removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	expired := make(map[string]*ui.State)
	for id, e := range s.entries {
		idle := now.Sub(e.lastSeen)
		if idle > s.ttl || (!e.engaged && s.probation > 0 && idle > s.probation) {
			expired[id] = e.state
			delete(s.entries, id)
		}
	}
	remaining := len(s.entries)
	hooks := s.onEvict
	s.mu.Unlock()

	s.closeAll(expired, hooks)
	if len(expired) > 0 {
		s.logger.Info("sessions evicted", zap.Int("count", len(expired)), zap.Int("remaining", remaining))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

// Close closes every state and empties the store.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	entries := s.entries
	s.entries = make(map[string]*entry)
	s.mu.Unlock()

	for _, e := range entries {
		e.state.Close()
	}
	s.logger.Info("session store closed", zap.Int("sessions", len(entries)))
}
