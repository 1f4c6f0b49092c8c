package server

import (
	"sync"
	"time"

	"github.com/joseph-ayodele/pdf-analyst/internal/session"
)

type storeEntry struct {
	run      sync.Mutex // serializes actions within one session
	state    session.State
	busy     session.Action
	lastSeen time.Time
}

// MemoryStore keeps session state in process memory. A restart loses every
// session.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*storeEntry
	newState func() session.State
	now      func() time.Time
}

func NewMemoryStore(newState func() session.State) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*storeEntry),
		newState: newState,
		now:      time.Now,
	}
}

func (s *MemoryStore) entry(id string) *storeEntry {
	e, ok := s.sessions[id]
	if !ok {
		e = &storeEntry{state: s.newState()}
		s.sessions[id] = e
	}
	e.lastSeen = s.now()
	return e
}

// Get returns the current state of session id, creating it on first use.
// While an action runs the returned state has Busy set.
func (s *MemoryStore) Get(id string) session.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(id)
	st := e.state
	st.Busy = e.busy
	return st
}

// Update runs fn against the current state of session id and stores its
// result. Calls for the same session run one at a time; readers see the
// previous state until fn returns.
func (s *MemoryStore) Update(id string, action session.Action, fn func(session.State) session.State) session.State {
	s.mu.Lock()
	e := s.entry(id)
	s.mu.Unlock()

	e.run.Lock()
	defer e.run.Unlock()

	s.mu.Lock()
	e.busy = action
	cur := e.state
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		e.busy = ""
		e.lastSeen = s.now()
		s.mu.Unlock()
	}()

	next := fn(cur)

	s.mu.Lock()
	e.state = next
	s.mu.Unlock()
	return next
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were removed. Sessions with an action in progress are kept.
func (s *MemoryStore) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-maxIdle)
	n := 0
	for id, e := range s.sessions {
		if e.busy == "" && e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Len reports the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
