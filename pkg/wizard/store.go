package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type session struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Store keeps one Controller per browser session in memory. Sessions idle
// for longer than the TTL are dropped.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
	factory  func() *Controller
}

func NewStore(ttl time.Duration, factory func() *Controller) *Store {
	return &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
		factory:  factory,
	}
}

// Get returns the controller of id and marks the session as used.
func (s *Store) Get(id string) (*Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(sess.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}
	sess.lastSeen = now
	return sess.ctrl, true
}

// Create starts a new session.
func (s *Store) Create() (string, *Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	id := uuid.NewString()
	ctrl := s.factory()
	s.sessions[id] = &session{ctrl: ctrl, lastSeen: s.now()}
	return id, ctrl
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) sweep() {
	now := s.now()
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
