package session

import (
	"errors"
	"sync"
	"time"

	"github.com/bryanwahyu/acne-dermatologist/internal/domain/history"
)

// ErrBusy is returned when a session already has an analysis in flight.
var ErrBusy = errors.New("an analysis is already running for this session")

// Session is the per-user state handed to the analysis workflow.
// The zero value is not usable; use New.
type Session struct {
	ID      string
	History history.Store

	busy     sync.Mutex
	mu       sync.Mutex
	lastSeen time.Time
}

func New(id string, store history.Store, now time.Time) *Session {
	return &Session{ID: id, History: store, lastSeen: now}
}

// TryBegin moves the session from Idle to Analyzing.
// It returns false if another analysis is still running.
func (s *Session) TryBegin() bool {
	return s.busy.TryLock()
}

// End moves the session back to Idle. Only call after a successful TryBegin.
func (s *Session) End() {
	s.busy.Unlock()
}

func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
