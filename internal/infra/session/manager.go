package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bryanwahyu/acne-dermatologist/internal/application"
	"github.com/bryanwahyu/acne-dermatologist/internal/domain/session"
	"github.com/bryanwahyu/acne-dermatologist/internal/infra/history"
)

const (
	DefaultTTL        = 24 * time.Hour
	defaultGCInterval = 5 * time.Minute
)

// Manager keeps every live session in memory. A session that has been idle
// longer than ttl is dropped together with its history.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	ttl      time.Duration
	clock    application.Clock
	stop     chan struct{}
	stopOnce sync.Once
}

func NewManager(ttl time.Duration, clock application.Clock) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &Manager{
		sessions: make(map[string]*session.Session),
		ttl:      ttl,
		clock:    clock,
		stop:     make(chan struct{}),
	}
}

// Get returns the session for id, creating a fresh one when id is empty,
// unknown or expired. created reports whether a new session was made.
func (m *Manager) Get(id string) (sess *session.Session, created bool) {
	now := m.clock.Now()
	if id != "" {
		m.mu.RLock()
		s, ok := m.sessions[id]
		m.mu.RUnlock()
		if ok && now.Sub(s.LastSeen()) <= m.ttl {
			s.Touch(now)
			return s, false
		}
	}

	s := session.New(uuid.New().String(), history.NewMemoryStore(), now)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, true
}

// Len returns the number of tracked sessions, expired ones included until the next sweep.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes expired sessions and returns how many were dropped.
func (m *Manager) Sweep() int {
	now := m.clock.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen()) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until Close is called.
func (m *Manager) Run(interval time.Duration) {
	if interval <= 0 {
		interval = defaultGCInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				log.Debug().Int("removed", n).Msg("expired sessions dropped")
			}
		case <-m.stop:
			return
		}
	}
}

func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}
