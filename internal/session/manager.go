package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/feral-file/habitat-tracker/internal/adapter"
	"github.com/feral-file/habitat-tracker/internal/metrics"
	"github.com/feral-file/habitat-tracker/internal/query"
)

// Config holds session manager settings
type Config struct {
	MaxSessions  int
	TTL          time.Duration
	QueryTimeout time.Duration
}

// Manager holds a bounded set of sessions. Sessions idle for longer than the TTL, or
// least recently used once the bound is reached, are evicted and their query cancelled.
type Manager struct {
	orchestrator query.Orchestrator
	clock        adapter.Clock
	config       Config
	sessions     *expirable.LRU[string, *Session]
}

// NewManager creates a session manager
func NewManager(orchestrator query.Orchestrator, clock adapter.Clock, cfg Config) *Manager {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1024
	}

	onEvict := func(_ string, s *Session) {
		s.close()
		metrics.ActiveSessions.Dec()
	}

	return &Manager{
		orchestrator: orchestrator,
		clock:        clock,
		config:       cfg,
		sessions:     expirable.NewLRU[string, *Session](cfg.MaxSessions, onEvict, cfg.TTL),
	}
}

// Create starts a new empty session
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.orchestrator, m.clock, m.config.QueryTimeout)
	m.sessions.Add(s.id, s)
	metrics.ActiveSessions.Inc()
	return s
}

// Get returns a session and renews its TTL
func (m *Manager) Get(id string) (*Session, bool) {
	s, ok := m.sessions.Get(id)
	if !ok {
		return nil, false
	}
	m.sessions.Add(id, s)
	return s, true
}

// Remove closes and forgets a session
func (m *Manager) Remove(id string) bool {
	return m.sessions.Remove(id)
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	return m.sessions.Len()
}

// Close removes every session
func (m *Manager) Close() {
	m.sessions.Purge()
}
