package scan

import (
	"context"
	"sync"

	"github.com/google/uuid"
	pkgerrors "github.com/stockscan/stockscan-backend/pkg/errors"
	"github.com/stockscan/stockscan-backend/pkg/logger"
)

// Manager owns the single active scan session. Starting a new session
// tears the previous one down, releasing its capability first.
type Manager struct {
	mu        sync.Mutex
	provider  CapabilityProvider
	scheduler Scheduler
	log       *logger.Logger
	opts      Options
	active    *Session
}

// NewManager builds a session manager.
func NewManager(provider CapabilityProvider, scheduler Scheduler, logg *logger.Logger, opts Options) *Manager {
	return &Manager{
		provider:  provider,
		scheduler: scheduler,
		log:       logg,
		opts:      opts,
	}
}

// StartSession replaces the active session with a fresh one.
func (m *Manager) StartSession(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	prior := m.active
	session := NewSession(m.provider, m.scheduler, m.log, m.opts)
	m.active = session
	m.mu.Unlock()

	if prior != nil {
		prior.Close()
	}
	if err := session.Start(ctx); err != nil {
		return nil, err
	}
	return session, nil
}

// Get returns the active session if the id matches.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil || m.active.ID() != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "scan session not found")
	}
	return m.active, nil
}

// Teardown closes and forgets the session with the given id.
func (m *Manager) Teardown(id uuid.UUID) error {
	m.mu.Lock()
	if m.active == nil || m.active.ID() != id {
		m.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeNotFound, "scan session not found")
	}
	session := m.active
	m.active = nil
	m.mu.Unlock()

	session.Close()
	return nil
}

// Shutdown closes whatever session is still running.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	session := m.active
	m.active = nil
	m.mu.Unlock()
	if session != nil {
		session.Close()
	}
}
