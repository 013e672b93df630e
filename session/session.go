// File: hotelier/session/session.go
package session

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"hotelier/models"
	"hotelier/storage"
)

// Status describes the client's belief about the current identity.
type Status string

const (
	StatusAnonymous      Status = "anonymous"
	StatusAuthenticating Status = "authenticating"
	StatusAuthenticated  Status = "authenticated"
	StatusError          Status = "error"
)

// Snapshot is a read-only copy of the session state handed to UI collaborators.
type Snapshot struct {
	Token    string
	Identity *models.Identity
	Status   Status
	LastErr  string
}

// Manager owns the bearer token and identity. It is the only writer; every
// successful mutation writes through to the injected store so the session
// survives a restart. Mutations are mutex-guarded because the API client's
// refresh path may run off concurrent goroutines.
type Manager struct {
	mu       sync.RWMutex
	token    string
	identity *models.Identity
	status   Status
	lastErr  string

	store storage.Store
	log   *zap.Logger
}

// NewManager starts anonymous. Pass a MemoryStore when persistence is unwanted.
func NewManager(store storage.Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{status: StatusAnonymous, store: store, log: log}
}

// Restore loads a persisted session. A missing, corrupt or incomplete blob
// leaves the session anonymous; restore never yields a partial state.
func (m *Manager) Restore() {
	data, err := m.store.Load(storage.KeySession)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.log.Warn("session restore failed, starting anonymous", zap.Error(err))
		}
		return
	}
	var saved models.PersistedSession
	if err := json.Unmarshal(data, &saved); err != nil || saved.Token == "" || saved.Identity == nil {
		m.log.Warn("discarding corrupt persisted session")
		_ = m.store.Delete(storage.KeySession)
		return
	}
	m.mu.Lock()
	m.token = saved.Token
	m.identity = saved.Identity
	m.status = StatusAuthenticated
	m.lastErr = ""
	m.mu.Unlock()
	m.log.Debug("session restored", zap.String("user", saved.Identity.ID))
}

// Set stores the token and identity and marks the session authenticated.
func (m *Manager) Set(token string, identity *models.Identity) {
	m.mu.Lock()
	m.token = token
	m.identity = identity
	m.status = StatusAuthenticated
	m.lastErr = ""
	m.mu.Unlock()
	m.persist()
}

// UpdateToken swaps the bearer token in place after a successful refresh. The
// identity is kept. A no-op while anonymous.
func (m *Manager) UpdateToken(token string) {
	m.mu.Lock()
	if m.identity == nil {
		m.mu.Unlock()
		return
	}
	m.token = token
	m.status = StatusAuthenticated
	m.mu.Unlock()
	m.persist()
}

// Authenticating flips the status while a login call is in flight.
func (m *Manager) Authenticating() {
	m.mu.Lock()
	m.status = StatusAuthenticating
	m.mu.Unlock()
}

// Fail clears the token and records a human-readable error. The identity is
// discarded with the token: authenticated iff both are present.
func (m *Manager) Fail(reason string) {
	m.mu.Lock()
	m.token = ""
	m.identity = nil
	m.status = StatusError
	m.lastErr = reason
	m.mu.Unlock()
	_ = m.store.Delete(storage.KeySession)
}

// Clear discards the token and identity. Idempotent.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.token = ""
	m.identity = nil
	m.status = StatusAnonymous
	m.lastErr = ""
	m.mu.Unlock()
	_ = m.store.Delete(storage.KeySession)
}

// Token returns the current bearer token, empty when anonymous.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Snapshot returns a read-only copy of the session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := Snapshot{Token: m.token, Status: m.status, LastErr: m.lastErr}
	if m.identity != nil {
		id := *m.identity
		snap.Identity = &id
	}
	return snap
}

// Authenticated reports whether both token and identity are present.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != "" && m.identity != nil
}

func (m *Manager) persist() {
	m.mu.RLock()
	saved := models.PersistedSession{
		Token:    m.token,
		Identity: m.identity,
		SavedAt:  time.Now(),
	}
	m.mu.RUnlock()
	data, err := json.Marshal(saved)
	if err != nil {
		m.log.Warn("failed to marshal session", zap.Error(err))
		return
	}
	if err := m.store.Save(storage.KeySession, data); err != nil {
		m.log.Warn("failed to persist session", zap.Error(err))
	}
}
