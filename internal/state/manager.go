package state

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"campusfind/internal/match"
	"campusfind/internal/model"
	"campusfind/internal/storage"
)

// Manager owns the per-user sessions. It is the composition root's
// handle to all domain state: handlers receive a Session from it and
// never touch globals.
type Manager struct {
	mu       sync.Mutex
	db       *sql.DB
	fixtures *storage.Fixtures
	matcher  match.Matcher
	verifier match.Verifier
	sessions map[string]*Session
}

// NewManager creates a session manager backed by the given database and
// collaborators.
func NewManager(db *sql.DB, fixtures *storage.Fixtures, matcher match.Matcher, verifier match.Verifier) *Manager {
	return &Manager{
		db:       db,
		fixtures: fixtures,
		matcher:  matcher,
		verifier: verifier,
		sessions: make(map[string]*Session),
	}
}

// Login resolves an email (case-insensitive) against the known accounts
// and hydrates that user's session. Returns nil if no account matches.
func (m *Manager) Login(ctx context.Context, email string) (*Session, error) {
	var user *model.User
	for i := range m.fixtures.Users {
		if strings.EqualFold(m.fixtures.Users[i].Email, email) {
			user = &m.fixtures.Users[i]
			break
		}
	}
	if user == nil {
		return nil, nil
	}
	return m.Session(ctx, user.ID)
}

// Session returns the hydrated session for a user id, creating it on
// first use (e.g. a valid token presented after a server restart).
func (m *Manager) Session(ctx context.Context, userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		return s, nil
	}

	s := &Session{
		userID:   userID,
		db:       m.db,
		fixtures: m.fixtures,
		matcher:  m.matcher,
		verifier: m.verifier,
	}
	if err := s.hydrate(ctx); err != nil {
		return nil, fmt.Errorf("creating session for %s: %w", userID, err)
	}

	m.sessions[userID] = s
	return s, nil
}

// Logout clears the user's persisted collections and discards the
// in-memory session, so the next login starts from the seed fixtures.
func (m *Manager) Logout(ctx context.Context, userID string) error {
	m.mu.Lock()
	s := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()

	if s != nil {
		s.Wait()
	}
	if err := storage.ClearSession(ctx, m.db, userID); err != nil {
		return fmt.Errorf("logging out %s: %w", userID, err)
	}
	return nil
}

// Close waits for all sessions' in-flight match evaluations.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Wait()
	}
}
