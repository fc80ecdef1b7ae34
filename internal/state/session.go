// Package state is the domain store: the single source of truth for the
// entity collections of each logged-in user's session, with the
// cross-entity side effects (match notifications, claim resolution)
// enforced here. Every mutation is mirrored write-through to storage.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"campusfind/internal/match"
	"campusfind/internal/model"
	"campusfind/internal/storage"
)

// Store-level errors. Lookups signal absence with nil rather than an
// error (handlers map nil to 404); these cover invariant violations.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotClaimable      = errors.New("item is not an open found item")
	ErrNotLost           = errors.New("matches are only computed for lost items")
)

// Session holds one user's in-memory entity collections. All mutations
// run under the session mutex; match evaluations run in their own
// goroutines and re-enter through AddNotification.
type Session struct {
	mu     sync.Mutex
	userID string

	db       *sql.DB
	fixtures *storage.Fixtures
	matcher  match.Matcher
	verifier match.Verifier

	users         []model.User
	items         []model.Item
	claims        []model.Claim
	notifications []model.Notification

	// Tracks in-flight match evaluations so shutdown and tests can
	// wait for their side effects.
	matching sync.WaitGroup
}

// UserID returns the id of the session's user.
func (s *Session) UserID() string {
	return s.userID
}

// User returns the session's user record.
func (s *Session) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUser(s.userID)
}

// findUser looks up a user in the session's collection. Caller holds mu.
func (s *Session) findUser(id string) *model.User {
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u
		}
	}
	return nil
}

// UpdateProfile changes the session user's display name and avatar.
// Identity, email, and role are not touched.
func (s *Session) UpdateProfile(ctx context.Context, name, avatarURL string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID != s.userID {
			continue
		}
		if name != "" {
			s.users[i].Name = name
		}
		if avatarURL != "" {
			s.users[i].AvatarURL = avatarURL
		}
		if err := s.persist(ctx, storage.CollectionUsers); err != nil {
			return nil, err
		}
		u := s.users[i]
		return &u, nil
	}
	return nil, ErrNotFound
}

// persist mirrors one collection to storage. Caller holds mu.
func (s *Session) persist(ctx context.Context, name string) error {
	var v any
	switch name {
	case storage.CollectionUsers:
		v = s.users
	case storage.CollectionItems:
		v = s.items
	case storage.CollectionClaims:
		v = s.claims
	case storage.CollectionNotifications:
		v = s.notifications
	default:
		return fmt.Errorf("unknown collection %q", name)
	}
	if err := storage.SaveCollection(ctx, s.db, s.userID, name, v); err != nil {
		return fmt.Errorf("mirroring %s: %w", name, err)
	}
	return nil
}

// Wait blocks until all in-flight match evaluations have finished.
func (s *Session) Wait() {
	s.matching.Wait()
}

// hydrate loads each collection from storage, seeding from fixtures when
// nothing is stored. A corrupt stored value falls back to the fixtures
// and is immediately overwritten.
func (s *Session) hydrate(ctx context.Context) error {
	for _, name := range storage.CollectionNames {
		var dest any
		switch name {
		case storage.CollectionUsers:
			dest = &s.users
		case storage.CollectionItems:
			dest = &s.items
		case storage.CollectionClaims:
			dest = &s.claims
		case storage.CollectionNotifications:
			dest = &s.notifications
		}

		found, err := storage.LoadCollection(ctx, s.db, s.userID, name, dest)
		if errors.Is(err, storage.ErrCorrupt) {
			slog.Warn("stored collection unreadable, reseeding", "session", s.userID, "collection", name, "error", err)
			found = false
		} else if err != nil {
			// A read failure is not corruption; reseeding here would
			// overwrite good persisted state.
			return fmt.Errorf("hydrating session: %w", err)
		}
		if found {
			continue
		}

		s.seed(name)
		if err := s.persist(ctx, name); err != nil {
			return fmt.Errorf("hydrating session: %w", err)
		}
	}
	return nil
}

// seed resets one collection to its fixture state.
func (s *Session) seed(name string) {
	switch name {
	case storage.CollectionUsers:
		s.users = s.fixtures.Collection(name).([]model.User)
	case storage.CollectionItems:
		s.items = s.fixtures.Collection(name).([]model.Item)
	case storage.CollectionClaims:
		s.claims = s.fixtures.Collection(name).([]model.Claim)
	case storage.CollectionNotifications:
		s.notifications = s.fixtures.Collection(name).([]model.Notification)
	}
}
