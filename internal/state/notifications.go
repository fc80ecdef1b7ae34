package state

import (
	"context"
	"time"

	"campusfind/internal/model"
	"campusfind/internal/storage"
)

// AddNotification appends a notification for a user.
func (s *Session) AddNotification(ctx context.Context, userID, message string) (*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := model.Notification{
		ID:        model.NewNotificationID(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	s.notifications = append([]model.Notification{n}, s.notifications...)
	if err := s.persist(ctx, storage.CollectionNotifications); err != nil {
		s.notifications = s.notifications[1:]
		return nil, err
	}
	return &n, nil
}

// appendNotification is AddNotification for callers already holding mu.
func (s *Session) appendNotification(ctx context.Context, userID, message string) error {
	n := model.Notification{
		ID:        model.NewNotificationID(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	s.notifications = append([]model.Notification{n}, s.notifications...)
	if err := s.persist(ctx, storage.CollectionNotifications); err != nil {
		s.notifications = s.notifications[1:]
		return err
	}
	return nil
}

// Notifications returns the session user's notifications.
func (s *Session) Notifications() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	notifs := make([]model.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if n.UserID == s.userID {
			notifs = append(notifs, n)
		}
	}
	return notifs
}

// UnreadCount returns the number of unread notifications for the
// session user.
func (s *Session) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, n := range s.notifications {
		if n.UserID == s.userID && !n.Read {
			count++
		}
	}
	return count
}

// MarkAsRead flips one notification's read flag. Notifications
// addressed to other users are invisible here, same as Notifications.
func (s *Session) MarkAsRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID != id || s.notifications[i].UserID != s.userID {
			continue
		}
		if s.notifications[i].Read {
			return nil
		}
		s.notifications[i].Read = true
		return s.persist(ctx, storage.CollectionNotifications)
	}
	return ErrNotFound
}

// MarkAllAsRead flips the read flag on all of the session user's
// notifications.
func (s *Session) MarkAllAsRead(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for i := range s.notifications {
		if s.notifications[i].UserID == s.userID && !s.notifications[i].Read {
			s.notifications[i].Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.persist(ctx, storage.CollectionNotifications)
}
