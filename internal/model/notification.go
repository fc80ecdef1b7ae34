package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification represents a per-user message emitted as a side effect
// of matching or claim resolution. Only the read flag ever mutates.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	Read      bool      `json:"read"`
}

// NewNotificationID generates a unique notification identifier.
func NewNotificationID() string {
	return "notif-" + uuid.NewString()
}
