package ws

import (
	"time"

	"github.com/google/uuid"
)

// UserEvent represents a real-time notification pushed to a single
// user's stream.
type UserEvent struct {
	Type      string    `json:"type"` // "notification", "unread_count"
	UserID    uuid.UUID `json:"user_id"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
