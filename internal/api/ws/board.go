package ws

import "github.com/google/uuid"

// BoardEvent represents a real-time board update.
type BoardEvent struct {
	Type    string    `json:"type"` // "card_created", "card_updated", "card_moved", "card_deleted", "list_changed"
	CardID  uuid.UUID `json:"card_id,omitempty"`
	BoardID uuid.UUID `json:"board_id"`
	Data    any       `json:"data,omitempty"`
}
