package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ChecklistItem struct {
	ID          uuid.UUID
	CardID      uuid.UUID
	Title       string
	IsCompleted bool
	Position    float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ChecklistRepository interface {
	Create(ctx context.Context, item *ChecklistItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*ChecklistItem, error)
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*ChecklistItem, error)
	Update(ctx context.Context, item *ChecklistItem) error
	Delete(ctx context.Context, id uuid.UUID) error

	// SetCompleted flips the completion flag and returns the updated item.
	SetCompleted(ctx context.Context, id uuid.UUID, completed bool) (*ChecklistItem, error)

	MaxPosition(ctx context.Context, cardID uuid.UUID) (pos float64, ok bool, err error)
}
