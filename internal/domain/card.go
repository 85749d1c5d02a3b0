package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Card struct {
	ID          uuid.UUID
	ListID      uuid.UUID
	Title       string
	Description string
	Position    float64
	DueDate     *time.Time
	CoverImage  string
	CreatedBy   uuid.UUID
	AssigneeID  *uuid.UUID
	IsArchived  bool
	IsDeleted   bool
	DeletedAt   *time.Time
	DeletedBy   *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CardRepository interface {
	Create(ctx context.Context, c *Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*Card, error)
	ListByList(ctx context.Context, listID uuid.UUID) ([]*Card, error)
	Update(ctx context.Context, c *Card) error
	Move(ctx context.Context, id, listID uuid.UUID, position float64) error
	SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) error

	MaxPosition(ctx context.Context, listID uuid.UUID) (pos float64, ok bool, err error)
}
