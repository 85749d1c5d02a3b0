package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BoardList is an ordered column on a board. Position is a float sort
// key; siblings are ordered by (position, created_at) so equal
// positions still iterate deterministically.
type BoardList struct {
	ID         uuid.UUID
	BoardID    uuid.UUID
	Name       string
	Position   float64
	IsArchived bool
	IsDeleted  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ListRepository interface {
	Create(ctx context.Context, l *BoardList) error
	GetByID(ctx context.Context, id uuid.UUID) (*BoardList, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*BoardList, error)
	Update(ctx context.Context, l *BoardList) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// MaxPosition returns the highest position among active lists on
	// the board, with ok=false when the board has none.
	MaxPosition(ctx context.Context, boardID uuid.UUID) (pos float64, ok bool, err error)
}
