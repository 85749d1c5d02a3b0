package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CardComment struct {
	ID        uuid.UUID
	CardID    uuid.UUID
	AuthorID  uuid.UUID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CommentRepository interface {
	Create(ctx context.Context, c *CardComment) error
	GetByID(ctx context.Context, id uuid.UUID) (*CardComment, error)
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*CardComment, error)
	Update(ctx context.Context, c *CardComment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
