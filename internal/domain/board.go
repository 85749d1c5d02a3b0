package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Visibility string

const (
	VisibilityPrivate   Visibility = "private"
	VisibilityWorkspace Visibility = "workspace"
	VisibilityPublic    Visibility = "public"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityWorkspace, VisibilityPublic:
		return true
	}
	return false
}

type Board struct {
	ID              uuid.UUID
	WorkspaceID     uuid.UUID
	OwnerID         uuid.UUID
	Name            string
	Visibility      Visibility
	BackgroundImage string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type BoardRepository interface {
	Create(ctx context.Context, b *Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*Board, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*Board, error)
	Update(ctx context.Context, b *Board) error
	Delete(ctx context.Context, id uuid.UUID) error
}
