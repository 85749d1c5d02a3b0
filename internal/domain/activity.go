package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ActivityAction string

const (
	ActionCreated   ActivityAction = "created"
	ActionUpdated   ActivityAction = "updated"
	ActionDeleted   ActivityAction = "deleted"
	ActionMoved     ActivityAction = "moved"
	ActionArchived  ActivityAction = "archived"
	ActionCompleted ActivityAction = "completed"
	ActionAssigned  ActivityAction = "assigned"
	ActionCommented ActivityAction = "commented"
	ActionInvited   ActivityAction = "invited"
	ActionJoined    ActivityAction = "joined"
	ActionLeft      ActivityAction = "left"
)

type EntityType string

const (
	EntityCard      EntityType = "card"
	EntityList      EntityType = "list"
	EntityBoard     EntityType = "board"
	EntityWorkspace EntityType = "workspace"
	EntityComment   EntityType = "comment"
	EntityChecklist EntityType = "checklist_item"
	EntityMember    EntityType = "member"
)

// ActivityLog records a completed user action for the activity feeds.
// Board and workspace IDs are optional context for scoped queries.
type ActivityLog struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Action      ActivityAction
	EntityType  EntityType
	EntityID    uuid.UUID
	EntityName  string
	BoardID     *uuid.UUID
	WorkspaceID *uuid.UUID
	Details     map[string]any
	CreatedAt   time.Time
}

type ActivityRepository interface {
	Create(ctx context.Context, a *ActivityLog) error
	ListByBoard(ctx context.Context, boardID uuid.UUID, limit, offset int) ([]*ActivityLog, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID, limit, offset int) ([]*ActivityLog, error)
	ListByEntity(ctx context.Context, entityType EntityType, entityID uuid.UUID, limit, offset int) ([]*ActivityLog, error)
}
