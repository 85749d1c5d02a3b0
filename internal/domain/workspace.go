package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is a user's permission level within a workspace. The workspace
// owner is not a Role: ownership is resolved by comparing user IDs
// against Workspace.OwnerID and always wins over the role table.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleMember   Role = "member"
	RoleObserver Role = "observer"
)

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleObserver:
		return true
	}
	return false
}

type Workspace struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	IsArchived  bool
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOwner reports whether the given user owns the workspace.
func (w *Workspace) IsOwner(userID uuid.UUID) bool {
	return w.OwnerID == userID
}

type WorkspaceMember struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	UserID      uuid.UUID
	Role        Role
	CreatedAt   time.Time
}

type WorkspaceRepository interface {
	Create(ctx context.Context, w *Workspace) error
	GetByID(ctx context.Context, id uuid.UUID) (*Workspace, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Workspace, error)
	Update(ctx context.Context, w *Workspace) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// AddMember returns ErrConflict if the user is already a member.
	AddMember(ctx context.Context, m *WorkspaceMember) error
	GetMember(ctx context.Context, workspaceID, userID uuid.UUID) (*WorkspaceMember, error)
	ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]*WorkspaceMember, error)
	UpdateMemberRole(ctx context.Context, workspaceID, userID uuid.UUID, role Role) error
	RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error

	// MemberRole returns nil when the user has no member row in the
	// workspace. Absence of a role is not an error: the permission
	// layer treats it as "not a member".
	MemberRole(ctx context.Context, workspaceID, userID uuid.UUID) (*Role, error)
}
