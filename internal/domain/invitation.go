package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
	// InvitationExpired is a reachable status in the schema but nothing
	// transitions into it automatically; expires_at is informational.
	InvitationExpired InvitationStatus = "expired"
)

// ErrAlreadyResponded is returned when responding to an invitation that
// is no longer pending. Accepted and rejected are terminal.
var ErrAlreadyResponded = errors.New("domain: invitation already responded")

// ErrNotInvitee is returned when someone other than the designated
// invitee tries to respond to an invitation.
var ErrNotInvitee = errors.New("domain: invitation addressed to another user")

type Invitation struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	InviterID   uuid.UUID
	InviteeID   uuid.UUID
	Role        Role
	Message     string
	Status      InvitationStatus
	CreatedAt   time.Time
	RespondedAt *time.Time
	ExpiresAt   *time.Time
}

// CanRespond checks the transition guard: only the invitee may respond,
// and only while the invitation is pending.
func (i *Invitation) CanRespond(userID uuid.UUID) error {
	if i.InviteeID != userID {
		return ErrNotInvitee
	}
	if i.Status != InvitationPending {
		return ErrAlreadyResponded
	}
	return nil
}

type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invitation, error)
	ListForInvitee(ctx context.Context, inviteeID uuid.UUID, status InvitationStatus) ([]*Invitation, error)
	ListSent(ctx context.Context, inviterID uuid.UUID) ([]*Invitation, error)
	GetPending(ctx context.Context, workspaceID, inviteeID uuid.UUID) (*Invitation, error)

	// Respond transitions a pending invitation to accepted or rejected.
	// On accept the workspace member row is created in the same
	// transaction. Returns ErrAlreadyResponded when the row is no
	// longer pending (e.g. a concurrent respond won).
	Respond(ctx context.Context, id uuid.UUID, accept bool) (*Invitation, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
