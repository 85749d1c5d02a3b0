package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationWorkspaceInvitation NotificationType = "workspace_invitation"
	NotificationInvitationAccepted  NotificationType = "invitation_accepted"
	NotificationInvitationRejected  NotificationType = "invitation_rejected"
	NotificationCommentAdded        NotificationType = "comment_added"
	NotificationCardAssigned        NotificationType = "card_assigned"
	NotificationCardMoved           NotificationType = "card_moved"
	NotificationChecklistToggled    NotificationType = "checklist_toggled"
)

// Notification is an in-app notification row. Created only by event
// handlers, mutated only by mark-read.
type Notification struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Type          NotificationType
	Title         string
	Message       string
	ReferenceID   *uuid.UUID
	ReferenceType string // "card", "invitation", "workspace"
	IsRead        bool
	CreatedAt     time.Time
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
