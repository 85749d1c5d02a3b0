// Package events connects completed domain actions to their side
// effects: in-app notification rows and queued emails. Dispatch is
// synchronous and best-effort; a failing handler never fails the
// request that triggered it.
package events

import "github.com/google/uuid"

// Kind identifies a concrete event type. Dispatch matches kinds
// exactly; there is no hierarchy.
type Kind string

const (
	KindCardMoved           Kind = "card_moved"
	KindCommentAdded        Kind = "comment_added"
	KindChecklistToggled    Kind = "checklist_toggled"
	KindCardAssigned        Kind = "card_assigned"
	KindInvitationSent      Kind = "invitation_sent"
	KindInvitationResponded Kind = "invitation_responded"
	KindWelcome             Kind = "welcome"
)

// Event is an immutable description of something that already
// happened. Events are built by the API layer, dispatched once, never
// persisted.
type Event interface {
	EventKind() Kind
}

// CardTarget carries the card creator and assignee a card-scoped event
// can be routed to. Either side may be absent.
type CardTarget struct {
	OwnerID       *uuid.UUID
	OwnerEmail    string
	AssigneeID    *uuid.UUID
	AssigneeEmail string
}

// Recipient resolves the notification target: assignee when set,
// otherwise the card creator. ok is false when neither is known.
func (t CardTarget) Recipient() (id uuid.UUID, email string, ok bool) {
	if t.AssigneeID != nil {
		return *t.AssigneeID, t.AssigneeEmail, true
	}
	if t.OwnerID != nil {
		return *t.OwnerID, t.OwnerEmail, true
	}
	return uuid.Nil, "", false
}

// CardMoved fires when a card changes list.
type CardMoved struct {
	CardID      uuid.UUID
	CardTitle   string
	OldListName string
	NewListName string
	MovedByID   uuid.UUID
	MovedByName string
	Target      CardTarget
}

func (CardMoved) EventKind() Kind { return KindCardMoved }

// CommentAdded fires when a comment is posted on a card.
type CommentAdded struct {
	CardID        uuid.UUID
	CardTitle     string
	Content       string
	CommenterID   uuid.UUID
	CommenterName string
	Target        CardTarget
}

func (CommentAdded) EventKind() Kind { return KindCommentAdded }

// ChecklistToggled fires when a checklist item is checked or unchecked.
type ChecklistToggled struct {
	CardID        uuid.UUID
	CardTitle     string
	ItemTitle     string
	IsCompleted   bool
	ToggledByID   uuid.UUID
	ToggledByName string
	Target        CardTarget
}

func (ChecklistToggled) EventKind() Kind { return KindChecklistToggled }

// CardAssigned fires when a card is assigned to a user.
type CardAssigned struct {
	CardID         uuid.UUID
	CardTitle      string
	AssignedByID   uuid.UUID
	AssignedByName string
	AssigneeID     uuid.UUID
	AssigneeEmail  string
}

func (CardAssigned) EventKind() Kind { return KindCardAssigned }

// InvitationSent fires when a workspace invitation is created. The
// recipient is always the invitee.
type InvitationSent struct {
	InvitationID  uuid.UUID
	WorkspaceID   uuid.UUID
	WorkspaceName string
	InviterID     uuid.UUID
	InviterName   string
	InviteeID     uuid.UUID
	InviteeEmail  string
}

func (InvitationSent) EventKind() Kind { return KindInvitationSent }

// InvitationResponded fires when an invitation is accepted or
// rejected. The recipient is always the original inviter.
type InvitationResponded struct {
	InvitationID  uuid.UUID
	WorkspaceID   uuid.UUID
	WorkspaceName string
	Accepted      bool
	ResponderID   uuid.UUID
	ResponderName string
	InviterID     uuid.UUID
}

func (InvitationResponded) EventKind() Kind { return KindInvitationResponded }

// Welcome fires on first signup or first OAuth login. Email only, no
// in-app notification.
type Welcome struct {
	UserID    uuid.UUID
	UserEmail string
}

func (Welcome) EventKind() Kind { return KindWelcome }
