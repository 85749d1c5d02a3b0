package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/tackboard/tack/internal/auth"
	"github.com/tackboard/tack/internal/domain"
	"github.com/tackboard/tack/internal/events"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Users() domain.UserRepository
	Workspaces() domain.WorkspaceRepository
	Boards() domain.BoardRepository
	Lists() domain.ListRepository
	Cards() domain.CardRepository
	Comments() domain.CommentRepository
	Checklists() domain.ChecklistRepository
	Invitations() domain.InvitationRepository
	Notifications() domain.NotificationRepository
	Activity() domain.ActivityRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, *auth.TokenPair, error)
	OAuthLogin(ctx context.Context, provider, providerID, email, name, avatarURL string) (user *domain.User, pair *auth.TokenPair, isNew bool, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// EventDispatcher abstracts the event fan-out so handler tests can
// capture dispatched events. *events.Dispatcher satisfies this interface.
type EventDispatcher interface {
	Dispatch(ctx context.Context, e events.Event)
}

// Broadcaster publishes live update payloads to a pub/sub channel.
// *ws.Hub satisfies this interface.
type Broadcaster interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}
