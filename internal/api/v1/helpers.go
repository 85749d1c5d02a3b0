package v1

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	livews "github.com/tackboard/tack/internal/api/ws"
	"github.com/tackboard/tack/internal/domain"
	"github.com/tackboard/tack/internal/events"
	"github.com/tackboard/tack/internal/perm"
	"github.com/tackboard/tack/internal/server/middleware"
	redisstore "github.com/tackboard/tack/internal/store/redis"
)

// requireUser extracts the authenticated user ID from the request
// context. The auth middleware guarantees it on protected routes; a
// miss means the route was registered outside the auth group.
func requireUser(ctx context.Context) (uuid.UUID, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, huma.Error401Unauthorized("authentication required")
	}
	return userID, nil
}

// authorize loads the workspace and checks the permission matrix for
// the given action. Non-members get 403, not 404: workspace existence
// is not treated as a secret once the caller holds its ID.
func authorize(ctx context.Context, store DataStore, workspaceID, userID uuid.UUID, action perm.Action) (*domain.Workspace, error) {
	ws, err := store.Workspaces().GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("workspace not found")
		}
		return nil, huma.Error500InternalServerError("failed to load workspace")
	}

	role, err := store.Workspaces().MemberRole(ctx, workspaceID, userID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to resolve membership")
	}

	if !perm.Has(role, action, ws.IsOwner(userID)) {
		return nil, huma.Error403Forbidden("insufficient permissions")
	}

	return ws, nil
}

// boardScope resolves a board up to its workspace and authorizes the
// action against it.
func boardScope(ctx context.Context, store DataStore, boardID, userID uuid.UUID, action perm.Action) (*domain.Board, *domain.Workspace, error) {
	board, err := store.Boards().GetByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, huma.Error404NotFound("board not found")
		}
		return nil, nil, huma.Error500InternalServerError("failed to load board")
	}

	ws, err := authorize(ctx, store, board.WorkspaceID, userID, action)
	if err != nil {
		return nil, nil, err
	}

	return board, ws, nil
}

// listScope resolves a list through its board to the workspace.
func listScope(ctx context.Context, store DataStore, listID, userID uuid.UUID, action perm.Action) (*domain.BoardList, *domain.Board, *domain.Workspace, error) {
	list, err := store.Lists().GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, nil, huma.Error404NotFound("list not found")
		}
		return nil, nil, nil, huma.Error500InternalServerError("failed to load list")
	}

	board, ws, err := boardScope(ctx, store, list.BoardID, userID, action)
	if err != nil {
		return nil, nil, nil, err
	}

	return list, board, ws, nil
}

// cardScope resolves a card through list and board to the workspace.
func cardScope(ctx context.Context, store DataStore, cardID, userID uuid.UUID, action perm.Action) (*domain.Card, *domain.BoardList, *domain.Board, *domain.Workspace, error) {
	card, err := store.Cards().GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, nil, nil, huma.Error404NotFound("card not found")
		}
		return nil, nil, nil, nil, huma.Error500InternalServerError("failed to load card")
	}

	list, board, ws, err := listScope(ctx, store, card.ListID, userID, action)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return card, list, board, ws, nil
}

// cardTarget builds the event routing target for a card, fetching the
// creator's and assignee's emails. Lookup failures degrade to an empty
// slot rather than failing the request.
func cardTarget(ctx context.Context, store DataStore, card *domain.Card) events.CardTarget {
	target := events.CardTarget{}

	if creator, err := store.Users().GetByID(ctx, card.CreatedBy); err == nil {
		id := creator.ID
		target.OwnerID = &id
		target.OwnerEmail = creator.Email
	}

	if card.AssigneeID != nil {
		if assignee, err := store.Users().GetByID(ctx, *card.AssigneeID); err == nil {
			id := assignee.ID
			target.AssigneeID = &id
			target.AssigneeEmail = assignee.Email
		}
	}

	return target
}

// recordActivity writes an activity log entry. Feed writes are
// best-effort; a failure is logged and swallowed.
func recordActivity(ctx context.Context, store DataStore, a *domain.ActivityLog) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	if err := store.Activity().Create(ctx, a); err != nil {
		log.Warn().Err(err).
			Str("action", string(a.Action)).
			Str("entity_type", string(a.EntityType)).
			Msg("failed to record activity")
	}
}

// broadcastBoard publishes a live board update to the board's pub/sub
// channel. Broadcast failures are logged and swallowed; the mutation
// already committed.
func broadcastBoard(ctx context.Context, pub Broadcaster, event livews.BoardEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Warn().Err(err).Str("type", event.Type).Msg("failed to encode board event")
		return
	}

	if err := pub.Publish(ctx, redisstore.BoardChannel(event.BoardID), payload); err != nil {
		log.Warn().Err(err).Str("type", event.Type).Msg("failed to broadcast board event")
	}
}

// clampPage normalizes limit/offset query values for feed endpoints.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
