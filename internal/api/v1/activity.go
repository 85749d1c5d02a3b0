package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/tackboard/tack/internal/domain"
	"github.com/tackboard/tack/internal/perm"
)

type BoardActivityInput struct {
	ID     uuid.UUID `path:"id" doc:"Board ID"`
	Limit  int       `query:"limit" minimum:"0" maximum:"100" doc:"Page size (default 50)"`
	Offset int       `query:"offset" minimum:"0" doc:"Page offset"`
}

type WorkspaceActivityInput struct {
	ID     uuid.UUID `path:"id" doc:"Workspace ID"`
	Limit  int       `query:"limit" minimum:"0" maximum:"100" doc:"Page size (default 50)"`
	Offset int       `query:"offset" minimum:"0" doc:"Page offset"`
}

type CardActivityInput struct {
	ID     uuid.UUID `path:"id" doc:"Card ID"`
	Limit  int       `query:"limit" minimum:"0" maximum:"100" doc:"Page size (default 50)"`
	Offset int       `query:"offset" minimum:"0" doc:"Page offset"`
}

type ActivityOutput struct {
	Body []*domain.ActivityLog
}

// RegisterActivityRoutes registers the read side of the activity feed.
// Writes happen inline in the mutating handlers.
func RegisterActivityRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "board-activity",
		Method:      http.MethodGet,
		Path:        "/boards/{id}/activity",
		Summary:     "List a board's activity newest first",
		Tags:        []string{"Activity"},
	}, func(ctx context.Context, input *BoardActivityInput) (*ActivityOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		board, _, err := boardScope(ctx, store, input.ID, userID, perm.ActionViewBoard)
		if err != nil {
			return nil, err
		}

		limit, offset := clampPage(input.Limit, input.Offset)

		entries, err := store.Activity().ListByBoard(ctx, board.ID, limit, offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list activity", err)
		}

		return &ActivityOutput{Body: entries}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "workspace-activity",
		Method:      http.MethodGet,
		Path:        "/workspaces/{id}/activity",
		Summary:     "List a workspace's activity newest first",
		Tags:        []string{"Activity"},
	}, func(ctx context.Context, input *WorkspaceActivityInput) (*ActivityOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		ws, err := authorize(ctx, store, input.ID, userID, perm.ActionViewBoard)
		if err != nil {
			return nil, err
		}

		limit, offset := clampPage(input.Limit, input.Offset)

		entries, err := store.Activity().ListByWorkspace(ctx, ws.ID, limit, offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list activity", err)
		}

		return &ActivityOutput{Body: entries}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "card-activity",
		Method:      http.MethodGet,
		Path:        "/cards/{id}/activity",
		Summary:     "List a card's activity newest first",
		Tags:        []string{"Activity"},
	}, func(ctx context.Context, input *CardActivityInput) (*ActivityOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		card, _, _, _, err := cardScope(ctx, store, input.ID, userID, perm.ActionViewBoard)
		if err != nil {
			return nil, err
		}

		limit, offset := clampPage(input.Limit, input.Offset)

		entries, err := store.Activity().ListByEntity(ctx, domain.EntityCard, card.ID, limit, offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list activity", err)
		}

		return &ActivityOutput{Body: entries}, nil
	})
}
