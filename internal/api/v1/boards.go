package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/tackboard/tack/internal/domain"
	"github.com/tackboard/tack/internal/perm"
)

type CreateBoardInput struct {
	Body struct {
		WorkspaceID     uuid.UUID         `json:"workspace_id" doc:"Workspace ID"`
		Name            string            `json:"name" minLength:"1" maxLength:"255" doc:"Board name"`
		Visibility      domain.Visibility `json:"visibility,omitempty" enum:"private,workspace,public" doc:"Board visibility (default workspace)"`
		BackgroundImage string            `json:"background_image,omitempty" maxLength:"1024" doc:"Background image URL or upload name"`
	}
}

type CreateBoardOutput struct {
	Body *domain.Board
}

type ListBoardsInput struct {
	WorkspaceID uuid.UUID `query:"workspace_id" required:"true" doc:"Workspace ID"`
}

type ListBoardsOutput struct {
	Body []*domain.Board
}

type GetBoardInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

type GetBoardOutput struct {
	Body *domain.Board
}

type UpdateBoardInput struct {
	ID   uuid.UUID `path:"id" doc:"Board ID"`
	Body struct {
		Name            *string            `json:"name,omitempty" maxLength:"255" doc:"Board name"`
		Visibility      *domain.Visibility `json:"visibility,omitempty" enum:"private,workspace,public" doc:"Board visibility"`
		BackgroundImage *string            `json:"background_image,omitempty" maxLength:"1024" doc:"Background image URL or upload name"`
	}
}

type UpdateBoardOutput struct {
	Body *domain.Board
}

type DeleteBoardInput struct {
	ID uuid.UUID `path:"id" doc:"Board ID"`
}

func RegisterBoardRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-board",
		Method:      http.MethodPost,
		Path:        "/boards",
		Summary:     "Create a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *CreateBoardInput) (*CreateBoardOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		ws, err := authorize(ctx, store, input.Body.WorkspaceID, userID, perm.ActionCreateBoard)
		if err != nil {
			return nil, err
		}

		visibility := input.Body.Visibility
		if visibility == "" {
			visibility = domain.VisibilityWorkspace
		}
		if !visibility.Valid() {
			return nil, huma.Error400BadRequest("invalid visibility")
		}

		now := time.Now()
		board := &domain.Board{
			ID:              uuid.New(),
			WorkspaceID:     ws.ID,
			OwnerID:         userID,
			Name:            input.Body.Name,
			Visibility:      visibility,
			BackgroundImage: input.Body.BackgroundImage,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if err := store.Boards().Create(ctx, board); err != nil {
			return nil, huma.Error500InternalServerError("failed to create board", err)
		}

		recordActivity(ctx, store, &domain.ActivityLog{
			UserID:      userID,
			Action:      domain.ActionCreated,
			EntityType:  domain.EntityBoard,
			EntityID:    board.ID,
			EntityName:  board.Name,
			BoardID:     &board.ID,
			WorkspaceID: &ws.ID,
		})

		return &CreateBoardOutput{Body: board}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-boards",
		Method:      http.MethodGet,
		Path:        "/boards",
		Summary:     "List boards in a workspace",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *ListBoardsInput) (*ListBoardsOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		if _, err := authorize(ctx, store, input.WorkspaceID, userID, perm.ActionViewBoard); err != nil {
			return nil, err
		}

		boards, err := store.Boards().ListByWorkspace(ctx, input.WorkspaceID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list boards", err)
		}

		return &ListBoardsOutput{Body: boards}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/boards/{id}",
		Summary:     "Get a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *GetBoardInput) (*GetBoardOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		board, _, err := boardScope(ctx, store, input.ID, userID, perm.ActionViewBoard)
		if err != nil {
			return nil, err
		}

		return &GetBoardOutput{Body: board}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-board",
		Method:      http.MethodPatch,
		Path:        "/boards/{id}",
		Summary:     "Update a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *UpdateBoardInput) (*UpdateBoardOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		board, ws, err := boardScope(ctx, store, input.ID, userID, perm.ActionEditBoard)
		if err != nil {
			return nil, err
		}

		if input.Body.Name != nil {
			if *input.Body.Name == "" {
				return nil, huma.Error400BadRequest("name cannot be empty")
			}
			board.Name = *input.Body.Name
		}
		if input.Body.Visibility != nil {
			if !input.Body.Visibility.Valid() {
				return nil, huma.Error400BadRequest("invalid visibility")
			}
			board.Visibility = *input.Body.Visibility
		}
		if input.Body.BackgroundImage != nil {
			board.BackgroundImage = *input.Body.BackgroundImage
		}
		board.UpdatedAt = time.Now()

		if err := store.Boards().Update(ctx, board); err != nil {
			return nil, huma.Error500InternalServerError("failed to update board", err)
		}

		recordActivity(ctx, store, &domain.ActivityLog{
			UserID:      userID,
			Action:      domain.ActionUpdated,
			EntityType:  domain.EntityBoard,
			EntityID:    board.ID,
			EntityName:  board.Name,
			BoardID:     &board.ID,
			WorkspaceID: &ws.ID,
		})

		return &UpdateBoardOutput{Body: board}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-board",
		Method:      http.MethodDelete,
		Path:        "/boards/{id}",
		Summary:     "Delete a board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, input *DeleteBoardInput) (*struct{}, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		board, ws, err := boardScope(ctx, store, input.ID, userID, perm.ActionDeleteBoard)
		if err != nil {
			return nil, err
		}

		if err := store.Boards().Delete(ctx, board.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete board", err)
		}

		recordActivity(ctx, store, &domain.ActivityLog{
			UserID:      userID,
			Action:      domain.ActionDeleted,
			EntityType:  domain.EntityBoard,
			EntityID:    board.ID,
			EntityName:  board.Name,
			WorkspaceID: &ws.ID,
		})

		return nil, nil
	})
}
