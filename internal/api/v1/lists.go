package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	livews "github.com/tackboard/tack/internal/api/ws"
	"github.com/tackboard/tack/internal/domain"
	"github.com/tackboard/tack/internal/perm"
	"github.com/tackboard/tack/internal/position"
)

type CreateListInput struct {
	Body struct {
		BoardID  uuid.UUID `json:"board_id" doc:"Board ID"`
		Name     string    `json:"name" minLength:"1" maxLength:"255" doc:"List name"`
		Position *float64  `json:"position,omitempty" doc:"Explicit sort key; appended when omitted"`
	}
}

type CreateListOutput struct {
	Body *domain.BoardList
}

type ListListsInput struct {
	BoardID uuid.UUID `query:"board_id" required:"true" doc:"Board ID"`
}

type ListListsOutput struct {
	Body []*domain.BoardList
}

type UpdateListInput struct {
	ID   uuid.UUID `path:"id" doc:"List ID"`
	Body struct {
		Name       *string  `json:"name,omitempty" maxLength:"255" doc:"List name"`
		Position   *float64 `json:"position,omitempty" doc:"Sort key"`
		IsArchived *bool    `json:"is_archived,omitempty" doc:"Archive flag"`
	}
}

type UpdateListOutput struct {
	Body *domain.BoardList
}

type DeleteListInput struct {
	ID uuid.UUID `path:"id" doc:"List ID"`
}

func RegisterListRoutes(api huma.API, store DataStore, broadcaster Broadcaster) {
	huma.Register(api, huma.Operation{
		OperationID: "create-list",
		Method:      http.MethodPost,
		Path:        "/lists",
		Summary:     "Create a list on a board",
		Tags:        []string{"Lists"},
	}, func(ctx context.Context, input *CreateListInput) (*CreateListOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		board, ws, err := boardScope(ctx, store, input.Body.BoardID, userID, perm.ActionCreateList)
		if err != nil {
			return nil, err
		}

		var pos float64
		switch {
		case input.Body.Position != nil:
			pos = *input.Body.Position
		default:
			maxPos, ok, err := store.Lists().MaxPosition(ctx, board.ID)
			if err != nil {
				return nil, huma.Error500InternalServerError("failed to compute position", err)
			}
			if ok {
				pos = position.Next(maxPos)
			} else {
				pos = position.First()
			}
		}

		now := time.Now()
		list := &domain.BoardList{
			ID:        uuid.New(),
			BoardID:   board.ID,
			Name:      input.Body.Name,
			Position:  pos,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Lists().Create(ctx, list); err != nil {
			return nil, huma.Error500InternalServerError("failed to create list", err)
		}

		recordActivity(ctx, store, &domain.ActivityLog{
			UserID:      userID,
			Action:      domain.ActionCreated,
			EntityType:  domain.EntityList,
			EntityID:    list.ID,
			EntityName:  list.Name,
			BoardID:     &board.ID,
			WorkspaceID: &ws.ID,
		})

		broadcastBoard(ctx, broadcaster, livews.BoardEvent{Type: "list_changed", BoardID: board.ID, Data: list})

		return &CreateListOutput{Body: list}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-lists",
		Method:      http.MethodGet,
		Path:        "/lists",
		Summary:     "List the lists on a board in order",
		Tags:        []string{"Lists"},
	}, func(ctx context.Context, input *ListListsInput) (*ListListsOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		board, _, err := boardScope(ctx, store, input.BoardID, userID, perm.ActionViewBoard)
		if err != nil {
			return nil, err
		}

		lists, err := store.Lists().ListByBoard(ctx, board.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list lists", err)
		}

		return &ListListsOutput{Body: lists}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-list",
		Method:      http.MethodPatch,
		Path:        "/lists/{id}",
		Summary:     "Update a list",
		Tags:        []string{"Lists"},
	}, func(ctx context.Context, input *UpdateListInput) (*UpdateListOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		list, board, ws, err := listScope(ctx, store, input.ID, userID, perm.ActionEditList)
		if err != nil {
			return nil, err
		}

		if input.Body.Name != nil {
			if *input.Body.Name == "" {
				return nil, huma.Error400BadRequest("name cannot be empty")
			}
			list.Name = *input.Body.Name
		}
		if input.Body.Position != nil {
			list.Position = *input.Body.Position
		}
		if input.Body.IsArchived != nil {
			list.IsArchived = *input.Body.IsArchived
		}
		list.UpdatedAt = time.Now()

		if err := store.Lists().Update(ctx, list); err != nil {
			return nil, huma.Error500InternalServerError("failed to update list", err)
		}

		recordActivity(ctx, store, &domain.ActivityLog{
			UserID:      userID,
			Action:      domain.ActionUpdated,
			EntityType:  domain.EntityList,
			EntityID:    list.ID,
			EntityName:  list.Name,
			BoardID:     &board.ID,
			WorkspaceID: &ws.ID,
		})

		broadcastBoard(ctx, broadcaster, livews.BoardEvent{Type: "list_changed", BoardID: board.ID, Data: list})

		return &UpdateListOutput{Body: list}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-list",
		Method:      http.MethodDelete,
		Path:        "/lists/{id}",
		Summary:     "Delete a list",
		Tags:        []string{"Lists"},
	}, func(ctx context.Context, input *DeleteListInput) (*struct{}, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		list, board, ws, err := listScope(ctx, store, input.ID, userID, perm.ActionDeleteList)
		if err != nil {
			return nil, err
		}

		if err := store.Lists().SoftDelete(ctx, list.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete list", err)
		}

		recordActivity(ctx, store, &domain.ActivityLog{
			UserID:      userID,
			Action:      domain.ActionDeleted,
			EntityType:  domain.EntityList,
			EntityID:    list.ID,
			EntityName:  list.Name,
			BoardID:     &board.ID,
			WorkspaceID: &ws.ID,
		})

		broadcastBoard(ctx, broadcaster, livews.BoardEvent{Type: "list_changed", BoardID: board.ID})

		return nil, nil
	})
}
