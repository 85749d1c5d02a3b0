package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/tackboard/tack/internal/domain"
	"github.com/tackboard/tack/internal/events"
	"github.com/tackboard/tack/internal/perm"
	"github.com/tackboard/tack/internal/position"
)

type CreateChecklistItemInput struct {
	Body struct {
		CardID   uuid.UUID `json:"card_id" doc:"Card ID"`
		Title    string    `json:"title" minLength:"1" maxLength:"500" doc:"Item title"`
		Position *float64  `json:"position,omitempty" doc:"Explicit sort key; appended when omitted"`
	}
}

type CreateChecklistItemOutput struct {
	Body *domain.ChecklistItem
}

type ListChecklistItemsInput struct {
	CardID uuid.UUID `query:"card_id" required:"true" doc:"Card ID"`
}

type ListChecklistItemsOutput struct {
	Body []*domain.ChecklistItem
}

type UpdateChecklistItemInput struct {
	ID   uuid.UUID `path:"id" doc:"Checklist item ID"`
	Body struct {
		Title    *string  `json:"title,omitempty" maxLength:"500" doc:"Item title"`
		Position *float64 `json:"position,omitempty" doc:"Sort key"`
	}
}

type UpdateChecklistItemOutput struct {
	Body *domain.ChecklistItem
}

type ToggleChecklistItemInput struct {
	ID   uuid.UUID `path:"id" doc:"Checklist item ID"`
	Body struct {
		IsCompleted bool `json:"is_completed" doc:"Completion state"`
	}
}

type ToggleChecklistItemOutput struct {
	Body *domain.ChecklistItem
}

type DeleteChecklistItemInput struct {
	ID uuid.UUID `path:"id" doc:"Checklist item ID"`
}

func RegisterChecklistRoutes(api huma.API, store DataStore, dispatcher EventDispatcher) {
	huma.Register(api, huma.Operation{
		OperationID: "create-checklist-item",
		Method:      http.MethodPost,
		Path:        "/checklist-items",
		Summary:     "Add a checklist item to a card",
		Tags:        []string{"Checklists"},
	}, func(ctx context.Context, input *CreateChecklistItemInput) (*CreateChecklistItemOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		card, _, _, _, err := cardScope(ctx, store, input.Body.CardID, userID, perm.ActionCreateChecklist)
		if err != nil {
			return nil, err
		}

		var pos float64
		switch {
		case input.Body.Position != nil:
			pos = *input.Body.Position
		default:
			maxPos, ok, err := store.Checklists().MaxPosition(ctx, card.ID)
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
		item := &domain.ChecklistItem{
			ID:        uuid.New(),
			CardID:    card.ID,
			Title:     input.Body.Title,
			Position:  pos,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Checklists().Create(ctx, item); err != nil {
			return nil, huma.Error500InternalServerError("failed to create checklist item", err)
		}

		return &CreateChecklistItemOutput{Body: item}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-checklist-items",
		Method:      http.MethodGet,
		Path:        "/checklist-items",
		Summary:     "List a card's checklist items in order",
		Tags:        []string{"Checklists"},
	}, func(ctx context.Context, input *ListChecklistItemsInput) (*ListChecklistItemsOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		card, _, _, _, err := cardScope(ctx, store, input.CardID, userID, perm.ActionViewBoard)
		if err != nil {
			return nil, err
		}

		items, err := store.Checklists().ListByCard(ctx, card.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list checklist items", err)
		}

		return &ListChecklistItemsOutput{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-checklist-item",
		Method:      http.MethodPatch,
		Path:        "/checklist-items/{id}",
		Summary:     "Update a checklist item",
		Tags:        []string{"Checklists"},
	}, func(ctx context.Context, input *UpdateChecklistItemInput) (*UpdateChecklistItemOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		item, err := store.Checklists().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("checklist item not found")
			}
			return nil, huma.Error500InternalServerError("failed to load checklist item", err)
		}

		if _, _, _, _, err := cardScope(ctx, store, item.CardID, userID, perm.ActionCreateChecklist); err != nil {
			return nil, err
		}

		if input.Body.Title != nil {
			if *input.Body.Title == "" {
				return nil, huma.Error400BadRequest("title cannot be empty")
			}
			item.Title = *input.Body.Title
		}
		if input.Body.Position != nil {
			item.Position = *input.Body.Position
		}
		item.UpdatedAt = time.Now()

		if err := store.Checklists().Update(ctx, item); err != nil {
			return nil, huma.Error500InternalServerError("failed to update checklist item", err)
		}

		return &UpdateChecklistItemOutput{Body: item}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-checklist-item",
		Method:      http.MethodPost,
		Path:        "/checklist-items/{id}/toggle",
		Summary:     "Check or uncheck a checklist item",
		Tags:        []string{"Checklists"},
	}, func(ctx context.Context, input *ToggleChecklistItemInput) (*ToggleChecklistItemOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		item, err := store.Checklists().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("checklist item not found")
			}
			return nil, huma.Error500InternalServerError("failed to load checklist item", err)
		}

		card, _, _, _, err := cardScope(ctx, store, item.CardID, userID, perm.ActionToggleChecklist)
		if err != nil {
			return nil, err
		}

		item, err = store.Checklists().SetCompleted(ctx, item.ID, input.Body.IsCompleted)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to toggle checklist item", err)
		}

		toggler, _ := store.Users().GetByID(ctx, userID)
		togglerName := ""
		if toggler != nil {
			togglerName = toggler.DisplayName()
		}
		dispatcher.Dispatch(ctx, events.ChecklistToggled{
			CardID:        card.ID,
			CardTitle:     card.Title,
			ItemTitle:     item.Title,
			IsCompleted:   item.IsCompleted,
			ToggledByID:   userID,
			ToggledByName: togglerName,
			Target:        cardTarget(ctx, store, card),
		})

		return &ToggleChecklistItemOutput{Body: item}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-checklist-item",
		Method:      http.MethodDelete,
		Path:        "/checklist-items/{id}",
		Summary:     "Delete a checklist item",
		Tags:        []string{"Checklists"},
	}, func(ctx context.Context, input *DeleteChecklistItemInput) (*struct{}, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		item, err := store.Checklists().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("checklist item not found")
			}
			return nil, huma.Error500InternalServerError("failed to load checklist item", err)
		}

		if _, _, _, _, err := cardScope(ctx, store, item.CardID, userID, perm.ActionCreateChecklist); err != nil {
			return nil, err
		}

		if err := store.Checklists().Delete(ctx, item.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete checklist item", err)
		}

		return nil, nil
	})
}
