package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	livews "github.com/tackboard/tack/internal/api/ws"
	"github.com/tackboard/tack/internal/domain"
	"github.com/tackboard/tack/internal/events"
	"github.com/tackboard/tack/internal/perm"
	"github.com/tackboard/tack/internal/position"
)

type CreateCardInput struct {
	Body struct {
		ListID      uuid.UUID  `json:"list_id" doc:"List ID"`
		Title       string     `json:"title" minLength:"1" maxLength:"500" doc:"Card title"`
		Description string     `json:"description,omitempty" doc:"Card description"`
		DueDate     *time.Time `json:"due_date,omitempty" doc:"Due date"`
		AssigneeID  *uuid.UUID `json:"assignee_id,omitempty" doc:"Assigned user ID"`
		Position    *float64   `json:"position,omitempty" doc:"Explicit sort key; appended when omitted"`
	}
}

type CreateCardOutput struct {
	Body *domain.Card
}

type ListCardsInput struct {
	ListID uuid.UUID `query:"list_id" required:"true" doc:"List ID"`
}

type ListCardsOutput struct {
	Body []*domain.Card
}

type GetCardInput struct {
	ID uuid.UUID `path:"id" doc:"Card ID"`
}

type GetCardOutput struct {
	Body *domain.Card
}

type UpdateCardInput struct {
	ID   uuid.UUID `path:"id" doc:"Card ID"`
	Body struct {
		Title       *string    `json:"title,omitempty" maxLength:"500" doc:"Card title"`
		Description *string    `json:"description,omitempty" doc:"Card description"`
		DueDate     *time.Time `json:"due_date,omitempty" doc:"Due date"`
		ClearDue    bool       `json:"clear_due,omitempty" doc:"Remove the due date"`
		AssigneeID  *uuid.UUID `json:"assignee_id,omitempty" doc:"Assigned user ID"`
		Unassign    bool       `json:"unassign,omitempty" doc:"Remove the assignee"`
		CoverImage  *string    `json:"cover_image,omitempty" maxLength:"1024" doc:"Cover image URL or upload name"`
		IsArchived  *bool      `json:"is_archived,omitempty" doc:"Archive flag"`
	}
}

type UpdateCardOutput struct {
	Body *domain.Card
}

type MoveCardInput struct {
	ID   uuid.UUID `path:"id" doc:"Card ID"`
	Body struct {
		ListID   uuid.UUID `json:"list_id" doc:"Destination list ID"`
		Position *float64  `json:"position,omitempty" doc:"Explicit sort key; appended when omitted"`
	}
}

type MoveCardOutput struct {
	Body *domain.Card
}

type DeleteCardInput struct {
	ID uuid.UUID `path:"id" doc:"Card ID"`
}

func RegisterCardRoutes(api huma.API, store DataStore, dispatcher EventDispatcher, broadcaster Broadcaster) {
	huma.Register(api, huma.Operation{
		OperationID: "create-card",
		Method:      http.MethodPost,
		Path:        "/cards",
		Summary:     "Create a card",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *CreateCardInput) (*CreateCardOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		list, board, ws, err := listScope(ctx, store, input.Body.ListID, userID, perm.ActionCreateCard)
		if err != nil {
			return nil, err
		}

		if input.Body.AssigneeID != nil {
			if err := checkAssignee(ctx, store, ws.ID, *input.Body.AssigneeID); err != nil {
				return nil, err
			}
		}

		var pos float64
		switch {
		case input.Body.Position != nil:
			pos = *input.Body.Position
		default:
			maxPos, ok, err := store.Cards().MaxPosition(ctx, list.ID)
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
		card := &domain.Card{
			ID:          uuid.New(),
			ListID:      list.ID,
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Position:    pos,
			DueDate:     input.Body.DueDate,
			CreatedBy:   userID,
			AssigneeID:  input.Body.AssigneeID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Cards().Create(ctx, card); err != nil {
			return nil, huma.Error500InternalServerError("failed to create card", err)
		}

		recordActivity(ctx, store, &domain.ActivityLog{
			UserID:      userID,
			Action:      domain.ActionCreated,
			EntityType:  domain.EntityCard,
			EntityID:    card.ID,
			EntityName:  card.Title,
			BoardID:     &board.ID,
			WorkspaceID: &ws.ID,
		})

		if card.AssigneeID != nil && *card.AssigneeID != userID {
			dispatchAssigned(ctx, store, dispatcher, card, userID)
		}

		broadcastBoard(ctx, broadcaster, livews.BoardEvent{Type: "card_created", CardID: card.ID, BoardID: board.ID, Data: card})

		return &CreateCardOutput{Body: card}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-cards",
		Method:      http.MethodGet,
		Path:        "/cards",
		Summary:     "List the cards in a list in order",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *ListCardsInput) (*ListCardsOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		list, _, _, err := listScope(ctx, store, input.ListID, userID, perm.ActionViewBoard)
		if err != nil {
			return nil, err
		}

		cards, err := store.Cards().ListByList(ctx, list.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list cards", err)
		}

		return &ListCardsOutput{Body: cards}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-card",
		Method:      http.MethodGet,
		Path:        "/cards/{id}",
		Summary:     "Get a card",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *GetCardInput) (*GetCardOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		card, _, _, _, err := cardScope(ctx, store, input.ID, userID, perm.ActionViewBoard)
		if err != nil {
			return nil, err
		}

		return &GetCardOutput{Body: card}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-card",
		Method:      http.MethodPatch,
		Path:        "/cards/{id}",
		Summary:     "Update a card",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *UpdateCardInput) (*UpdateCardOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		card, _, board, ws, err := cardScope(ctx, store, input.ID, userID, perm.ActionEditCard)
		if err != nil {
			return nil, err
		}

		previousAssignee := card.AssigneeID

		if input.Body.Title != nil {
			if *input.Body.Title == "" {
				return nil, huma.Error400BadRequest("title cannot be empty")
			}
			card.Title = *input.Body.Title
		}
		if input.Body.Description != nil {
			card.Description = *input.Body.Description
		}
		if input.Body.ClearDue {
			card.DueDate = nil
		} else if input.Body.DueDate != nil {
			card.DueDate = input.Body.DueDate
		}
		if input.Body.Unassign {
			card.AssigneeID = nil
		} else if input.Body.AssigneeID != nil {
			if err := checkAssignee(ctx, store, ws.ID, *input.Body.AssigneeID); err != nil {
				return nil, err
			}
			card.AssigneeID = input.Body.AssigneeID
		}
		if input.Body.CoverImage != nil {
			card.CoverImage = *input.Body.CoverImage
		}
		if input.Body.IsArchived != nil {
			card.IsArchived = *input.Body.IsArchived
		}
		card.UpdatedAt = time.Now()

		if err := store.Cards().Update(ctx, card); err != nil {
			return nil, huma.Error500InternalServerError("failed to update card", err)
		}

		recordActivity(ctx, store, &domain.ActivityLog{
			UserID:      userID,
			Action:      domain.ActionUpdated,
			EntityType:  domain.EntityCard,
			EntityID:    card.ID,
			EntityName:  card.Title,
			BoardID:     &board.ID,
			WorkspaceID: &ws.ID,
		})

		if assigneeChanged(previousAssignee, card.AssigneeID) && card.AssigneeID != nil && *card.AssigneeID != userID {
			dispatchAssigned(ctx, store, dispatcher, card, userID)
		}

		broadcastBoard(ctx, broadcaster, livews.BoardEvent{Type: "card_updated", CardID: card.ID, BoardID: board.ID, Data: card})

		return &UpdateCardOutput{Body: card}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-card",
		Method:      http.MethodPost,
		Path:        "/cards/{id}/move",
		Summary:     "Move a card to a list position",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *MoveCardInput) (*MoveCardOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		card, oldList, board, ws, err := cardScope(ctx, store, input.ID, userID, perm.ActionMoveCard)
		if err != nil {
			return nil, err
		}

		newList := oldList
		if input.Body.ListID != oldList.ID {
			newList, err = store.Lists().GetByID(ctx, input.Body.ListID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("destination list not found")
				}
				return nil, huma.Error500InternalServerError("failed to load destination list", err)
			}
			// Cross-board moves are not supported.
			if newList.BoardID != board.ID {
				return nil, huma.Error400BadRequest("destination list is on a different board")
			}
		}

		var pos float64
		switch {
		case input.Body.Position != nil:
			pos = *input.Body.Position
		default:
			maxPos, ok, err := store.Cards().MaxPosition(ctx, newList.ID)
			if err != nil {
				return nil, huma.Error500InternalServerError("failed to compute position", err)
			}
			if ok {
				pos = position.Next(maxPos)
			} else {
				pos = position.First()
			}
		}

		if err := store.Cards().Move(ctx, card.ID, newList.ID, pos); err != nil {
			return nil, huma.Error500InternalServerError("failed to move card", err)
		}

		crossedLists := newList.ID != oldList.ID

		card.ListID = newList.ID
		card.Position = pos
		card.UpdatedAt = time.Now()

		recordActivity(ctx, store, &domain.ActivityLog{
			UserID:      userID,
			Action:      domain.ActionMoved,
			EntityType:  domain.EntityCard,
			EntityID:    card.ID,
			EntityName:  card.Title,
			BoardID:     &board.ID,
			WorkspaceID: &ws.ID,
			Details: map[string]any{
				"from_list": oldList.Name,
				"to_list":   newList.Name,
			},
		})

		// Reorders within a list stay quiet; only changing list is
		// worth a notification.
		if crossedLists {
			mover, _ := store.Users().GetByID(ctx, userID)
			moverName := ""
			if mover != nil {
				moverName = mover.DisplayName()
			}
			dispatcher.Dispatch(ctx, events.CardMoved{
				CardID:      card.ID,
				CardTitle:   card.Title,
				OldListName: oldList.Name,
				NewListName: newList.Name,
				MovedByID:   userID,
				MovedByName: moverName,
				Target:      cardTarget(ctx, store, card),
			})
		}

		broadcastBoard(ctx, broadcaster, livews.BoardEvent{Type: "card_moved", CardID: card.ID, BoardID: board.ID, Data: card})

		return &MoveCardOutput{Body: card}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-card",
		Method:      http.MethodDelete,
		Path:        "/cards/{id}",
		Summary:     "Delete a card",
		Tags:        []string{"Cards"},
	}, func(ctx context.Context, input *DeleteCardInput) (*struct{}, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		card, _, board, ws, err := cardScope(ctx, store, input.ID, userID, perm.ActionDeleteCard)
		if err != nil {
			return nil, err
		}

		if err := store.Cards().SoftDelete(ctx, card.ID, userID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete card", err)
		}

		recordActivity(ctx, store, &domain.ActivityLog{
			UserID:      userID,
			Action:      domain.ActionDeleted,
			EntityType:  domain.EntityCard,
			EntityID:    card.ID,
			EntityName:  card.Title,
			BoardID:     &board.ID,
			WorkspaceID: &ws.ID,
		})

		broadcastBoard(ctx, broadcaster, livews.BoardEvent{Type: "card_deleted", CardID: card.ID, BoardID: board.ID})

		return nil, nil
	})
}

// checkAssignee verifies the assignee is the owner or a member of the
// workspace the card lives in.
func checkAssignee(ctx context.Context, store DataStore, workspaceID, assigneeID uuid.UUID) error {
	ws, err := store.Workspaces().GetByID(ctx, workspaceID)
	if err != nil {
		return huma.Error500InternalServerError("failed to load workspace", err)
	}
	if ws.IsOwner(assigneeID) {
		return nil
	}

	role, err := store.Workspaces().MemberRole(ctx, workspaceID, assigneeID)
	if err != nil {
		return huma.Error500InternalServerError("failed to resolve assignee membership", err)
	}
	if role == nil {
		return huma.Error400BadRequest("assignee is not a workspace member")
	}
	return nil
}

func assigneeChanged(before, after *uuid.UUID) bool {
	switch {
	case before == nil && after == nil:
		return false
	case before == nil || after == nil:
		return true
	default:
		return *before != *after
	}
}

func dispatchAssigned(ctx context.Context, store DataStore, dispatcher EventDispatcher, card *domain.Card, assignedBy uuid.UUID) {
	assignee, err := store.Users().GetByID(ctx, *card.AssigneeID)
	if err != nil {
		return
	}

	assigner, _ := store.Users().GetByID(ctx, assignedBy)
	assignerName := ""
	if assigner != nil {
		assignerName = assigner.DisplayName()
	}

	dispatcher.Dispatch(ctx, events.CardAssigned{
		CardID:         card.ID,
		CardTitle:      card.Title,
		AssignedByID:   assignedBy,
		AssignedByName: assignerName,
		AssigneeID:     assignee.ID,
		AssigneeEmail:  assignee.Email,
	})
}
