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
)

type CreateCommentInput struct {
	Body struct {
		CardID  uuid.UUID `json:"card_id" doc:"Card ID"`
		Content string    `json:"content" minLength:"1" maxLength:"10000" doc:"Comment text"`
	}
}

type CreateCommentOutput struct {
	Body *domain.CardComment
}

type ListCommentsInput struct {
	CardID uuid.UUID `query:"card_id" required:"true" doc:"Card ID"`
}

type ListCommentsOutput struct {
	Body []*domain.CardComment
}

type UpdateCommentInput struct {
	ID   uuid.UUID `path:"id" doc:"Comment ID"`
	Body struct {
		Content string `json:"content" minLength:"1" maxLength:"10000" doc:"Comment text"`
	}
}

type UpdateCommentOutput struct {
	Body *domain.CardComment
}

type DeleteCommentInput struct {
	ID uuid.UUID `path:"id" doc:"Comment ID"`
}

func RegisterCommentRoutes(api huma.API, store DataStore, dispatcher EventDispatcher) {
	huma.Register(api, huma.Operation{
		OperationID: "create-comment",
		Method:      http.MethodPost,
		Path:        "/comments",
		Summary:     "Comment on a card",
		Tags:        []string{"Comments"},
	}, func(ctx context.Context, input *CreateCommentInput) (*CreateCommentOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		card, _, board, ws, err := cardScope(ctx, store, input.Body.CardID, userID, perm.ActionCreateComment)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		comment := &domain.CardComment{
			ID:        uuid.New(),
			CardID:    card.ID,
			AuthorID:  userID,
			Content:   input.Body.Content,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Comments().Create(ctx, comment); err != nil {
			return nil, huma.Error500InternalServerError("failed to create comment", err)
		}

		recordActivity(ctx, store, &domain.ActivityLog{
			UserID:      userID,
			Action:      domain.ActionCommented,
			EntityType:  domain.EntityCard,
			EntityID:    card.ID,
			EntityName:  card.Title,
			BoardID:     &board.ID,
			WorkspaceID: &ws.ID,
		})

		author, _ := store.Users().GetByID(ctx, userID)
		authorName := ""
		if author != nil {
			authorName = author.DisplayName()
		}
		dispatcher.Dispatch(ctx, events.CommentAdded{
			CardID:        card.ID,
			CardTitle:     card.Title,
			Content:       comment.Content,
			CommenterID:   userID,
			CommenterName: authorName,
			Target:        cardTarget(ctx, store, card),
		})

		return &CreateCommentOutput{Body: comment}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-comments",
		Method:      http.MethodGet,
		Path:        "/comments",
		Summary:     "List a card's comments oldest first",
		Tags:        []string{"Comments"},
	}, func(ctx context.Context, input *ListCommentsInput) (*ListCommentsOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		card, _, _, _, err := cardScope(ctx, store, input.CardID, userID, perm.ActionViewBoard)
		if err != nil {
			return nil, err
		}

		comments, err := store.Comments().ListByCard(ctx, card.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list comments", err)
		}

		return &ListCommentsOutput{Body: comments}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-comment",
		Method:      http.MethodPatch,
		Path:        "/comments/{id}",
		Summary:     "Edit a comment",
		Tags:        []string{"Comments"},
	}, func(ctx context.Context, input *UpdateCommentInput) (*UpdateCommentOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		comment, err := store.Comments().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("comment not found")
			}
			return nil, huma.Error500InternalServerError("failed to load comment", err)
		}

		// Edits are author-only; admins can delete but not rewrite.
		if comment.AuthorID != userID {
			return nil, huma.Error403Forbidden("only the author can edit a comment")
		}

		comment.Content = input.Body.Content
		comment.UpdatedAt = time.Now()

		if err := store.Comments().Update(ctx, comment); err != nil {
			return nil, huma.Error500InternalServerError("failed to update comment", err)
		}

		return &UpdateCommentOutput{Body: comment}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-comment",
		Method:      http.MethodDelete,
		Path:        "/comments/{id}",
		Summary:     "Delete a comment",
		Tags:        []string{"Comments"},
	}, func(ctx context.Context, input *DeleteCommentInput) (*struct{}, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		comment, err := store.Comments().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("comment not found")
			}
			return nil, huma.Error500InternalServerError("failed to load comment", err)
		}

		// Authors delete their own comments; anyone else needs the
		// delete_any_comment permission.
		if comment.AuthorID != userID {
			if _, _, _, _, err := cardScope(ctx, store, comment.CardID, userID, perm.ActionDeleteAnyComment); err != nil {
				return nil, err
			}
		}

		if err := store.Comments().Delete(ctx, comment.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete comment", err)
		}

		return nil, nil
	})
}
