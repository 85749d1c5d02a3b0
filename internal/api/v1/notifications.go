package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/tackboard/tack/internal/domain"
)

type ListNotificationsInput struct {
	UnreadOnly bool `query:"unread_only" doc:"Only unread notifications"`
	Limit      int  `query:"limit" minimum:"0" maximum:"100" doc:"Page size (default 50)"`
	Offset     int  `query:"offset" minimum:"0" doc:"Page offset"`
}

type ListNotificationsOutput struct {
	Body []*domain.Notification
}

type UnreadCountOutput struct {
	Body struct {
		Count int64 `json:"count"`
	}
}

type MarkNotificationReadInput struct {
	ID uuid.UUID `path:"id" doc:"Notification ID"`
}

type MarkNotificationReadOutput struct {
	Body *domain.Notification
}

type DeleteNotificationInput struct {
	ID uuid.UUID `path:"id" doc:"Notification ID"`
}

// RegisterNotificationRoutes registers the notification inbox. Rows
// are created only by event handlers; these endpoints read, mark and
// delete them, always scoped to the authenticated user.
func RegisterNotificationRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-notifications",
		Method:      http.MethodGet,
		Path:        "/notifications",
		Summary:     "List your notifications newest first",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, input *ListNotificationsInput) (*ListNotificationsOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		limit, offset := clampPage(input.Limit, input.Offset)

		notifications, err := store.Notifications().ListForUser(ctx, userID, input.UnreadOnly, limit, offset)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list notifications", err)
		}

		return &ListNotificationsOutput{Body: notifications}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "count-unread-notifications",
		Method:      http.MethodGet,
		Path:        "/notifications/unread-count",
		Summary:     "Count your unread notifications",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, _ *struct{}) (*UnreadCountOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		count, err := store.Notifications().CountUnread(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count notifications", err)
		}

		out := &UnreadCountOutput{}
		out.Body.Count = count
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "mark-notification-read",
		Method:      http.MethodPost,
		Path:        "/notifications/{id}/read",
		Summary:     "Mark a notification as read",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, input *MarkNotificationReadInput) (*MarkNotificationReadOutput, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		n, err := store.Notifications().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("notification not found")
			}
			return nil, huma.Error500InternalServerError("failed to load notification", err)
		}

		if n.UserID != userID {
			return nil, huma.Error404NotFound("notification not found")
		}

		if err := store.Notifications().MarkRead(ctx, n.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to mark notification read", err)
		}
		n.IsRead = true

		return &MarkNotificationReadOutput{Body: n}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "mark-all-notifications-read",
		Method:      http.MethodPost,
		Path:        "/notifications/read-all",
		Summary:     "Mark all your notifications as read",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		if err := store.Notifications().MarkAllRead(ctx, userID); err != nil {
			return nil, huma.Error500InternalServerError("failed to mark notifications read", err)
		}

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-notification",
		Method:      http.MethodDelete,
		Path:        "/notifications/{id}",
		Summary:     "Delete a notification",
		Tags:        []string{"Notifications"},
	}, func(ctx context.Context, input *DeleteNotificationInput) (*struct{}, error) {
		userID, err := requireUser(ctx)
		if err != nil {
			return nil, err
		}

		n, err := store.Notifications().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("notification not found")
			}
			return nil, huma.Error500InternalServerError("failed to load notification", err)
		}

		if n.UserID != userID {
			return nil, huma.Error404NotFound("notification not found")
		}

		if err := store.Notifications().Delete(ctx, n.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to delete notification", err)
		}

		return nil, nil
	})
}
