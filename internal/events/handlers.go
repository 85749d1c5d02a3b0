package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tackboard/tack/internal/domain"
	"github.com/tackboard/tack/internal/mail"
	redisstore "github.com/tackboard/tack/internal/store/redis"
)

// Enqueuer hands an email job to the out-of-process delivery queue.
// *mail.Queue satisfies this interface.
type Enqueuer interface {
	Enqueue(ctx context.Context, job mail.Job) error
}

// Publisher pushes a payload to a pub/sub channel for live delivery.
// *redisstore.PubSub satisfies this interface.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// NotificationWriter persists in-app notification rows for events.
// It is the only code path that creates notifications.
type NotificationWriter struct {
	notifications domain.NotificationRepository
	publisher     Publisher
}

func NewNotificationWriter(notifications domain.NotificationRepository) *NotificationWriter {
	return &NotificationWriter{notifications: notifications}
}

// WithPublisher enables live push of each written notification to the
// recipient's pub/sub channel. Must be called before the dispatcher
// starts serving.
func (w *NotificationWriter) WithPublisher(publisher Publisher) *NotificationWriter {
	w.publisher = publisher
	return w
}

// Handle writes the notification row for a supported event. Events the
// writer does not recognize are ignored.
func (w *NotificationWriter) Handle(ctx context.Context, e Event) error {
	switch ev := e.(type) {
	case CardMoved:
		target, _, ok := ev.Target.Recipient()
		if !ok || target == ev.MovedByID {
			return nil
		}
		return w.write(ctx, &domain.Notification{
			UserID:        target,
			Type:          domain.NotificationCardMoved,
			Title:         "Card Moved",
			Message:       fmt.Sprintf("%s moved card '%s' from '%s' to '%s'", ev.MovedByName, ev.CardTitle, ev.OldListName, ev.NewListName),
			ReferenceID:   &ev.CardID,
			ReferenceType: "card",
		})

	case CommentAdded:
		target, _, ok := ev.Target.Recipient()
		if !ok || target == ev.CommenterID {
			return nil
		}
		return w.write(ctx, &domain.Notification{
			UserID:        target,
			Type:          domain.NotificationCommentAdded,
			Title:         "New Comment",
			Message:       fmt.Sprintf("%s commented on card '%s'", ev.CommenterName, ev.CardTitle),
			ReferenceID:   &ev.CardID,
			ReferenceType: "card",
		})

	case ChecklistToggled:
		target, _, ok := ev.Target.Recipient()
		if !ok || target == ev.ToggledByID {
			return nil
		}
		status := "uncompleted"
		if ev.IsCompleted {
			status = "completed"
		}
		return w.write(ctx, &domain.Notification{
			UserID:        target,
			Type:          domain.NotificationChecklistToggled,
			Title:         "Checklist Item Updated",
			Message:       fmt.Sprintf("%s marked '%s' as %s on card '%s'", ev.ToggledByName, ev.ItemTitle, status, ev.CardTitle),
			ReferenceID:   &ev.CardID,
			ReferenceType: "card",
		})

	case CardAssigned:
		if ev.AssigneeID == ev.AssignedByID {
			return nil
		}
		return w.write(ctx, &domain.Notification{
			UserID:        ev.AssigneeID,
			Type:          domain.NotificationCardAssigned,
			Title:         "Card Assigned",
			Message:       fmt.Sprintf("%s assigned you to card '%s'", ev.AssignedByName, ev.CardTitle),
			ReferenceID:   &ev.CardID,
			ReferenceType: "card",
		})

	case InvitationSent:
		return w.write(ctx, &domain.Notification{
			UserID:        ev.InviteeID,
			Type:          domain.NotificationWorkspaceInvitation,
			Title:         "Workspace Invitation",
			Message:       fmt.Sprintf("%s invited you to join '%s'", ev.InviterName, ev.WorkspaceName),
			ReferenceID:   &ev.InvitationID,
			ReferenceType: "invitation",
		})

	case InvitationResponded:
		ntype := domain.NotificationInvitationRejected
		status := "rejected"
		title := "Invitation Rejected"
		if ev.Accepted {
			ntype = domain.NotificationInvitationAccepted
			status = "accepted"
			title = "Invitation Accepted"
		}
		return w.write(ctx, &domain.Notification{
			UserID:        ev.InviterID,
			Type:          ntype,
			Title:         title,
			Message:       fmt.Sprintf("%s %s your invitation to '%s'", ev.ResponderName, status, ev.WorkspaceName),
			ReferenceID:   &ev.WorkspaceID,
			ReferenceType: "workspace",
		})
	}

	return nil
}

func (w *NotificationWriter) write(ctx context.Context, n *domain.Notification) error {
	n.ID = uuid.New()
	n.CreatedAt = time.Now()

	if err := w.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("events.NotificationWriter: %w", err)
	}

	w.push(ctx, n)

	return nil
}

// push delivers the row to the recipient's live stream. The row is
// already committed; push failures are logged and swallowed.
func (w *NotificationWriter) push(ctx context.Context, n *domain.Notification) {
	if w.publisher == nil {
		return
	}

	payload, err := json.Marshal(liveNotification{
		Type:      "notification",
		UserID:    n.UserID,
		Data:      n,
		Timestamp: n.CreatedAt,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode notification push")
		return
	}

	if err := w.publisher.Publish(ctx, redisstore.UserChannel(n.UserID), payload); err != nil {
		log.Warn().Err(err).Str("user_id", n.UserID.String()).Msg("failed to push notification")
	}
}

// liveNotification matches the user stream wire shape consumed by the
// websocket clients.
type liveNotification struct {
	Type      string               `json:"type"`
	UserID    uuid.UUID            `json:"user_id"`
	Data      *domain.Notification `json:"data"`
	Timestamp time.Time            `json:"timestamp"`
}

// EmailQueuer renders and enqueues notification emails. Delivery is
// handled by the worker; the queuer never blocks on SMTP.
type EmailQueuer struct {
	queue       Enqueuer
	appName     string
	frontendURL string
}

func NewEmailQueuer(queue Enqueuer, appName, frontendURL string) *EmailQueuer {
	return &EmailQueuer{queue: queue, appName: appName, frontendURL: frontendURL}
}

// Handle enqueues the email for a supported event. The self-suppression
// and assignee-over-owner rules match the notification writer.
func (q *EmailQueuer) Handle(ctx context.Context, e Event) error {
	switch ev := e.(type) {
	case CardMoved:
		target, email, ok := ev.Target.Recipient()
		if !ok || email == "" || target == ev.MovedByID {
			return nil
		}
		subject, html := mail.CardMoved(ev.MovedByName, ev.CardTitle, ev.OldListName, ev.NewListName, q.frontendURL)
		return q.enqueue(ctx, email, subject, html)

	case CommentAdded:
		target, email, ok := ev.Target.Recipient()
		if !ok || email == "" || target == ev.CommenterID {
			return nil
		}
		subject, html := mail.CommentAdded(ev.CommenterName, ev.CardTitle, ev.Content, q.frontendURL)
		return q.enqueue(ctx, email, subject, html)

	case ChecklistToggled:
		target, email, ok := ev.Target.Recipient()
		if !ok || email == "" || target == ev.ToggledByID {
			return nil
		}
		subject, html := mail.ChecklistToggled(ev.ToggledByName, ev.CardTitle, ev.ItemTitle, ev.IsCompleted, q.frontendURL)
		return q.enqueue(ctx, email, subject, html)

	case CardAssigned:
		if ev.AssigneeID == ev.AssignedByID || ev.AssigneeEmail == "" {
			return nil
		}
		subject, html := mail.CardAssigned(ev.AssignedByName, ev.CardTitle, q.frontendURL)
		return q.enqueue(ctx, ev.AssigneeEmail, subject, html)

	case Welcome:
		if ev.UserEmail == "" {
			return nil
		}
		subject, html := mail.Welcome(q.appName, q.frontendURL)
		return q.enqueue(ctx, ev.UserEmail, subject, html)
	}

	return nil
}

func (q *EmailQueuer) enqueue(ctx context.Context, to, subject, html string) error {
	if err := q.queue.Enqueue(ctx, mail.Job{To: to, Subject: subject, HTML: html}); err != nil {
		return fmt.Errorf("events.EmailQueuer: %w", err)
	}
	return nil
}

// Wire registers the standard handler set on a fresh dispatcher:
// the notification writer for every in-app notification event, and the
// email queuer for card activity plus the welcome email. Called exactly
// once at startup; the dispatcher is immutable afterwards.
func Wire(d *Dispatcher, nw *NotificationWriter, eq *EmailQueuer) {
	for _, kind := range []Kind{
		KindCardMoved,
		KindCommentAdded,
		KindChecklistToggled,
		KindCardAssigned,
		KindInvitationSent,
		KindInvitationResponded,
	} {
		d.Register(kind, nw.Handle)
	}

	for _, kind := range []Kind{
		KindCardMoved,
		KindCommentAdded,
		KindChecklistToggled,
		KindCardAssigned,
		KindWelcome,
	} {
		d.Register(kind, eq.Handle)
	}
}
