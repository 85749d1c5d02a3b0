package ws

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tackboard/tack/internal/domain"
	"github.com/tackboard/tack/internal/perm"
	"github.com/tackboard/tack/internal/server/middleware"
	redisstore "github.com/tackboard/tack/internal/store/redis"
)

// BoardResolver resolves a board to its workspace for the access
// check. *postgres.Store satisfies this interface.
type BoardResolver interface {
	Boards() domain.BoardRepository
	Workspaces() domain.WorkspaceRepository
}

// Hub manages WebSocket connections backed by Redis pub/sub.
type Hub struct {
	pubsub *redisstore.PubSub
	store  BoardResolver
}

// NewHub creates a new WebSocket hub.
func NewHub(pubsub *redisstore.PubSub, store BoardResolver) *Hub {
	return &Hub{pubsub: pubsub, store: store}
}

// ServeBoard handles WebSocket connections for live board updates.
// Subscribes to Redis channel "board:<boardID>" after checking the
// user may view the board.
func (h *Hub) ServeBoard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user", http.StatusUnauthorized)
		return
	}

	boardIDStr := chi.URLParam(r, "boardID")
	boardID, err := uuid.Parse(boardIDStr)
	if err != nil {
		http.Error(w, "invalid board id", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	board, err := h.store.Boards().GetByID(ctx, boardID)
	if err != nil {
		http.Error(w, "board not found", http.StatusNotFound)
		return
	}

	ws, err := h.store.Workspaces().GetByID(ctx, board.WorkspaceID)
	if err != nil {
		http.Error(w, "workspace not found", http.StatusNotFound)
		return
	}

	role, err := h.store.Workspaces().MemberRole(ctx, ws.ID, userID)
	if err != nil || !perm.Has(role, perm.ActionViewBoard, ws.IsOwner(userID)) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	h.stream(ctx, conn, redisstore.BoardChannel(boardID))
}

// ServeUser handles WebSocket connections for a user's notification
// stream. Subscribes to Redis channel "user:<userID>" of the
// authenticated user; the path carries no ID so there is nothing to
// spoof.
func (h *Hub) ServeUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	h.stream(r.Context(), conn, redisstore.UserChannel(userID))
}

func (h *Hub) stream(ctx context.Context, conn *websocket.Conn, channel string) {
	messages, cleanup, err := h.pubsub.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}

// Publish sends an event payload to a Redis channel. This is a convenience
// wrapper for use by API handlers when mutating board state.
func (h *Hub) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := h.pubsub.Publish(ctx, channel, payload); err != nil {
		return fmt.Errorf("ws.Hub.Publish: %w", err)
	}
	return nil
}
