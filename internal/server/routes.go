package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/tackboard/tack/internal/api/v1"
	"github.com/tackboard/tack/internal/api/ws"
	"github.com/tackboard/tack/internal/auth"
	"github.com/tackboard/tack/internal/events"
	"github.com/tackboard/tack/internal/store/postgres"
)

func registerAuthRoutes(api huma.API, authSvc *auth.Service, providers map[string]*auth.OAuthProvider, dispatcher *events.Dispatcher) {
	v1.RegisterAuthRoutes(api, authSvc, providers, dispatcher)
}

func registerAPIRoutes(api huma.API, store *postgres.Store, authSvc *auth.Service, dispatcher *events.Dispatcher, hub *ws.Hub) {
	v1.RegisterUserRoutes(api, authSvc)
	v1.RegisterWorkspaceRoutes(api, store)
	v1.RegisterBoardRoutes(api, store)
	v1.RegisterListRoutes(api, store, hub)
	v1.RegisterCardRoutes(api, store, dispatcher, hub)
	v1.RegisterCommentRoutes(api, store, dispatcher)
	v1.RegisterChecklistRoutes(api, store, dispatcher)
	v1.RegisterInvitationRoutes(api, store, dispatcher)
	v1.RegisterNotificationRoutes(api, store)
	v1.RegisterActivityRoutes(api, store)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/boards/{boardID}", hub.ServeBoard)
	r.Get("/notifications", hub.ServeUser)
}
