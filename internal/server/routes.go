package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/simonebenati/taskboard/internal/api/v1"
	"github.com/simonebenati/taskboard/internal/api/ws"
	"github.com/simonebenati/taskboard/internal/auth"
	"github.com/simonebenati/taskboard/internal/config"
	"github.com/simonebenati/taskboard/internal/events"
	"github.com/simonebenati/taskboard/internal/store/postgres"
	"github.com/simonebenati/taskboard/internal/stream"
)

func registerAuthRoutes(api huma.API, store *postgres.Store, authSvc *auth.Service) {
	v1.RegisterAuthRoutes(api, store, authSvc)
}

func registerAPIRoutes(api huma.API, store *postgres.Store, emitter *events.Emitter, cfg *config.Config) {
	v1.RegisterTenantRoutes(api, store)
	v1.RegisterUserRoutes(api, store)
	v1.RegisterGroupRoutes(api, store)
	v1.RegisterInviteRoutes(api, store, cfg.Invites.TTL)
	v1.RegisterBoardRoutes(api, store, emitter)
	v1.RegisterTaskRoutes(api, store, emitter)
}

func registerStreamRoutes(r chi.Router, sse *stream.Handler, hub *ws.Hub) {
	r.Get("/stream", sse.ServeEvents)
	r.Get("/ws", hub.ServeEvents)
}
