package router

import (
	"log/slog"

	"github.com/arko-chat/adbridge/internal/handlers"
	"github.com/arko-chat/adbridge/internal/middleware"
	"github.com/arko-chat/adbridge/internal/session"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func New(
	h *handlers.Handler,
	codec *session.Codec,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)

	r.Group(func(r chi.Router) {
		r.Use(middleware.HostSession(codec, logger))

		r.Get("/", h.HandleStatus)
		r.Get("/qr.png", h.HandleQR)
		r.Get("/api/units", h.HandleUnits)
		r.Post("/api/commands", h.HandleCommand)
		r.Post("/api/host/foreground", h.HandleForeground)
		r.Get("/api/preferences", h.HandlePreferences)
		r.Delete("/api/preferences/{adUnitId}", h.HandleForgetPreferences)
		r.Post("/api/sim/fail", h.HandleSimFail)
		r.Post("/api/sim/location", h.HandleSimLocation)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireHost(codec))

		r.Get("/ws/events", h.HandleEvents)
	})

	return r
}
