package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sealed-arena/backend/internal/hub"
	"github.com/sealed-arena/backend/internal/pool"
	"github.com/sealed-arena/backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, a *pool.Assembler, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/sessions", CreateSession(h))
	r.Get("/sets/{code}/lands", BasicLands(a))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	return r
}
