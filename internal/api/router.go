package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"synclist-hub/internal/middleware"
)

// RouterConfig wires the router's middleware stack.
type RouterConfig struct {
	Handler        *Handler
	Auth           func(http.Handler) http.Handler
	RateLimit      middleware.RateLimitConfig // zero RequestsPerSecond disables limiting
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter builds the HTTP router. /healthz and /openapi.json are public;
// everything under /v1 requires authentication. ctx bounds background
// middleware goroutines.
func NewRouter(ctx context.Context, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(cfg.Logger.With("component", "http")))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/openapi.json", ServeOpenAPI)

	h := cfg.Handler
	r.Route("/v1", func(r chi.Router) {
		r.Use(cfg.Auth)
		if cfg.RateLimit.RequestsPerSecond > 0 {
			r.Use(middleware.RateLimiter(ctx, cfg.RateLimit))
		}

		r.Route("/my-synclists", func(r chi.Router) {
			r.Get("/", h.ListMySynclists)
			r.Post("/", h.CreateMySynclist)
			r.Get("/{id}", h.GetMySynclist)
			r.Patch("/{id}", h.PatchMySynclist)
			r.Put("/{id}", h.PutMySynclist)
			r.Delete("/{id}", h.DeleteMySynclist)
		})
		r.Route("/synclists", func(r chi.Router) {
			r.Get("/", h.ListSynclists)
			r.Post("/", h.CreateSynclist)
			r.Get("/{id}", h.GetSynclist)
			r.Delete("/{id}", h.DeleteSynclist)
		})
		r.Get("/tasks", h.ListTasks)
		r.Get("/tasks/{id}", h.GetTask)
	})
	return r
}
