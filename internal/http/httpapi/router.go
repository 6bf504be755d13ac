package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"sitegen/internal/http/handlers"
	"sitegen/internal/infra"
	"sitegen/internal/middleware"
)

// NewRouter assembles the API surface and its middleware chain.
func NewRouter(app *handlers.App, cfg *infra.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(*app.Logger),
		middleware.CORS(cfg.AllowedOrigins),
	)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.Health)
		r.Get("/templates", app.ListTemplates)
		r.Get("/download/{session_id}", app.Download)

		// Generation is the only expensive endpoint; rate limit it alone.
		r.With(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute)).
			Post("/generate", app.Generate)
	})

	return r
}
