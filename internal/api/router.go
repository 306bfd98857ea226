package api

import (
	"net/http"
	"os"

	"github.com/Rrens/storefront-assistant/internal/api/handler"
	customMiddleware "github.com/Rrens/storefront-assistant/internal/api/middleware"
	"github.com/Rrens/storefront-assistant/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// NewRouter creates the static file server router
func NewRouter(cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)

		r.NotFound(handler.APINotFound)
		r.MethodNotAllowed(handler.APINotFound)
	})

	log.Info().Str("dir", cfg.Server.StaticDir).Msg("Serving static files")
	static := handler.StaticHandler(os.DirFS(cfg.Server.StaticDir))
	r.Get("/*", static.ServeHTTP)
	r.Head("/*", static.ServeHTTP)

	return r
}
