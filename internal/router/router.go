package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/FACorreiaa/go-itinerary-enrichment/docs"
	"github.com/FACorreiaa/go-itinerary-enrichment/internal/api"
	"github.com/FACorreiaa/go-itinerary-enrichment/internal/api/itinerary"
)

// Config contains dependencies needed for the router setup
type Config struct {
	ItineraryHandler *itinerary.ItineraryHandler
	// Ready reports whether upstream providers are usable. Nil means always ready.
	Ready  func(ctx context.Context) error
	Logger *slog.Logger
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (request ID, logger, recoverer) is applied in
// main.go before this router is mounted.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Ready != nil {
			if err := cfg.Ready(r.Context()); err != nil {
				if cfg.Logger != nil {
					cfg.Logger.WarnContext(r.Context(), "Health check failed", slog.Any("error", err))
				}
				api.ErrorResponse(w, r, http.StatusServiceUnavailable, err.Error())
				return
			}
		}
		api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/itinerary", func(r chi.Router) {
			r.Post("/enrich", cfg.ItineraryHandler.EnrichItinerary)
		})
	})

	return r
}
