package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-itinerary-enrichment/config"
	"github.com/FACorreiaa/go-itinerary-enrichment/internal/api/amadeus"
	generativeAI "github.com/FACorreiaa/go-itinerary-enrichment/internal/api/generative_ai"
	"github.com/FACorreiaa/go-itinerary-enrichment/internal/api/itinerary"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	AIClient         *generativeAI.AIClient
	Amadeus          *amadeus.Client
	Pipeline         *itinerary.Pipeline
	ItineraryHandler *itinerary.ItineraryHandler
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	aiClient, err := generativeAI.NewAIClient(ctx, cfg.Gemini, logger)
	if err != nil {
		logger.Error("Failed to initialize Gemini client", slog.Any("error", err))
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	amadeusClient, err := amadeus.NewClient(ctx, cfg.Amadeus, logger)
	if err != nil {
		logger.Error("Failed to initialize Amadeus client", slog.Any("error", err))
		return nil, fmt.Errorf("amadeus client: %w", err)
	}

	geocoder := amadeus.NewGeocoder(amadeusClient, cfg.Amadeus.MaxLocations)
	searcher := amadeus.NewActivitySearcher(amadeusClient)

	pipeline := itinerary.NewPipeline(aiClient, geocoder, searcher, cfg.Pipeline, logger)
	itineraryHandler := itinerary.NewItineraryHandler(pipeline, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		AIClient:         aiClient,
		Amadeus:          amadeusClient,
		Pipeline:         pipeline,
		ItineraryHandler: itineraryHandler,
	}, nil
}

// WaitForProviders checks the Amadeus credentials before serving traffic.
func (c *Container) WaitForProviders(ctx context.Context) bool {
	return amadeus.WaitForToken(ctx, c.Amadeus, c.Logger)
}

// Ready is used by the health endpoint.
func (c *Container) Ready(ctx context.Context) error {
	return c.Amadeus.Ping(ctx)
}
