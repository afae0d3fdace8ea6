package container

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-itinerary-enrichment/config"
	"github.com/FACorreiaa/go-itinerary-enrichment/internal/api/amadeus"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Gemini = config.GeminiConfig{Model: "gemini-2.0-flash", APIKey: "test-key"}
	cfg.Amadeus = config.AmadeusConfig{APIKey: "id", APISecret: "secret", BaseURL: "http://127.0.0.1:1"}
	cfg.Pipeline = config.DefaultPipeline()
	return cfg
}

func TestNewContainer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("wires handler", func(t *testing.T) {
		c, err := NewContainer(context.Background(), testConfig(), logger)
		require.NoError(t, err)
		assert.NotNil(t, c.AIClient)
		assert.NotNil(t, c.Amadeus)
		assert.NotNil(t, c.Pipeline)
		assert.NotNil(t, c.ItineraryHandler)
	})

	t.Run("missing amadeus credentials", func(t *testing.T) {
		cfg := testConfig()
		cfg.Amadeus.APISecret = ""
		_, err := NewContainer(context.Background(), cfg, logger)
		assert.ErrorIs(t, err, amadeus.ErrMissingCredentials)
	})

	t.Run("missing gemini key", func(t *testing.T) {
		cfg := testConfig()
		cfg.Gemini.APIKey = ""
		_, err := NewContainer(context.Background(), cfg, logger)
		assert.Error(t, err)
	})
}
