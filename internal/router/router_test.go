package router

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-itinerary-enrichment/internal/api/itinerary"
	"github.com/FACorreiaa/go-itinerary-enrichment/internal/types"
)

type staticEnricher struct{ result *types.RunResult }

func (s staticEnricher) Enrich(_ context.Context, _ string) *types.RunResult { return s.result }

func newTestRouter(ready func(context.Context) error) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	enricher := staticEnricher{result: &types.RunResult{
		RunID:           "r",
		Status:          types.StatusSuccess,
		State:           types.StateDone,
		ParsedDays:      []types.DayPlan{},
		FormattedOutput: "# Your Enriched Travel Itinerary\n",
	}}
	return SetupRouter(&Config{
		ItineraryHandler: itinerary.NewItineraryHandler(enricher, logger),
		Ready:            ready,
		Logger:           logger,
	})
}

func TestSetupRouter(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		ready      func(context.Context) error
		wantStatus int
		wantBody   string
	}{
		{name: "ping", method: http.MethodGet, path: "/ping", wantStatus: http.StatusOK, wantBody: "pong"},
		{name: "health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK, wantBody: `"status":"ok"`},
		{
			name: "health not ready", method: http.MethodGet, path: "/health",
			ready:      func(context.Context) error { return errors.New("token unavailable") },
			wantStatus: http.StatusServiceUnavailable, wantBody: "token unavailable",
		},
		{
			name: "enrich", method: http.MethodPost, path: "/api/v1/itinerary/enrich",
			body: `{"itinerary": "Day 1 Paris"}`, wantStatus: http.StatusOK, wantBody: `"run_id":"r"`,
		},
		{
			name: "enrich markdown", method: http.MethodPost, path: "/api/v1/itinerary/enrich?format=markdown",
			body: `{"itinerary": "Day 1 Paris"}`, wantStatus: http.StatusOK, wantBody: "# Your Enriched Travel Itinerary",
		},
		{name: "wrong method", method: http.MethodGet, path: "/api/v1/itinerary/enrich", wantStatus: http.StatusMethodNotAllowed},
		{name: "unknown route", method: http.MethodGet, path: "/api/v1/pois", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			newTestRouter(tt.ready).ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBody)
			}
		})
	}
}
