package itinerary

import (
	"context"
	"errors"

	"github.com/FACorreiaa/go-itinerary-enrichment/internal/types"
)

// Oracle is a text-in/text-out reasoning service. It is only ever asked to
// classify or select, never to supply facts shown to the user.
type Oracle interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Geocoder resolves a place name to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, name, countryHint string) (*types.LocationResult, error)
}

// ActivitySearcher finds candidate activities around a point.
type ActivitySearcher interface {
	Search(ctx context.Context, lat, lon float64, radiusKm, maxResults int) (*types.ActivitySearchResult, error)
}

// Enricher runs one itinerary through the whole pipeline.
type Enricher interface {
	Enrich(ctx context.Context, text string) *types.RunResult
}

var (
	ErrParseFailure       = errors.New("itinerary parse failed")
	ErrResolutionFailure  = errors.New("location resolution failed")
	ErrSearchFailure      = errors.New("activity search failed")
	ErrSelectionFailure   = errors.New("tour selection failed")
	ErrAggregationFailure = errors.New("no day produced a usable result")
)
