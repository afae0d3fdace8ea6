package amadeus

import (
	"context"
	"fmt"

	"github.com/FACorreiaa/go-itinerary-enrichment/internal/types"
)

const defaultMaxLocations = 5

// Geocoder resolves a place name to a LocationResult.
type Geocoder struct {
	client       *Client
	maxLocations int
}

func NewGeocoder(client *Client, maxLocations int) *Geocoder {
	if maxLocations <= 0 {
		maxLocations = defaultMaxLocations
	}
	return &Geocoder{client: client, maxLocations: maxLocations}
}

// Resolve returns ErrNoResults when the provider knows no such city.
func (g *Geocoder) Resolve(ctx context.Context, name, countryHint string) (*types.LocationResult, error) {
	locations, err := g.client.SearchCities(ctx, name, countryHint, g.maxLocations)
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("city %q: %w", name, ErrNoResults)
	}
	primary := locations[0]
	return &types.LocationResult{
		Success:         true,
		Count:           len(locations),
		Locations:       locations,
		PrimaryLocation: &primary,
	}, nil
}

// ActivitySearcher finds candidate activities around a point.
type ActivitySearcher struct {
	client *Client
}

func NewActivitySearcher(client *Client) *ActivitySearcher {
	return &ActivitySearcher{client: client}
}

// Search returns at most maxResults candidates, or ErrNoResults when there
// are none.
func (s *ActivitySearcher) Search(ctx context.Context, lat, lon float64, radiusKm, maxResults int) (*types.ActivitySearchResult, error) {
	activities, err := s.client.SearchActivities(ctx, lat, lon, radiusKm)
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, fmt.Errorf("activities near %.4f,%.4f: %w", lat, lon, ErrNoResults)
	}
	if maxResults > 0 && len(activities) > maxResults {
		activities = activities[:maxResults]
	}
	return &types.ActivitySearchResult{
		Success:      true,
		Count:        len(activities),
		SearchParams: &types.SearchParams{Latitude: lat, Longitude: lon, RadiusKm: radiusKm},
		Activities:   activities,
	}, nil
}
