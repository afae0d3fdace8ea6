package amadeus

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/FACorreiaa/go-itinerary-enrichment/internal/types"
)

type activityResponse struct {
	Data []struct {
		ID               string   `json:"id"`
		Type             string   `json:"type"`
		Name             string   `json:"name"`
		ShortDescription string   `json:"shortDescription"`
		Description      string   `json:"description"`
		Rating           string   `json:"rating"`
		Pictures         []string `json:"pictures"`
		BookingLink      string   `json:"bookingLink"`
		MinimumDuration  string   `json:"minimumDuration"`
		Price            *struct {
			Amount       string `json:"amount"`
			CurrencyCode string `json:"currencyCode"`
		} `json:"price"`
		GeoCode *geoCode `json:"geoCode"`
	} `json:"data"`
}

// SearchActivities returns tours and activities within radiusKm of a point,
// in provider order.
func (c *Client) SearchActivities(ctx context.Context, lat, lon float64, radiusKm int) ([]*types.ActivityCandidate, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("radius", strconv.Itoa(radiusKm))

	var resp activityResponse
	if err := c.get(ctx, activitiesPath, params, &resp); err != nil {
		return nil, fmt.Errorf("search activities at %.4f,%.4f: %w", lat, lon, err)
	}

	out := make([]*types.ActivityCandidate, 0, len(resp.Data))
	for _, a := range resp.Data {
		candidate := &types.ActivityCandidate{
			ID:               a.ID,
			Type:             a.Type,
			Name:             a.Name,
			ShortDescription: a.ShortDescription,
			Description:      a.Description,
			Rating:           a.Rating,
			Pictures:         a.Pictures,
			BookingLink:      a.BookingLink,
			Duration:         a.MinimumDuration,
		}
		if a.Price != nil && a.Price.Amount != "" {
			candidate.Price = &types.Price{Amount: a.Price.Amount, Currency: a.Price.CurrencyCode}
		}
		if a.GeoCode != nil {
			candidate.Geocode = &types.Coordinates{
				Latitude:  float64(a.GeoCode.Latitude),
				Longitude: float64(a.GeoCode.Longitude),
			}
		}
		out = append(out, candidate)
	}
	return out, nil
}
