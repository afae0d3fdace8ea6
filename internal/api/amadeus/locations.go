package amadeus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-itinerary-enrichment/internal/types"
)

// number accepts a JSON number or a numeric string; the activities
// endpoint sends coordinates as strings.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", s, err)
		}
		*n = number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = number(f)
	return nil
}

type geoCode struct {
	Latitude  number `json:"latitude"`
	Longitude number `json:"longitude"`
}

type cityResponse struct {
	Data []struct {
		Name     string `json:"name"`
		IataCode string `json:"iataCode"`
		Address  struct {
			CountryCode string `json:"countryCode"`
			StateCode   string `json:"stateCode"`
		} `json:"address"`
		GeoCode *geoCode `json:"geoCode"`
	} `json:"data"`
}

// SearchCities looks up cities by keyword. countryCode may be empty.
// Matches without a geocode are dropped.
func (c *Client) SearchCities(ctx context.Context, keyword, countryCode string, max int) ([]types.Location, error) {
	params := url.Values{}
	params.Set("keyword", keyword)
	if countryCode != "" {
		params.Set("countryCode", strings.ToUpper(countryCode))
	}
	if max > 0 {
		params.Set("max", strconv.Itoa(max))
	}

	var resp cityResponse
	if err := c.get(ctx, citiesPath, params, &resp); err != nil {
		return nil, fmt.Errorf("search cities %q: %w", keyword, err)
	}

	locations := make([]types.Location, 0, len(resp.Data))
	for _, city := range resp.Data {
		if city.GeoCode == nil {
			continue
		}
		locations = append(locations, types.Location{
			Name:        city.Name,
			IataCode:    city.IataCode,
			CountryCode: city.Address.CountryCode,
			StateCode:   city.Address.StateCode,
			Latitude:    float64(city.GeoCode.Latitude),
			Longitude:   float64(city.GeoCode.Longitude),
		})
	}
	return locations, nil
}
