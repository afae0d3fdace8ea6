package types

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is one geocoding match.
type Location struct {
	Name        string  `json:"name"`
	IataCode    string  `json:"iata_code,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	StateCode   string  `json:"state_code,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// LocationResult is the resolver's record for one unique overnight value.
type LocationResult struct {
	Success         bool       `json:"success"`
	Count           int        `json:"count"`
	Locations       []Location `json:"locations"`
	PrimaryLocation *Location  `json:"primary_location,omitempty"`
}

// Payload wraps the result as a primary-location coordinate payload.
func (r *LocationResult) Payload() CoordinatePayload {
	if r == nil || r.PrimaryLocation == nil {
		return UnrecognizedPayload{}
	}
	return PrimaryLocationPayload{PrimaryLocation: *r.PrimaryLocation}
}

// CoordinatePayload is one of the known location encodings.
// The concrete types are DirectCoordinates, PrimaryLocationPayload,
// CoordinateSearchPayload and UnrecognizedPayload.
type CoordinatePayload interface {
	coordinatePayload()
}

// DirectCoordinates carries latitude/longitude at the top level.
type DirectCoordinates struct {
	Latitude  float64
	Longitude float64
}

// PrimaryLocationPayload nests the point under "primary_location".
type PrimaryLocationPayload struct {
	PrimaryLocation Location
}

// CoordinateSearchPayload nests the point under
// "coordinate_search_result" -> "coordinates".
type CoordinateSearchPayload struct {
	Coordinates Coordinates
}

// UnrecognizedPayload is anything else. Extraction always fails for it.
type UnrecognizedPayload struct {
	Raw json.RawMessage
}

func (DirectCoordinates) coordinatePayload()       {}
func (PrimaryLocationPayload) coordinatePayload()  {}
func (CoordinateSearchPayload) coordinatePayload() {}
func (UnrecognizedPayload) coordinatePayload()     {}

// ExtractCoordinates normalizes any known payload to a single point.
func ExtractCoordinates(p CoordinatePayload) (Coordinates, bool) {
	switch v := p.(type) {
	case DirectCoordinates:
		return Coordinates{Latitude: v.Latitude, Longitude: v.Longitude}, true
	case PrimaryLocationPayload:
		return Coordinates{Latitude: v.PrimaryLocation.Latitude, Longitude: v.PrimaryLocation.Longitude}, true
	case CoordinateSearchPayload:
		return v.Coordinates, true
	default:
		return Coordinates{}, false
	}
}

// DecodeCoordinatePayload classifies raw JSON into one of the known
// encodings. Numeric fields may be JSON numbers or numeric strings.
func DecodeCoordinatePayload(raw []byte) CoordinatePayload {
	unrecognized := UnrecognizedPayload{Raw: append(json.RawMessage(nil), raw...)}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return unrecognized
	}

	if nested, ok := top["primary_location"]; ok && !isNull(nested) {
		lat, lon, ok := latLon(nested)
		if !ok {
			return unrecognized
		}
		var names struct {
			Name        string `json:"name"`
			IataCode    string `json:"iata_code"`
			CountryCode string `json:"country_code"`
			StateCode   string `json:"state_code"`
		}
		_ = json.Unmarshal(nested, &names)
		return PrimaryLocationPayload{PrimaryLocation: Location{
			Name:        names.Name,
			IataCode:    names.IataCode,
			CountryCode: names.CountryCode,
			StateCode:   names.StateCode,
			Latitude:    lat,
			Longitude:   lon,
		}}
	}

	if wrapper, ok := top["coordinate_search_result"]; ok && !isNull(wrapper) {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(wrapper, &inner); err != nil {
			return unrecognized
		}
		coords, ok := inner["coordinates"]
		if !ok {
			return unrecognized
		}
		lat, lon, ok := latLon(coords)
		if !ok {
			return unrecognized
		}
		return CoordinateSearchPayload{Coordinates: Coordinates{Latitude: lat, Longitude: lon}}
	}

	if lat, lon, ok := latLon(raw); ok {
		return DirectCoordinates{Latitude: lat, Longitude: lon}
	}
	return unrecognized
}

func latLon(raw json.RawMessage) (float64, float64, bool) {
	var fields struct {
		Latitude  json.RawMessage `json:"latitude"`
		Longitude json.RawMessage `json:"longitude"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return 0, 0, false
	}
	lat, ok := flexFloat(fields.Latitude)
	if !ok {
		return 0, 0, false
	}
	lon, ok := flexFloat(fields.Longitude)
	if !ok {
		return 0, 0, false
	}
	return lat, lon, true
}

func flexFloat(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || isNull(raw) {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
