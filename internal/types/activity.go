package types

// Price is the provider's price quote. Amount is kept as the provider's
// decimal string.
type Price struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// ActivityCandidate is a tour/activity exactly as returned by the provider.
// Treat it as read-only once returned.
type ActivityCandidate struct {
	ID               string       `json:"id"`
	Type             string       `json:"type,omitempty"`
	Name             string       `json:"name"`
	ShortDescription string       `json:"short_description,omitempty"`
	Description      string       `json:"description,omitempty"`
	Rating           string       `json:"rating,omitempty"`
	Price            *Price       `json:"price,omitempty"`
	Duration         string       `json:"duration,omitempty"`
	Pictures         []string     `json:"pictures,omitempty"`
	BookingLink      string       `json:"booking_link,omitempty"`
	Geocode          *Coordinates `json:"geocode,omitempty"`
}

// SearchParams echoes the query behind an ActivitySearchResult.
type SearchParams struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  int     `json:"radius_km"`
}

// ActivitySearchResult holds the candidates for one day.
type ActivitySearchResult struct {
	Success      bool                 `json:"success"`
	Count        int                  `json:"count"`
	SearchParams *SearchParams        `json:"search_params,omitempty"`
	Activities   []*ActivityCandidate `json:"activities"`
}

// Empty reports whether there are no candidates.
func (r *ActivitySearchResult) Empty() bool {
	return r == nil || len(r.Activities) == 0
}
