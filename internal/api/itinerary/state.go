package itinerary

import (
	"sort"
	"strconv"

	"github.com/FACorreiaa/go-itinerary-enrichment/internal/types"
)

// RunState is the context for one enrichment run. Each field has a single
// writing stage, and stages write only after their fan-out has joined.
type RunState struct {
	RunID string
	Input string

	Parsed     *types.ParsedItinerary              // parser
	Locations  map[string]*types.LocationResult    // resolver, keyed by overnight value
	Coords     map[string]types.CoordinatePayload  // resolver, keyed by overnight value
	Activities map[int]*types.ActivitySearchResult // activity search, keyed by day
	Enriched   *types.EnrichedItinerary            // matcher
	Formatted  string                              // formatter

	warnings []string
}

func NewRunState(runID, input string) *RunState {
	return &RunState{
		RunID:      runID,
		Input:      input,
		Locations:  make(map[string]*types.LocationResult),
		Coords:     make(map[string]types.CoordinatePayload),
		Activities: make(map[int]*types.ActivitySearchResult),
	}
}

// Days returns the parsed days fit for downstream stages.
func (s *RunState) Days() []types.DayPlan {
	return s.Parsed.UsableDays()
}

// Warn appends a user-visible warning.
func (s *RunState) Warn(msg string) {
	s.warnings = append(s.warnings, msg)
}

// Warnings returns a copy of the warnings in arrival order.
func (s *RunState) Warnings() []string {
	out := make([]string, len(s.warnings))
	copy(out, s.warnings)
	return out
}

// Keys lists the populated entries using their flat names
// (parsed_days, coords_<location>, activities_day_<N>, ...).
func (s *RunState) Keys() []string {
	var keys []string
	if s.Parsed != nil {
		keys = append(keys, "parsed_days")
	}

	locs := make([]string, 0, len(s.Coords))
	for loc := range s.Coords {
		locs = append(locs, loc)
	}
	sort.Strings(locs)
	for _, loc := range locs {
		keys = append(keys, "coords_"+loc)
	}

	days := make([]int, 0, len(s.Activities))
	for d := range s.Activities {
		days = append(days, d)
	}
	sort.Ints(days)
	for _, d := range days {
		keys = append(keys, "activities_day_"+strconv.Itoa(d))
	}

	if s.Enriched != nil {
		keys = append(keys, "enriched_itinerary")
	}
	if s.Formatted != "" {
		keys = append(keys, "formatted_itinerary")
	}
	return keys
}
