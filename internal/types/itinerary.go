package types

import "strings"

// DayPlan is one structured day extracted from a raw itinerary.
type DayPlan struct {
	Day                 int    `json:"day"`
	Location            string `json:"location"`
	ActivityDescription string `json:"activity_description"`
	Overnight           string `json:"overnight"` // geocoding key
}

// Complete reports whether the day carries every required field.
func (d DayPlan) Complete() bool {
	return d.Day > 0 &&
		strings.TrimSpace(d.Location) != "" &&
		strings.TrimSpace(d.ActivityDescription) != "" &&
		strings.TrimSpace(d.Overnight) != ""
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ParsedItinerary is the parser stage output.
type ParsedItinerary struct {
	Status string    `json:"status"`
	Error  string    `json:"error,omitempty"`
	Days   []DayPlan `json:"days"`
}

// OK reports whether the parser succeeded.
func (p *ParsedItinerary) OK() bool {
	return p != nil && p.Status == StatusSuccess
}

// UsableDays returns the complete days, keeping the first occurrence of
// each day number.
func (p *ParsedItinerary) UsableDays() []DayPlan {
	if p == nil {
		return nil
	}
	seen := make(map[int]struct{}, len(p.Days))
	days := make([]DayPlan, 0, len(p.Days))
	for _, d := range p.Days {
		if !d.Complete() {
			continue
		}
		if _, dup := seen[d.Day]; dup {
			continue
		}
		seen[d.Day] = struct{}{}
		days = append(days, d)
	}
	return days
}

// Confidence is the oracle's self-reported certainty for a selection.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// ParseConfidence maps free text onto a Confidence, defaulting to medium.
func ParseConfidence(s string) Confidence {
	switch c := Confidence(strings.ToLower(strings.TrimSpace(s))); c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow, ConfidenceNone:
		return c
	default:
		return ConfidenceMedium
	}
}

// MatchResult is the matcher's decision for one day. MatchedTour, when set,
// points at an element of that day's ActivitySearchResult.Activities.
type MatchResult struct {
	Day               int                `json:"day"`
	Location          string             `json:"location"`
	ActivityRequested string             `json:"activity_requested"`
	MatchedTour       *ActivityCandidate `json:"matched_tour,omitempty"`
	Confidence        Confidence         `json:"confidence"`
	Reasoning         string             `json:"reasoning"`
	Overnight         string             `json:"overnight"`
}

// Matched reports whether a tour was selected.
func (m MatchResult) Matched() bool { return m.MatchedTour != nil }

// EnrichedItinerary is the matcher stage output, days sorted ascending.
type EnrichedItinerary struct {
	Status   string        `json:"status"`
	Days     []MatchResult `json:"days"`
	Warnings []string      `json:"warnings"`
}

// PipelineState names the pipeline's position in its state machine.
type PipelineState string

const (
	StateParsing             PipelineState = "parsing"
	StateResolvingLocations  PipelineState = "resolving_locations"
	StateSearchingActivities PipelineState = "searching_activities"
	StateMatching            PipelineState = "matching"
	StateFormatting          PipelineState = "formatting"
	StateDone                PipelineState = "done"
	StateFailed              PipelineState = "failed"
)

// Terminal reports whether no further transitions are possible.
func (s PipelineState) Terminal() bool { return s == StateDone || s == StateFailed }

// RunResult is what a caller receives at the end of one enrichment run.
type RunResult struct {
	RunID             string             `json:"run_id"`
	Status            string             `json:"status"`
	State             PipelineState      `json:"state"`
	ParsedDays        []DayPlan          `json:"parsed_days"`
	EnrichedItinerary *EnrichedItinerary `json:"enriched_itinerary,omitempty"`
	FormattedOutput   string             `json:"formatted_output"`
	Warnings          []string           `json:"warnings"`
	Error             string             `json:"error,omitempty"`
}

// EnrichItineraryRequest is the HTTP request body for a run.
type EnrichItineraryRequest struct {
	Itinerary string `json:"itinerary"`
}
