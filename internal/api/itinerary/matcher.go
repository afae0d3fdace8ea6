package itinerary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-itinerary-enrichment/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-enrichment/internal/types"
)

const fallbackReasoning = "Fallback selection due to parsing error"

// Matcher picks one candidate per day. The oracle only ever returns a
// position; the tour placed in the result is the searched candidate itself.
type Matcher struct {
	oracle            Oracle
	descriptionLength int
	fanOut            FanOutOptions
	logger            *slog.Logger
	metrics           *metrics.AppMetrics
}

func NewMatcher(oracle Oracle, descriptionLength int, fanOut FanOutOptions, logger *slog.Logger) *Matcher {
	metrics.InitAppMetrics()
	return &Matcher{
		oracle:            oracle,
		descriptionLength: descriptionLength,
		fanOut:            fanOut,
		logger:            logger,
		metrics:           metrics.Get(),
	}
}

type matchTask struct {
	day        types.DayPlan
	candidates []*types.ActivityCandidate
}

type matchOutcome struct {
	result  types.MatchResult
	warning string
}

// Run writes state.Enriched with one MatchResult per usable day, sorted by
// day number. Days that never got a search result have no candidates.
func (m *Matcher) Run(ctx context.Context, state *RunState) {
	ctx, span := otel.Tracer("ItineraryPipeline").Start(ctx, "Matcher.Run")
	defer span.End()

	days := state.Days()
	tasks := make([]matchTask, 0, len(days))
	for _, d := range days {
		var candidates []*types.ActivityCandidate
		if res, ok := state.Activities[d.Day]; ok && res != nil {
			candidates = res.Activities
		}
		tasks = append(tasks, matchTask{day: d, candidates: candidates})
	}

	outcomes := FanOut(ctx, tasks, m.fanOut, func(ctx context.Context, t matchTask) (matchOutcome, error) {
		return m.matchDay(ctx, t), nil
	})

	results := make([]types.MatchResult, 0, len(outcomes))
	for _, o := range outcomes {
		out := o.Result
		if o.Err != nil {
			// only a panic gets here
			out = m.errorOutcome(ctx, o.Item, o.Err)
		}
		if out.warning != "" {
			state.Warn(out.warning)
		}
		if !out.result.Matched() {
			state.Warn(fmt.Sprintf("No tours found for day %d in %s", out.result.Day, out.result.Overnight))
		}
		results = append(results, out.result)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Day < results[j].Day })

	status := types.StatusSuccess
	if len(results) == 0 {
		status = types.StatusError
		m.logger.WarnContext(ctx, "Matcher produced no results", slog.Any("error", ErrAggregationFailure))
	}
	state.Enriched = &types.EnrichedItinerary{
		Status:   status,
		Days:     results,
		Warnings: state.Warnings(),
	}

	matched := 0
	for _, r := range results {
		if r.Matched() {
			matched++
		}
	}
	span.SetAttributes(attribute.Int("match.days", len(results)), attribute.Int("match.matched", matched))
	m.logger.InfoContext(ctx, "Matching complete",
		slog.Int("days", len(results)),
		slog.Int("matched", matched),
	)
}

func (m *Matcher) matchDay(ctx context.Context, t matchTask) matchOutcome {
	base := types.MatchResult{
		Day:               t.day.Day,
		Location:          t.day.Location,
		ActivityRequested: t.day.ActivityDescription,
		Overnight:         t.day.Overnight,
		Confidence:        types.ConfidenceNone,
	}

	if len(t.candidates) == 0 {
		base.Reasoning = fmt.Sprintf("No tours available in %s", t.day.Overnight)
		return matchOutcome{result: base}
	}

	logger := m.logger.With(slog.Int("day", t.day.Day), slog.String("location", t.day.Overnight))

	reply, err := m.oracle.GenerateText(ctx, getSelectTourPrompt(t.day.ActivityDescription, m.summarize(t.candidates)))
	if err != nil {
		return m.errorOutcome(ctx, t, err)
	}

	sel := parseSelection(reply, len(t.candidates))
	var warning string
	switch {
	case sel.fallback:
		logger.WarnContext(ctx, "Selection reply was not valid JSON, using first candidate", slog.Any("error", sel.err))
		m.metrics.OracleFallbacksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "parse_error")))
	case sel.clamped:
		logger.WarnContext(ctx, "Selection index invalid, using first candidate", slog.String("selected_index", sel.rawIndex))
		m.metrics.OracleFallbacksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "invalid_index")))
		warning = fmt.Sprintf("Invalid tour index %s for day %d, using first available tour", sel.rawIndex, t.day.Day)
	}

	base.Confidence = sel.confidence
	base.Reasoning = sel.reasoning
	if sel.index >= 0 {
		base.MatchedTour = t.candidates[sel.index]
	}
	return matchOutcome{result: base, warning: warning}
}

func (m *Matcher) errorOutcome(ctx context.Context, t matchTask, cause error) matchOutcome {
	m.logger.WarnContext(ctx, "Matching failed",
		slog.Int("day", t.day.Day),
		slog.Any("error", fmt.Errorf("%w: day %d: %v", ErrSelectionFailure, t.day.Day, cause)),
	)
	m.metrics.OracleFallbacksTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "oracle_error")))

	return matchOutcome{
		result: types.MatchResult{
			Day:               t.day.Day,
			Location:          t.day.Location,
			ActivityRequested: t.day.ActivityDescription,
			Overnight:         t.day.Overnight,
			Confidence:        types.ConfidenceNone,
			Reasoning:         fmt.Sprintf("Error during matching: %v", cause),
		},
		warning: fmt.Sprintf("Matching failed for day %d: %v", t.day.Day, cause),
	}
}

// summarize builds the reduced candidate view sent to the oracle.
func (m *Matcher) summarize(candidates []*types.ActivityCandidate) []tourSummary {
	summaries := make([]tourSummary, len(candidates))
	for i, c := range candidates {
		name := c.Name
		if name == "" {
			name = "Unnamed tour"
		}
		price := "N/A"
		if c.Price != nil && c.Price.Amount != "" {
			price = c.Price.Amount
		}
		duration := "N/A"
		if c.Duration != "" {
			duration = c.Duration
		}
		summaries[i] = tourSummary{
			Index:       i,
			Name:        name,
			Description: truncate(stripHTML(c.Description), m.descriptionLength),
			Price:       price,
			Duration:    duration,
		}
	}
	return summaries
}

type selection struct {
	index      int // -1 for no match
	confidence types.Confidence
	reasoning  string

	fallback bool   // reply could not be parsed
	clamped  bool   // index was invalid and replaced by 0
	rawIndex string // the index as sent, when clamped
	err      error
}

// parseSelection validates an oracle reply against n candidates.
func parseSelection(reply string, n int) selection {
	var body struct {
		SelectedIndex json.RawMessage `json:"selected_index"`
		Confidence    *string         `json:"confidence"`
		Reasoning     string          `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &body); err != nil {
		return selection{
			index:      0,
			confidence: types.ConfidenceLow,
			reasoning:  fallbackReasoning,
			fallback:   true,
			err:        err,
		}
	}

	raw := bytes.TrimSpace(body.SelectedIndex)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		reasoning := body.Reasoning
		if reasoning == "" {
			reasoning = "No suitable match"
		}
		return selection{index: -1, confidence: types.ConfidenceNone, reasoning: reasoning}
	}

	confidence := types.ConfidenceMedium
	if body.Confidence != nil {
		confidence = types.ParseConfidence(*body.Confidence)
	}
	sel := selection{confidence: confidence, reasoning: body.Reasoning}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || f != math.Trunc(f) || f < 0 || f >= float64(n) {
		sel.index = 0
		sel.clamped = true
		sel.rawIndex = string(raw)
		return sel
	}
	sel.index = int(f)
	return sel
}
