package itinerary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-itinerary-enrichment/internal/types"
)

type oracleFunc func(ctx context.Context, prompt string) (string, error)

func (f oracleFunc) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func matchState(acts map[int][]*types.ActivityCandidate, days ...types.DayPlan) *RunState {
	state := parsedState(days...)
	for d, a := range acts {
		state.Activities[d] = searchResult(a)
	}
	return state
}

func newTestMatcher(oracle Oracle) *Matcher {
	return NewMatcher(oracle, 200, FanOutOptions{Limit: 4}, newTestLogger())
}

func TestMatcher_SelectsExactCandidate(t *testing.T) {
	acts := candidates("Sushi class", "Tea ceremony", "Sumo morning")
	oracle := new(MockOracle)
	oracle.On("GenerateText", mock.Anything, mock.Anything).
		Return(`{"selected_index": 1, "confidence": "high", "reasoning": "Tea ceremony matches"}`, nil).Once()

	state := matchState(map[int][]*types.ActivityCandidate{1: acts}, day(1, "Tokyo", "Traditional tea"))
	newTestMatcher(oracle).Run(context.Background(), state)

	require.NotNil(t, state.Enriched)
	assert.Equal(t, types.StatusSuccess, state.Enriched.Status)
	require.Len(t, state.Enriched.Days, 1)

	got := state.Enriched.Days[0]
	assert.Same(t, acts[1], got.MatchedTour)
	assert.Equal(t, types.ConfidenceHigh, got.Confidence)
	assert.Equal(t, "Tea ceremony matches", got.Reasoning)
	assert.Equal(t, "Traditional tea", got.ActivityRequested)
	assert.Equal(t, "Tokyo", got.Overnight)
	assert.Empty(t, state.Warnings())
	oracle.AssertExpectations(t)
}

func TestMatcher_EmptyCandidatesSkipOracle(t *testing.T) {
	oracle := new(MockOracle)
	state := matchState(map[int][]*types.ActivityCandidate{1: {}}, day(1, "Reykjavik", "Northern lights"), day(2, "Vik", "Beach"))

	newTestMatcher(oracle).Run(context.Background(), state)

	oracle.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything)
	require.Len(t, state.Enriched.Days, 2)
	for _, d := range state.Enriched.Days {
		assert.Nil(t, d.MatchedTour)
		assert.Equal(t, types.ConfidenceNone, d.Confidence)
		assert.Contains(t, d.Reasoning, "No tours available in")
	}
	// no-match days still count as produced results
	assert.Equal(t, types.StatusSuccess, state.Enriched.Status)
	assert.Equal(t, []string{
		"No tours found for day 1 in Reykjavik",
		"No tours found for day 2 in Vik",
	}, state.Enriched.Warnings)
}

func TestMatcher_ReplyHandling(t *testing.T) {
	tests := []struct {
		name           string
		reply          string
		wantIndex      int // -1 for no match
		wantConfidence types.Confidence
		wantReasoning  string
		wantWarnings   int
	}{
		{
			name:           "fenced reply",
			reply:          "```json\n{\"selected_index\": 2, \"confidence\": \"low\", \"reasoning\": \"closest\"}\n```",
			wantIndex:      2,
			wantConfidence: types.ConfidenceLow,
			wantReasoning:  "closest",
		},
		{
			name:           "null index is no match",
			reply:          `{"selected_index": null, "confidence": "none", "reasoning": "Nothing about skiing"}`,
			wantIndex:      -1,
			wantConfidence: types.ConfidenceNone,
			wantReasoning:  "Nothing about skiing",
			wantWarnings:   1,
		},
		{
			name:           "missing index is no match",
			reply:          `{"confidence": "none"}`,
			wantIndex:      -1,
			wantConfidence: types.ConfidenceNone,
			wantReasoning:  "No suitable match",
			wantWarnings:   1,
		},
		{
			name:           "out of range index clamps to first",
			reply:          `{"selected_index": 7, "confidence": "high", "reasoning": "r"}`,
			wantIndex:      0,
			wantConfidence: types.ConfidenceHigh,
			wantReasoning:  "r",
			wantWarnings:   1,
		},
		{
			name:           "negative index clamps to first",
			reply:          `{"selected_index": -1, "confidence": "medium", "reasoning": "r"}`,
			wantIndex:      0,
			wantConfidence: types.ConfidenceMedium,
			wantReasoning:  "r",
			wantWarnings:   1,
		},
		{
			name:           "non integer index clamps to first",
			reply:          `{"selected_index": "second", "confidence": "high", "reasoning": "r"}`,
			wantIndex:      0,
			wantConfidence: types.ConfidenceHigh,
			wantReasoning:  "r",
			wantWarnings:   1,
		},
		{
			name:           "fractional index clamps to first",
			reply:          `{"selected_index": 1.5, "reasoning": "r"}`,
			wantIndex:      0,
			wantConfidence: types.ConfidenceMedium,
			wantReasoning:  "r",
			wantWarnings:   1,
		},
		{
			name:           "missing confidence defaults to medium",
			reply:          `{"selected_index": 1, "reasoning": "ok"}`,
			wantIndex:      1,
			wantConfidence: types.ConfidenceMedium,
			wantReasoning:  "ok",
		},
		{
			name:           "unknown confidence defaults to medium",
			reply:          `{"selected_index": 1, "confidence": "certain", "reasoning": "ok"}`,
			wantIndex:      1,
			wantConfidence: types.ConfidenceMedium,
			wantReasoning:  "ok",
		},
		{
			name:           "trailing commentary falls back to first",
			reply:          `{"selected_index": 2, "confidence": "high", "reasoning": "x"} I hope this helps!`,
			wantIndex:      0,
			wantConfidence: types.ConfidenceLow,
			wantReasoning:  fallbackReasoning,
		},
		{
			name:           "prose falls back to first",
			reply:          `The second tour is best.`,
			wantIndex:      0,
			wantConfidence: types.ConfidenceLow,
			wantReasoning:  fallbackReasoning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acts := candidates("Alpha", "Bravo", "Charlie")
			oracle := new(MockOracle)
			oracle.On("GenerateText", mock.Anything, mock.Anything).Return(tt.reply, nil).Once()

			state := matchState(map[int][]*types.ActivityCandidate{4: acts}, day(4, "Oslo", "Fjord"))
			newTestMatcher(oracle).Run(context.Background(), state)

			require.Len(t, state.Enriched.Days, 1)
			got := state.Enriched.Days[0]
			if tt.wantIndex < 0 {
				assert.Nil(t, got.MatchedTour)
			} else {
				assert.Same(t, acts[tt.wantIndex], got.MatchedTour)
			}
			assert.Equal(t, tt.wantConfidence, got.Confidence)
			assert.Equal(t, tt.wantReasoning, got.Reasoning)
			assert.Len(t, state.Warnings(), tt.wantWarnings)
			assert.Equal(t, types.StatusSuccess, state.Enriched.Status)
		})
	}
}

func TestMatcher_OracleErrorIsolated(t *testing.T) {
	good := candidates("Canal cruise")
	bad := candidates("Bike tour")
	oracle := &scriptedOracle{}
	oracle.on("Desired Activity: Canals", `{"selected_index": 0, "confidence": "high", "reasoning": "cruise"}`).
		fail("Desired Activity: Cycling", errors.New("deadline exceeded"))

	state := matchState(map[int][]*types.ActivityCandidate{1: good, 2: bad},
		day(1, "Amsterdam", "Canals"), day(2, "Utrecht", "Cycling"))
	newTestMatcher(oracle).Run(context.Background(), state)

	require.Len(t, state.Enriched.Days, 2)
	assert.Same(t, good[0], state.Enriched.Days[0].MatchedTour)

	failed := state.Enriched.Days[1]
	assert.Nil(t, failed.MatchedTour)
	assert.Equal(t, types.ConfidenceNone, failed.Confidence)
	assert.Equal(t, "Error during matching: deadline exceeded", failed.Reasoning)

	warnings := strings.Join(state.Warnings(), "\n")
	assert.Contains(t, warnings, "Matching failed for day 2")
	assert.Contains(t, warnings, "No tours found for day 2 in Utrecht")
}

func TestMatcher_SortedByDay(t *testing.T) {
	// earlier days answer last
	oracle := oracleFunc(func(ctx context.Context, prompt string) (string, error) {
		delay := 1 * time.Millisecond
		switch {
		case strings.Contains(prompt, "Desired Activity: d1"):
			delay = 30 * time.Millisecond
		case strings.Contains(prompt, "Desired Activity: d3"):
			delay = 15 * time.Millisecond
		}
		time.Sleep(delay)
		return `{"selected_index": 0, "confidence": "high", "reasoning": "ok"}`, nil
	})

	acts := map[int][]*types.ActivityCandidate{
		1: candidates("a"), 3: candidates("b"), 7: candidates("c"), 9: candidates("d"),
	}
	state := matchState(acts, day(9, "X", "d9"), day(3, "X", "d3"), day(1, "X", "d1"), day(7, "X", "d7"))
	newTestMatcher(oracle).Run(context.Background(), state)

	var order []int
	for _, d := range state.Enriched.Days {
		order = append(order, d.Day)
	}
	assert.Equal(t, []int{1, 3, 7, 9}, order)
}

func TestMatcher_NoDaysIsAggregationFailure(t *testing.T) {
	oracle := new(MockOracle)
	state := parsedState()
	newTestMatcher(oracle).Run(context.Background(), state)

	require.NotNil(t, state.Enriched)
	assert.Equal(t, types.StatusError, state.Enriched.Status)
	assert.Empty(t, state.Enriched.Days)
}

func TestMatcher_PromptUsesSummaries(t *testing.T) {
	long := strings.Repeat("x", 500)
	acts := []*types.ActivityCandidate{{
		ID:          "T1",
		Name:        "Long tour",
		Description: "<div>" + long + "</div>",
		BookingLink: "https://book.example/secret-link",
		Duration:    "4 hours",
		Price:       &types.Price{Amount: "99.00", Currency: "EUR"},
	}, {
		ID:   "T2",
		Name: "",
	}}

	oracle := new(MockOracle)
	oracle.On("GenerateText", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, `"description": "`+strings.Repeat("x", 200)+`"`) &&
			!strings.Contains(p, strings.Repeat("x", 201)) &&
			!strings.Contains(p, "secret-link") &&
			!strings.Contains(p, "<div>") &&
			strings.Contains(p, `"price": "99.00"`) &&
			strings.Contains(p, `"duration": "4 hours"`) &&
			strings.Contains(p, `"name": "Unnamed tour"`) &&
			strings.Contains(p, `"price": "N/A"`)
	})).Return(`{"selected_index": 0, "confidence": "high", "reasoning": "ok"}`, nil).Once()

	state := matchState(map[int][]*types.ActivityCandidate{1: acts}, day(1, "Nice", "Long walk"))
	newTestMatcher(oracle).Run(context.Background(), state)

	oracle.AssertExpectations(t)
	assert.Same(t, acts[0], state.Enriched.Days[0].MatchedTour)
}

func TestMatcher_PanicIsIsolated(t *testing.T) {
	oracle := oracleFunc(func(ctx context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "Desired Activity: boom") {
			panic("oracle exploded")
		}
		return `{"selected_index": 0, "confidence": "high", "reasoning": "ok"}`, nil
	})

	acts := map[int][]*types.ActivityCandidate{1: candidates("a"), 2: candidates("b")}
	state := matchState(acts, day(1, "X", "fine"), day(2, "Y", "boom"))
	newTestMatcher(oracle).Run(context.Background(), state)

	require.Len(t, state.Enriched.Days, 2)
	assert.NotNil(t, state.Enriched.Days[0].MatchedTour)
	assert.Nil(t, state.Enriched.Days[1].MatchedTour)
	assert.Contains(t, state.Enriched.Days[1].Reasoning, "oracle exploded")
}
