package itinerary

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-itinerary-enrichment/internal/types"
)

func TestParser_Parse(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		reply      string
		oracleErr  error
		wantStatus string
		wantDays   int
		wantError  string
	}{
		{
			name:       "success",
			reply:      `{"status": "success", "days": [{"day": 1, "location": "Lisbon", "activity_description": "Food tour", "overnight": "Lisbon"}, {"day": 2, "location": "Sintra", "activity_description": "Palace visit", "overnight": "Lisbon"}]}`,
			wantStatus: types.StatusSuccess,
			wantDays:   2,
		},
		{
			name:       "fenced reply",
			reply:      "```json\n{\"status\": \"success\", \"days\": [{\"day\": 1, \"location\": \"Rome\", \"activity_description\": \"Colosseum\", \"overnight\": \"Rome\"}]}\n```",
			wantStatus: types.StatusSuccess,
			wantDays:   1,
		},
		{
			name:       "missing status defaults to success",
			reply:      `{"days": [{"day": "1", "location": "Rome", "activity_description": "Colosseum", "overnight": "Rome"}]}`,
			wantStatus: types.StatusSuccess,
			wantDays:   1,
		},
		{
			name:       "parser reported error",
			reply:      `{"status": "error", "error": "no days found", "days": []}`,
			wantStatus: types.StatusError,
			wantError:  "no days found",
		},
		{
			name:       "missing days",
			reply:      `{"status": "success"}`,
			wantStatus: types.StatusError,
			wantError:  "did not return 'days' array",
		},
		{
			name:       "not json",
			reply:      `Here is your itinerary: day 1 Rome`,
			wantStatus: types.StatusError,
			wantError:  "invalid JSON",
		},
		{
			name:       "schema violation",
			reply:      `{"status": "maybe", "days": {}}`,
			wantStatus: types.StatusError,
			wantError:  ErrParseFailure.Error(),
		},
		{
			name:       "oracle error",
			oracleErr:  errors.New("quota exceeded"),
			wantStatus: types.StatusError,
			wantError:  "quota exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := new(MockOracle)
			oracle.On("GenerateText", mock.Anything, mock.AnythingOfType("string")).Return(tt.reply, tt.oracleErr).Once()

			parsed := NewParser(oracle, newTestLogger()).Parse(ctx, "Day 1: Rome")
			require.NotNil(t, parsed)
			assert.Equal(t, tt.wantStatus, parsed.Status)
			assert.Len(t, parsed.Days, tt.wantDays)
			if tt.wantError != "" {
				assert.Contains(t, parsed.Error, tt.wantError)
				assert.NotNil(t, parsed.Days)
			}
			oracle.AssertExpectations(t)
		})
	}
}

func TestParser_KeepsIncompleteDays(t *testing.T) {
	oracle := new(MockOracle)
	oracle.On("GenerateText", mock.Anything, mock.Anything).Return(`{"status": "success", "days": [
		{"day": 1, "location": "Kyoto", "activity_description": "Temples", "overnight": "Kyoto"},
		{"day": 2, "location": "Nara", "overnight": "Kyoto"},
		"not an object",
		{"day": 1.5, "location": "Osaka", "activity_description": "Street food", "overnight": "Osaka"},
		{"day": 3, "location": "Osaka", "activity_description": "Castle", "overnight": "Osaka"}
	]}`, nil)

	parsed := NewParser(oracle, newTestLogger()).Parse(context.Background(), "Japan trip")
	require.True(t, parsed.OK())
	// the parser keeps every entry; filtering is downstream
	assert.Len(t, parsed.Days, 5)

	usable := parsed.UsableDays()
	require.Len(t, usable, 2)
	assert.Equal(t, 1, usable[0].Day)
	assert.Equal(t, 3, usable[1].Day)
}

func TestParser_EmptyInput(t *testing.T) {
	oracle := new(MockOracle)
	parsed := NewParser(oracle, newTestLogger()).Parse(context.Background(), "   ")
	assert.Equal(t, types.StatusError, parsed.Status)
	oracle.AssertNotCalled(t, "GenerateText", mock.Anything, mock.Anything)
}

func TestParser_PromptCarriesItinerary(t *testing.T) {
	oracle := new(MockOracle)
	oracle.On("GenerateText", mock.Anything, mock.MatchedBy(func(p string) bool {
		return assert.Contains(t, p, "Day 1 - Porto, port cellars")
	})).Return(`{"status": "success", "days": []}`, nil).Once()

	parsed := NewParser(oracle, newTestLogger()).Parse(context.Background(), "Day 1 - Porto, port cellars")
	assert.True(t, parsed.OK())
	assert.Empty(t, parsed.Days)
	oracle.AssertExpectations(t)
}
