package itinerary

import (
	"encoding/json"
	"fmt"
)

func getParseItineraryPrompt(itineraryText string) string {
	return fmt.Sprintf(`
            You are an expert travel itinerary parser. Extract structured information from raw itinerary text.
            The itinerary may be a table, a bullet list or free prose.

            Extract for each day:
            - day: Day number (integer)
            - location: Primary location/city for activities
            - activity_description: What the traveler will do
            - overnight: Where they'll stay overnight

            INPUT ITINERARY:
            %s

            Return the response STRICTLY as a JSON object, no markdown, no backticks, no explanations:
            {
              "status": "success",
              "days": [
                {
                  "day": 1,
                  "location": "city name",
                  "activity_description": "what they'll do",
                  "overnight": "where they'll sleep"
                }
              ]
            }

            If the itinerary is unclear or invalid:
            {
              "status": "error",
              "error": "description of the problem",
              "days": []
            }`, itineraryText)
}

// tourSummary is the reduced view of a candidate shown to the oracle.
type tourSummary struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Duration    string `json:"duration"`
}

func getSelectTourPrompt(activityRequested string, summaries []tourSummary) string {
	tours, _ := json.MarshalIndent(summaries, "", "  ")
	return fmt.Sprintf(`
            You are an expert travel activity matcher. Select the best tour index.

            TRAVELER REQUEST:
            Desired Activity: %s

            AVAILABLE TOURS:
            %s

            TASK:
            1. Analyze which tour best matches the requested activity
            2. Consider activity type, keywords in name/description and relevance
            3. Assign confidence: "high" (excellent match), "medium" (good match), "low" (weak match)

            Return the response STRICTLY as a JSON object, no markdown:
            {
              "selected_index": 0,
              "confidence": "high",
              "reasoning": "Brief explanation of why this tour matches"
            }

            If no good match exists (all tours are completely irrelevant):
            {
              "selected_index": null,
              "confidence": "none",
              "reasoning": "Why no tours match well"
            }`, activityRequested, tours)
}
