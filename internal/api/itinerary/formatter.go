package itinerary

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"

	"github.com/FACorreiaa/go-itinerary-enrichment/internal/types"
)

const defaultCurrency = "USD"

// Formatter renders an enriched itinerary as markdown. Every tour fact in
// the output comes straight from the matched candidate.
type Formatter struct {
	photoLimit int
}

func NewFormatter(photoLimit int) *Formatter {
	if photoLimit <= 0 {
		photoLimit = 3
	}
	return &Formatter{photoLimit: photoLimit}
}

// Run writes state.Formatted.
func (f *Formatter) Run(ctx context.Context, state *RunState) {
	_, span := otel.Tracer("ItineraryPipeline").Start(ctx, "Formatter.Run")
	defer span.End()
	state.Formatted = f.Format(state.Enriched)
}

func (f *Formatter) Format(e *types.EnrichedItinerary) string {
	if e == nil || e.Status != types.StatusSuccess {
		return "Error: No enriched itinerary available"
	}

	var b strings.Builder
	b.WriteString("# Your Enriched Travel Itinerary\n")

	var cost costSummary
	for _, day := range e.Days {
		f.writeDay(&b, day)
		if day.MatchedTour != nil {
			cost.add(day.MatchedTour.Price)
		}
	}

	b.WriteString("\n## Summary\n\n")
	if cost.total > 0 {
		fmt.Fprintf(&b, "**Total Estimated Cost:** %.2f %s\n\n", cost.total, cost.currency)
	}
	if len(cost.excluded) > 0 {
		fmt.Fprintf(&b, "*Not included in the total (different currency): %s*\n\n", strings.Join(cost.excluded, ", "))
	}

	if len(e.Warnings) > 0 {
		b.WriteString("### ⚠️ Warnings\n\n")
		for _, w := range e.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	b.WriteString("*All tour data provided by Amadeus API*\n")
	return b.String()
}

func (f *Formatter) writeDay(b *strings.Builder, day types.MatchResult) {
	location := orDefault(day.Location, day.Overnight)
	fmt.Fprintf(b, "\n## Day %d: %s\n", day.Day, orDefault(location, "Unknown"))
	fmt.Fprintf(b, "**Requested Activity:** %s\n", orDefault(day.ActivityRequested, "No activity specified"))
	fmt.Fprintf(b, "**Overnight:** %s\n\n", orDefault(day.Overnight, location))

	tour := day.MatchedTour
	if tour == nil {
		b.WriteString("### ⚠️ No Tour Matched\n")
		fmt.Fprintf(b, "**Reason:** %s\n\n", day.Reasoning)
		b.WriteString("\n---\n")
		return
	}

	fmt.Fprintf(b, "### ✅ Matched Tour: %s\n", orDefault(tour.Name, "Unnamed Tour"))
	fmt.Fprintf(b, "**Confidence:** %s\n", strings.ToUpper(string(day.Confidence)))
	if day.Reasoning != "" {
		fmt.Fprintf(b, "**Why this match:** %s\n\n", day.Reasoning)
	}

	fmt.Fprintf(b, "**Description:**\n%s\n\n", orDefault(stripHTML(tour.Description), "No description available"))

	amount, currency := "N/A", defaultCurrency
	if tour.Price != nil {
		amount = orDefault(tour.Price.Amount, amount)
		currency = orDefault(tour.Price.Currency, currency)
	}
	lat, lon := "N/A", "N/A"
	if tour.Geocode != nil {
		lat = strconv.FormatFloat(tour.Geocode.Latitude, 'f', -1, 64)
		lon = strconv.FormatFloat(tour.Geocode.Longitude, 'f', -1, 64)
	}

	b.WriteString("**Details:**\n")
	fmt.Fprintf(b, "- **Tour ID:** %s\n", orDefault(tour.ID, "N/A"))
	fmt.Fprintf(b, "- **Type:** %s\n", orDefault(tour.Type, "activity"))
	fmt.Fprintf(b, "- **Duration:** %s\n", orDefault(tour.Duration, "Duration not specified"))
	fmt.Fprintf(b, "- **Price:** %s %s\n", amount, currency)
	fmt.Fprintf(b, "- **Location:** %s, %s\n\n", lat, lon)

	if tour.BookingLink != "" {
		fmt.Fprintf(b, "**[📅 Book This Tour](%s)**\n", tour.BookingLink)
	}

	if n := len(tour.Pictures); n > 0 {
		fmt.Fprintf(b, "\n**Photos:** (%d available)\n", n)
		for i, pic := range tour.Pictures {
			if i == f.photoLimit {
				break
			}
			fmt.Fprintf(b, "![Tour photo %d](%s)\n", i+1, pic)
		}
		if n > f.photoLimit {
			fmt.Fprintf(b, "*...and %d more photos*\n", n-f.photoLimit)
		}
	}

	b.WriteString("\n---\n")
}

// costSummary sums prices in the currency of the first priced tour.
// Amounts in other currencies are listed, not converted.
type costSummary struct {
	total    float64
	currency string
	excluded []string
}

func (c *costSummary) add(p *types.Price) {
	if p == nil {
		return
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(p.Amount), 64)
	if err != nil {
		return
	}
	currency := orDefault(p.Currency, defaultCurrency)
	if c.currency == "" {
		c.currency = currency
	}
	if currency != c.currency {
		c.excluded = append(c.excluded, fmt.Sprintf("%s %s", p.Amount, currency))
		return
	}
	c.total += amount
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
