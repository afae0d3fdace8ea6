package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/FACorreiaa/go-itinerary-enrichment/internal/types"
)

// LocationResolver geocodes each distinct overnight location once.
type LocationResolver struct {
	geocoder Geocoder
	fanOut   FanOutOptions
	logger   *slog.Logger
}

func NewLocationResolver(geocoder Geocoder, fanOut FanOutOptions, logger *slog.Logger) *LocationResolver {
	return &LocationResolver{geocoder: geocoder, fanOut: fanOut, logger: logger}
}

// Run writes one Locations/Coords entry per resolved overnight value.
// It does nothing unless parsing succeeded with at least one day.
func (r *LocationResolver) Run(ctx context.Context, state *RunState) {
	days := state.Days()
	if !state.Parsed.OK() || len(days) == 0 {
		r.logger.InfoContext(ctx, "Skipping location resolution, no parsed days")
		return
	}

	ctx, span := otel.Tracer("ItineraryPipeline").Start(ctx, "LocationResolver.Run")
	defer span.End()

	names := uniqueOvernights(days)
	span.SetAttributes(attribute.Int("locations.unique", len(names)))

	outcomes := FanOut(ctx, names, r.fanOut, func(ctx context.Context, name string) (*types.LocationResult, error) {
		return r.geocoder.Resolve(ctx, name, "")
	})

	for _, o := range outcomes {
		if o.Err == nil && (o.Result == nil || !o.Result.Success) {
			o.Err = errors.New("geocoder returned no usable result")
		}
		if o.Err != nil {
			err := fmt.Errorf("%w: %s: %v", ErrResolutionFailure, o.Item, o.Err)
			r.logger.WarnContext(ctx, "Location not resolved",
				slog.String("location", o.Item),
				slog.Any("error", err),
			)
			state.Warn(fmt.Sprintf("Could not resolve location '%s'", o.Item))
			continue
		}
		state.Locations[o.Item] = o.Result
		state.Coords[o.Item] = o.Result.Payload()
	}

	r.logger.InfoContext(ctx, "Locations resolved",
		slog.Int("requested", len(names)),
		slog.Int("resolved", len(state.Coords)),
	)
}

// uniqueOvernights returns the distinct overnight values in first-seen order.
func uniqueOvernights(days []types.DayPlan) []string {
	seen := make(map[string]struct{}, len(days))
	names := make([]string, 0, len(days))
	for _, d := range days {
		if _, ok := seen[d.Overnight]; ok {
			continue
		}
		seen[d.Overnight] = struct{}{}
		names = append(names, d.Overnight)
	}
	return names
}
