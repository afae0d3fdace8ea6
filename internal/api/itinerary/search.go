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

// ActivitySearch looks up candidate activities per day around the day's
// overnight location. Radius and cap apply to every day of the run.
type ActivitySearch struct {
	searcher   ActivitySearcher
	radiusKm   int
	maxResults int
	fanOut     FanOutOptions
	logger     *slog.Logger
}

func NewActivitySearch(searcher ActivitySearcher, radiusKm, maxResults int, fanOut FanOutOptions, logger *slog.Logger) *ActivitySearch {
	return &ActivitySearch{
		searcher:   searcher,
		radiusKm:   radiusKm,
		maxResults: maxResults,
		fanOut:     fanOut,
		logger:     logger,
	}
}

type searchTask struct {
	day    types.DayPlan
	coords types.Coordinates
}

// Run writes one Activities entry per day that has coordinates. Days
// without coordinates are skipped with a warning.
func (s *ActivitySearch) Run(ctx context.Context, state *RunState) {
	days := state.Days()
	if len(days) == 0 {
		return
	}

	ctx, span := otel.Tracer("ItineraryPipeline").Start(ctx, "ActivitySearch.Run")
	defer span.End()

	tasks := make([]searchTask, 0, len(days))
	for _, d := range days {
		payload, ok := state.Coords[d.Overnight]
		if !ok {
			state.Warn(fmt.Sprintf("Skipping activity search for day %d: no coordinates for '%s'", d.Day, d.Overnight))
			continue
		}
		coords, ok := types.ExtractCoordinates(payload)
		if !ok {
			state.Warn(fmt.Sprintf("Skipping activity search for day %d: unrecognized coordinates for '%s'", d.Day, d.Overnight))
			continue
		}
		tasks = append(tasks, searchTask{day: d, coords: coords})
	}
	span.SetAttributes(attribute.Int("search.tasks", len(tasks)))

	outcomes := FanOut(ctx, tasks, s.fanOut, func(ctx context.Context, t searchTask) (*types.ActivitySearchResult, error) {
		return s.searcher.Search(ctx, t.coords.Latitude, t.coords.Longitude, s.radiusKm, s.maxResults)
	})

	for _, o := range outcomes {
		day := o.Item.day
		if o.Err == nil && o.Result.Empty() {
			o.Err = errors.New("empty result")
		}
		if o.Err != nil {
			err := fmt.Errorf("%w: day %d: %v", ErrSearchFailure, day.Day, o.Err)
			s.logger.WarnContext(ctx, "Activity search failed",
				slog.Int("day", day.Day),
				slog.String("location", day.Overnight),
				slog.Any("error", err),
			)
			state.Warn(fmt.Sprintf("No activities found for day %d near '%s'", day.Day, day.Overnight))
			state.Activities[day.Day] = &types.ActivitySearchResult{
				Success:    false,
				Activities: []*types.ActivityCandidate{},
				SearchParams: &types.SearchParams{
					Latitude:  o.Item.coords.Latitude,
					Longitude: o.Item.coords.Longitude,
					RadiusKm:  s.radiusKm,
				},
			}
			continue
		}
		state.Activities[day.Day] = o.Result
	}

	s.logger.InfoContext(ctx, "Activity search complete",
		slog.Int("days", len(days)),
		slog.Int("searched", len(tasks)),
	)
}
