package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-itinerary-enrichment/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-enrichment/config"
	"github.com/FACorreiaa/go-itinerary-enrichment/internal/types"
)

var _ Enricher = (*Pipeline)(nil)

// stage is one step of a run. Stages never return errors; degraded items
// become warnings on the state.
type stage interface {
	Run(ctx context.Context, state *RunState)
}

// Pipeline sequences parse, resolve, search, match and format for one
// itinerary at a time. It is safe for concurrent use; every run gets its
// own RunState.
type Pipeline struct {
	parser    *Parser
	resolver  *LocationResolver
	search    *ActivitySearch
	matcher   *Matcher
	formatter *Formatter
	logger    *slog.Logger
	metrics   *metrics.AppMetrics
}

func NewPipeline(oracle Oracle, geocoder Geocoder, searcher ActivitySearcher, cfg config.PipelineConfig, logger *slog.Logger) *Pipeline {
	fanOut := FanOutOptions{Limit: cfg.Concurrency, ItemTimeout: cfg.ItemTimeout}
	metrics.InitAppMetrics()
	return &Pipeline{
		parser:    NewParser(oracle, logger),
		resolver:  NewLocationResolver(geocoder, fanOut, logger),
		search:    NewActivitySearch(searcher, cfg.SearchRadiusKm, cfg.MaxResults, fanOut, logger),
		matcher:   NewMatcher(oracle, cfg.DescriptionLength, fanOut, logger),
		formatter: NewFormatter(cfg.PhotoLimit),
		logger:    logger,
		metrics:   metrics.Get(),
	}
}

type run struct {
	state  *RunState
	phase  types.PipelineState
	err    error
	logger *slog.Logger
}

func (r *run) transition(to types.PipelineState) {
	r.logger.Info("Pipeline transition", slog.String("from", string(r.phase)), slog.String("to", string(to)))
	r.phase = to
}

func (r *run) fail(err error) {
	r.err = err
	r.transition(types.StateFailed)
}

// Enrich runs the whole pipeline. It always returns a result; Status is
// "error" only when no enrichment could happen at all.
func (p *Pipeline) Enrich(ctx context.Context, text string) *types.RunResult {
	runID := uuid.NewString()
	ctx, span := otel.Tracer("ItineraryPipeline").Start(ctx, "Pipeline.Enrich")
	defer span.End()
	span.SetAttributes(attribute.String("run.id", runID))

	r := &run{
		state:  NewRunState(runID, text),
		phase:  types.StateParsing,
		logger: p.logger.With(slog.String("run_id", runID)),
	}
	r.logger.InfoContext(ctx, "Enrichment run started", slog.Int("input_length", len(text)))

	p.execute(ctx, r)

	result := &types.RunResult{
		RunID:             runID,
		State:             r.phase,
		ParsedDays:        r.state.Days(),
		EnrichedItinerary: r.state.Enriched,
		FormattedOutput:   r.state.Formatted,
		Warnings:          r.state.Warnings(),
	}
	if result.ParsedDays == nil {
		result.ParsedDays = []types.DayPlan{}
	}
	if r.phase == types.StateDone {
		result.Status = types.StatusSuccess
		span.SetStatus(codes.Ok, "")
	} else {
		result.Status = types.StatusError
		result.Error = r.err.Error()
		result.FormattedOutput = ""
		span.RecordError(r.err)
		span.SetStatus(codes.Error, "enrichment failed")
	}

	p.metrics.RunsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", result.Status)))
	if n := len(result.Warnings); n > 0 {
		p.metrics.WarningsTotal.Add(ctx, int64(n))
	}
	r.logger.InfoContext(ctx, "Enrichment run finished",
		slog.String("status", result.Status),
		slog.String("state", string(result.State)),
		slog.Int("warnings", len(result.Warnings)),
		slog.Any("state_keys", r.state.Keys()),
	)
	return result
}

func (p *Pipeline) execute(ctx context.Context, r *run) {
	p.runStage(ctx, r, "parse", p.parser)
	if !r.state.Parsed.OK() {
		r.fail(fmt.Errorf("%w: %s", ErrParseFailure, r.state.Parsed.Error))
		return
	}

	steps := []struct {
		phase types.PipelineState
		name  string
		stage stage
	}{
		{types.StateResolvingLocations, "resolve", p.resolver},
		{types.StateSearchingActivities, "search", p.search},
		{types.StateMatching, "match", p.matcher},
	}
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			r.fail(fmt.Errorf("run cancelled: %w", err))
			return
		}
		r.transition(s.phase)
		p.runStage(ctx, r, s.name, s.stage)
	}

	if r.state.Enriched == nil || r.state.Enriched.Status != types.StatusSuccess {
		r.fail(ErrAggregationFailure)
		return
	}

	r.transition(types.StateFormatting)
	p.runStage(ctx, r, "format", p.formatter)
	r.transition(types.StateDone)
}

func (p *Pipeline) runStage(ctx context.Context, r *run, name string, s stage) {
	start := time.Now()
	s.Run(ctx, r.state)
	elapsed := time.Since(start)
	p.metrics.StageDurationSeconds.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("stage", name)))
	r.logger.DebugContext(ctx, "Stage complete", slog.String("stage", name), slog.Duration("duration", elapsed))
}
