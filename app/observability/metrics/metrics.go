package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	RunsTotal               metric.Int64Counter
	StageDurationSeconds    metric.Float64Histogram
	WarningsTotal           metric.Int64Counter
	OracleFallbacksTotal    metric.Int64Counter
	ProviderRequestDuration metric.Float64Histogram
	ProviderRequestErrors   metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments once, using the
// globally configured MeterProvider. Without a configured provider the
// instruments are no-ops.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("ItineraryEnrichment")
		var err error
		m := &AppMetrics{}

		m.RunsTotal, err = meter.Int64Counter(
			"itinerary_runs_total",
			metric.WithDescription("Enrichment runs by terminal status"),
			metric.WithUnit("{run}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_runs_total: %v", err)
		}

		m.StageDurationSeconds, err = meter.Float64Histogram(
			"itinerary_stage_duration_seconds",
			metric.WithDescription("Duration of each pipeline stage in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_stage_duration_seconds: %v", err)
		}

		m.WarningsTotal, err = meter.Int64Counter(
			"itinerary_warnings_total",
			metric.WithDescription("Recovered per-item failures surfaced as warnings"),
			metric.WithUnit("{warning}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_warnings_total: %v", err)
		}

		m.OracleFallbacksTotal, err = meter.Int64Counter(
			"itinerary_oracle_fallbacks_total",
			metric.WithDescription("Selection replies that needed a fallback"),
			metric.WithUnit("{reply}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_oracle_fallbacks_total: %v", err)
		}

		m.ProviderRequestDuration, err = meter.Float64Histogram(
			"provider_request_duration_seconds",
			metric.WithDescription("Duration of travel-data provider requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create provider_request_duration_seconds: %v", err)
		}

		m.ProviderRequestErrors, err = meter.Int64Counter(
			"provider_request_errors_total",
			metric.WithDescription("Failed travel-data provider requests"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create provider_request_errors_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
