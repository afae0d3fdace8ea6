package itinerary

import (
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-itinerary-enrichment/internal/api"
	"github.com/FACorreiaa/go-itinerary-enrichment/internal/types"
)

type ItineraryHandler struct {
	enricher Enricher
	logger   *slog.Logger
}

func NewItineraryHandler(enricher Enricher, logger *slog.Logger) *ItineraryHandler {
	return &ItineraryHandler{enricher: enricher, logger: logger}
}

// EnrichItinerary godoc
// @Summary      Enrich an itinerary with matched tours
// @Description  Parses free-form itinerary text, finds activities near each overnight stop and matches one per day.
// @Tags         itinerary
// @Accept       json
// @Produce      json
// @Produce      text/markdown
// @Param        request body types.EnrichItineraryRequest true "Raw itinerary text"
// @Param        format query string false "Set to markdown to receive only the rendered report"
// @Success      200 {object} types.RunResult
// @Failure      400 {object} map[string]interface{}
// @Failure      422 {object} types.RunResult
// @Router       /itinerary/enrich [post]
func (h *ItineraryHandler) EnrichItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "EnrichItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itinerary/enrich"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "EnrichItinerary"))
	l.DebugContext(ctx, "Enrich itinerary handler invoked")

	var req types.EnrichItineraryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Itinerary) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "itinerary is required")
		return
	}

	result := h.enricher.Enrich(ctx, req.Itinerary)
	span.SetAttributes(
		attribute.String("run.id", result.RunID),
		attribute.String("run.status", result.Status),
	)

	if result.Status != types.StatusSuccess {
		l.WarnContext(ctx, "Enrichment failed", slog.String("run_id", result.RunID), slog.String("error", result.Error))
		if wantsMarkdown(r) {
			api.ErrorResponse(w, r, http.StatusUnprocessableEntity, result.Error)
			return
		}
		api.WriteJSONResponse(w, r, http.StatusUnprocessableEntity, result)
		return
	}

	if wantsMarkdown(r) {
		api.WriteMarkdownResponse(w, r, http.StatusOK, result.FormattedOutput)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

func wantsMarkdown(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get("format"), "markdown")
}
