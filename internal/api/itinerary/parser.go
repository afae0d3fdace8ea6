package itinerary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-itinerary-enrichment/internal/types"
)

// parsedItinerarySchema checks the envelope only. Individual day entries
// are decoded leniently; incomplete ones are dropped downstream.
const parsedItinerarySchema = `{
  "type": "object",
  "properties": {
    "status": {"type": "string", "enum": ["success", "error"]},
    "error": {"type": ["string", "null"]},
    "days": {"type": "array"}
  }
}`

var parserSchema = mustSchema(parsedItinerarySchema)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("invalid schema: %v", err))
	}
	return schema
}

// Parser turns raw itinerary text into day plans using the oracle.
type Parser struct {
	oracle Oracle
	logger *slog.Logger
}

func NewParser(oracle Oracle, logger *slog.Logger) *Parser {
	return &Parser{oracle: oracle, logger: logger}
}

// Run parses state.Input into state.Parsed.
func (p *Parser) Run(ctx context.Context, state *RunState) {
	state.Parsed = p.Parse(ctx, state.Input)
}

// Parse never fails; problems are reported as status "error" with no days.
func (p *Parser) Parse(ctx context.Context, text string) *types.ParsedItinerary {
	ctx, span := otel.Tracer("ItineraryPipeline").Start(ctx, "Parser.Parse")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return parseError("itinerary text is empty")
	}

	reply, err := p.oracle.GenerateText(ctx, getParseItineraryPrompt(text))
	if err != nil {
		p.logger.WarnContext(ctx, "Parser oracle call failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "oracle call failed")
		return parseError(fmt.Sprintf("%v: %v", ErrParseFailure, err))
	}

	parsed, err := decodeParsedItinerary(reply)
	if err != nil {
		p.logger.WarnContext(ctx, "Parser returned unusable output",
			slog.Any("error", err),
			slog.Int("reply_length", len(reply)),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid parser output")
		return parseError(err.Error())
	}

	span.SetAttributes(
		attribute.String("parse.status", parsed.Status),
		attribute.Int("parse.days", len(parsed.Days)),
	)
	p.logger.InfoContext(ctx, "Itinerary parsed",
		slog.String("status", parsed.Status),
		slog.Int("days", len(parsed.Days)),
	)
	return parsed
}

func parseError(msg string) *types.ParsedItinerary {
	return &types.ParsedItinerary{Status: types.StatusError, Error: msg, Days: []types.DayPlan{}}
}

type dayWire struct {
	Day                 json.RawMessage `json:"day"`
	Location            string          `json:"location"`
	ActivityDescription string          `json:"activity_description"`
	Overnight           string          `json:"overnight"`
}

func decodeParsedItinerary(reply string) (*types.ParsedItinerary, error) {
	doc := stripCodeFence(reply)

	result, err := parserSchema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrParseFailure, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, e := range result.Errors() {
			errs[i] = e.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrParseFailure, strings.Join(errs, "; "))
	}

	var envelope struct {
		Status *string           `json:"status"`
		Error  *string           `json:"error"`
		Days   []json.RawMessage `json:"days"`
	}
	if err := json.Unmarshal([]byte(doc), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}

	status := types.StatusSuccess
	if envelope.Status != nil {
		status = *envelope.Status
	}
	if status == types.StatusError {
		msg := "parser reported an error"
		if envelope.Error != nil && *envelope.Error != "" {
			msg = *envelope.Error
		}
		return parseError(msg), nil
	}
	if envelope.Days == nil {
		return nil, fmt.Errorf("%w: parser did not return 'days' array", ErrParseFailure)
	}

	days := make([]types.DayPlan, 0, len(envelope.Days))
	for _, raw := range envelope.Days {
		var w dayWire
		if err := json.Unmarshal(raw, &w); err != nil {
			// kept as an empty plan; it is not Complete and gets dropped later
			days = append(days, types.DayPlan{})
			continue
		}
		days = append(days, types.DayPlan{
			Day:                 dayNumber(w.Day),
			Location:            strings.TrimSpace(w.Location),
			ActivityDescription: strings.TrimSpace(w.ActivityDescription),
			Overnight:           strings.TrimSpace(w.Overnight),
		})
	}
	return &types.ParsedItinerary{Status: types.StatusSuccess, Days: days}, nil
}

// dayNumber accepts 3, 3.0 or "3". Anything else is 0.
func dayNumber(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0
		}
		return n
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || f != math.Trunc(f) {
		return 0
	}
	return int(f)
}
