package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-itinerary-enrichment/config"
	"github.com/FACorreiaa/go-itinerary-enrichment/internal/retry"
)

const defaultModel = "gemini-2.0-flash"

// ErrEmptyReply is returned when the model answers with no text.
var ErrEmptyReply = errors.New("model returned an empty reply")

// AIClient is a text-in/text-out client over Gemini.
type AIClient struct {
	client      *genai.Client
	model       string
	temperature float32
	retry       retry.Policy
	logger      *slog.Logger
}

// ClientOption adjusts the genai client configuration before it is built.
type ClientOption func(*genai.ClientConfig)

// WithBaseURL points the client at a different API host.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *genai.ClientConfig) {
		c.HTTPOptions.BaseURL = baseURL
	}
}

func NewAIClient(ctx context.Context, cfg config.GeminiConfig, logger *slog.Logger, opts ...ClientOption) (*AIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(clientConfig)
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &AIClient{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		retry:       retry.DefaultPolicy,
		logger:      logger,
	}, nil
}

// GenerateText sends a single prompt and returns the reply text.
func (ai *AIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "AIClient.GenerateText")
	defer span.End()
	span.SetAttributes(
		attribute.String("model", ai.model),
		attribute.Int("prompt.length", len(prompt)),
	)

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](ai.temperature),
	}

	var text string
	err := retry.Do(ctx, ai.retry, retryable, func(ctx context.Context) error {
		result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), genConfig)
		if err != nil {
			ai.logger.WarnContext(ctx, "Gemini request failed", slog.Any("error", err))
			return err
		}
		text = strings.TrimSpace(result.Text())
		if text == "" {
			return ErrEmptyReply
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate content failed")
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	ai.logger.DebugContext(ctx, "Gemini reply received", slog.Int("reply_length", len(text)))
	span.SetAttributes(attribute.Int("reply.length", len(text)))
	span.SetStatus(codes.Ok, "")
	return text, nil
}

func retryable(err error) bool {
	return !errors.Is(err, ErrEmptyReply) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}
