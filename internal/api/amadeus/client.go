package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/go-itinerary-enrichment/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-enrichment/config"
	"github.com/FACorreiaa/go-itinerary-enrichment/internal/retry"
)

const (
	DefaultBaseURL = "https://test.api.amadeus.com"

	tokenPath      = "/v1/security/oauth2/token"
	citiesPath     = "/v1/reference-data/locations/cities"
	activitiesPath = "/v1/shopping/activities"
)

var ErrMissingCredentials = errors.New("AMADEUS_API_KEY and AMADEUS_API_SECRET must be set")

// Client talks to the Amadeus self-service API. The access token is
// fetched with the client-credentials grant and reused until it expires.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	tokenSource oauth2.TokenSource
	limiter     *rate.Limiter
	retry       retry.Policy
	timeout     time.Duration
	logger      *slog.Logger
	metrics     *metrics.AppMetrics
}

// NewClient builds a client. ctx scopes token fetches and should outlive
// individual requests.
func NewClient(ctx context.Context, cfg config.AmadeusConfig, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, ErrMissingCredentials
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.APIKey,
		ClientSecret: cfg.APISecret,
		TokenURL:     baseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	ts := cc.TokenSource(ctx)

	metrics.InitAppMetrics()
	return &Client{
		baseURL:     baseURL,
		httpClient:  oauth2.NewClient(ctx, ts),
		tokenSource: ts,
		limiter:     rate.NewLimiter(limit, burst),
		retry:       retry.Policy{MaxRetries: cfg.MaxRetries, Backoff: cfg.RetryBackoff},
		timeout:     timeout,
		logger:      logger,
		metrics:     metrics.Get(),
	}, nil
}

// get issues a GET with rate limiting, a per-attempt timeout and retries on
// transient failures, decoding the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	ctx, span := otel.Tracer("AmadeusClient").Start(ctx, "Client.get")
	defer span.End()
	span.SetAttributes(attribute.String("http.route", path))

	endpoint := metric.WithAttributes(attribute.String("endpoint", path))
	start := time.Now()

	err := retry.Do(ctx, c.retry, Retryable, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		return c.do(ctx, path, params, out)
	})

	c.metrics.ProviderRequestDuration.Record(ctx, time.Since(start).Seconds(), endpoint)
	if err != nil {
		c.metrics.ProviderRequestErrors.Add(ctx, 1, endpoint)
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider request failed")
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func (c *Client) do(ctx context.Context, path string, params url.Values, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.amadeus+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "Amadeus request failed",
			slog.String("path", path),
			slog.Any("error", err),
		)
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := parseAPIError(resp.StatusCode, body)
		c.logger.WarnContext(ctx, "Amadeus returned an error",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("detail", apiErr.Detail),
		)
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// Ping reports whether a token can currently be obtained.
func (c *Client) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.tokenSource.Token(); err != nil {
		return fmt.Errorf("amadeus token: %w", err)
	}
	return nil
}

// WaitForToken checks that the credentials are accepted, retrying a few
// times with a growing delay.
func WaitForToken(ctx context.Context, c *Client, logger *slog.Logger) bool {
	const maxAttempts = 3
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		_, err := c.tokenSource.Token()
		if err == nil {
			logger.InfoContext(ctx, "Amadeus token acquired")
			return true
		}

		waitDuration := time.Duration(attempts) * 200 * time.Millisecond
		logger.WarnContext(ctx, "Amadeus token request failed, retrying...",
			slog.Int("attempt", attempts),
			slog.Int("max_attempts", maxAttempts),
			slog.Duration("wait_duration", waitDuration),
			slog.String("error", err.Error()),
		)
		if attempts < maxAttempts {
			select {
			case <-time.After(waitDuration):
			case <-ctx.Done():
				return false
			}
		}
	}
	logger.ErrorContext(ctx, "Amadeus token could not be acquired after multiple retries")
	return false
}
