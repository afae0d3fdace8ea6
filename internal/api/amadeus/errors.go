package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoResults means the provider answered but matched nothing.
var ErrNoResults = errors.New("no results")

// APIError is a non-2xx answer from the provider.
type APIError struct {
	StatusCode int
	Code       int
	Title      string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("amadeus: %d %s: %s", e.StatusCode, e.Title, e.Detail)
	}
	return fmt.Sprintf("amadeus: %d %s", e.StatusCode, e.Title)
}

// Retryable reports whether the request may succeed if repeated.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// Retryable classifies any error returned by the client. Transport errors
// retry; context errors, client errors and empty results do not.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrNoResults) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	// per-attempt timeouts surface as deadline errors and are worth repeating
	return true
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Title: http.StatusText(status)}

	var envelope struct {
		Errors []struct {
			Status int    `json:"status"`
			Code   int    `json:"code"`
			Title  string `json:"title"`
			Detail string `json:"detail"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Errors) == 0 {
		return apiErr
	}
	first := envelope.Errors[0]
	apiErr.Code = first.Code
	if first.Title != "" {
		apiErr.Title = first.Title
	}
	apiErr.Detail = first.Detail
	return apiErr
}
