package itinerary

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/FACorreiaa/go-itinerary-enrichment/app/observability/metrics"
	"github.com/FACorreiaa/go-itinerary-enrichment/internal/types"
)

func newTestLogger() *slog.Logger {
	if os.Getenv("TEST_VERBOSE") != "" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func init() {
	metrics.InitAppMetrics()
}

// MockOracle is a mock implementation of Oracle
type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockGeocoder is a mock implementation of Geocoder
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Resolve(ctx context.Context, name, countryHint string) (*types.LocationResult, error) {
	args := m.Called(ctx, name, countryHint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.LocationResult), args.Error(1)
}

// MockActivitySearcher is a mock implementation of ActivitySearcher
type MockActivitySearcher struct {
	mock.Mock
}

func (m *MockActivitySearcher) Search(ctx context.Context, lat, lon float64, radiusKm, maxResults int) (*types.ActivitySearchResult, error) {
	args := m.Called(ctx, lat, lon, radiusKm, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ActivitySearchResult), args.Error(1)
}

// scriptedOracle answers prompts by the first matching substring and
// records every prompt it saw.
type scriptedOracle struct {
	mu      sync.Mutex
	replies []scriptedReply
	prompts []string
}

type scriptedReply struct {
	contains string
	reply    string
	err      error
}

func (o *scriptedOracle) on(contains, reply string) *scriptedOracle {
	o.replies = append(o.replies, scriptedReply{contains: contains, reply: reply})
	return o
}

func (o *scriptedOracle) fail(contains string, err error) *scriptedOracle {
	o.replies = append(o.replies, scriptedReply{contains: contains, err: err})
	return o
}

func (o *scriptedOracle) GenerateText(_ context.Context, prompt string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.prompts = append(o.prompts, prompt)
	for _, r := range o.replies {
		if strings.Contains(prompt, r.contains) {
			return r.reply, r.err
		}
	}
	return "", io.ErrUnexpectedEOF
}

func (o *scriptedOracle) promptsContaining(s string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, p := range o.prompts {
		if strings.Contains(p, s) {
			n++
		}
	}
	return n
}

func location(name string, lat, lon float64) *types.LocationResult {
	loc := types.Location{Name: name, Latitude: lat, Longitude: lon}
	return &types.LocationResult{
		Success:         true,
		Count:           1,
		Locations:       []types.Location{loc},
		PrimaryLocation: &loc,
	}
}

func candidates(names ...string) []*types.ActivityCandidate {
	out := make([]*types.ActivityCandidate, len(names))
	for i, n := range names {
		out[i] = &types.ActivityCandidate{
			ID:          strings.ToUpper(n[:1]) + string(rune('0'+i)),
			Type:        "activity",
			Name:        n,
			Description: "<p>" + n + " description</p>",
			Price:       &types.Price{Amount: "10.00", Currency: "EUR"},
		}
	}
	return out
}

func searchResult(acts []*types.ActivityCandidate) *types.ActivitySearchResult {
	return &types.ActivitySearchResult{Success: true, Count: len(acts), Activities: acts}
}
