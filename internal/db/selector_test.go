package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProber answers probes from a fixed table and counts them.
type fakeProber struct {
	up    map[string]bool
	calls int
}

func (p *fakeProber) Probe(_ context.Context, url string) bool {
	p.calls++
	return p.up[url]
}

func newTestSelector(t *testing.T, primary, fallback string, prober Prober) *EndpointSelector {
	t.Helper()
	s, err := NewEndpointSelector(primary, fallback, prober, zap.NewNop().Sugar())
	require.NoError(t, err)
	return s
}

func TestNewEndpointSelector(t *testing.T) {
	_, err := NewEndpointSelector("", "  ", &fakeProber{}, zap.NewNop().Sugar())
	assert.ErrorIs(t, err, ErrNoEndpoint)

	// A sole fallback is promoted to primary.
	s := newTestSelector(t, "", "postgres://fb", &fakeProber{up: map[string]bool{"postgres://fb": true}})
	got, err := s.ActiveEndpoint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "postgres://fb", got)
}

func TestActiveEndpointPrefersPrimary(t *testing.T) {
	prober := &fakeProber{up: map[string]bool{"postgres://app": true, "postgres://direct": true}}
	s := newTestSelector(t, "postgres://app", "postgres://direct", prober)

	got, err := s.ActiveEndpoint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "postgres://app", got)
	assert.Equal(t, 1, prober.calls, "fallback must not be probed when primary responds")
}

func TestActiveEndpointFallsBack(t *testing.T) {
	prober := &fakeProber{up: map[string]bool{"postgres://direct": true}}
	s := newTestSelector(t, "postgres://app", "postgres://direct", prober)

	got, err := s.ActiveEndpoint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "postgres://direct", got)
}

func TestActiveEndpointBothDownKeepsPrimary(t *testing.T) {
	s := newTestSelector(t, "postgres://app", "postgres://direct", &fakeProber{})

	got, err := s.ActiveEndpoint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "postgres://app", got, "primary is kept so the driver error surfaces")
}

func TestActiveEndpointMemoizesDecision(t *testing.T) {
	prober := &fakeProber{up: map[string]bool{"postgres://app": true}}
	s := newTestSelector(t, "postgres://app", "postgres://direct", prober)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	current := base
	s.now = func() time.Time { return current }

	ctx := context.Background()
	_, err := s.ActiveEndpoint(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, prober.calls)

	// Inside the probe window the memoized answer is reused even after the
	// endpoint goes down.
	prober.up["postgres://app"] = false
	current = base.Add(probeInterval - time.Second)
	got, err := s.ActiveEndpoint(ctx)
	require.NoError(t, err)
	assert.Equal(t, "postgres://app", got)
	assert.Equal(t, 1, prober.calls)

	// Past the window the endpoints are re-probed and the choice moves.
	prober.up["postgres://direct"] = true
	current = base.Add(probeInterval)
	got, err = s.ActiveEndpoint(ctx)
	require.NoError(t, err)
	assert.Equal(t, "postgres://direct", got)
	assert.Equal(t, 3, prober.calls)
}
