package db

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Prober answers whether an endpoint accepts connections. Injectable so
// selector behavior is testable without a live database.
type Prober interface {
	Probe(ctx context.Context, url string) bool
}

type pgProber struct {
	timeout time.Duration
}

// NewPgProber returns the production liveness probe: a bounded-timeout
// connect plus ping against the endpoint.
func NewPgProber(timeout time.Duration) Prober {
	return &pgProber{timeout: timeout}
}

func (p *pgProber) Probe(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return false
	}
	defer conn.Close(ctx)
	return conn.Ping(ctx) == nil
}

// probeInterval rate-limits liveness checks so every query does not pay
// for a probe.
const probeInterval = 30 * time.Second

// EndpointSelector decides between the primary and fallback endpoint.
// When neither responds it still returns the primary so the driver error
// stays explicit and diagnosable instead of being swallowed here.
type EndpointSelector struct {
	primary  string
	fallback string
	prober   Prober
	log      *zap.SugaredLogger
	now      func() time.Time

	mu        sync.Mutex
	active    string
	checkedAt time.Time
}

func NewEndpointSelector(primary, fallback string, prober Prober, log *zap.SugaredLogger) (*EndpointSelector, error) {
	primary = strings.TrimSpace(primary)
	fallback = strings.TrimSpace(fallback)
	if primary == "" && fallback == "" {
		return nil, ErrNoEndpoint
	}
	if primary == "" {
		primary, fallback = fallback, ""
	}
	return &EndpointSelector{
		primary:  primary,
		fallback: fallback,
		prober:   prober,
		log:      log,
		now:      time.Now,
	}, nil
}

// ActiveEndpoint returns the endpoint queries should run against. The
// decision is memoized for probeInterval.
func (s *EndpointSelector) ActiveEndpoint(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != "" && s.now().Sub(s.checkedAt) < probeInterval {
		return s.active, nil
	}

	s.active = s.choose(ctx)
	s.checkedAt = s.now()
	return s.active, nil
}

func (s *EndpointSelector) choose(ctx context.Context) string {
	if s.prober.Probe(ctx, s.primary) {
		return s.primary
	}
	if s.fallback != "" && s.prober.Probe(ctx, s.fallback) {
		s.log.Warnw("primary endpoint unreachable, using fallback")
		return s.fallback
	}
	s.log.Warnw("no endpoint responded to probe, keeping primary")
	return s.primary
}
