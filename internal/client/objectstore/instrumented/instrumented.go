package instrumented

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/beanbocchi/multipart/internal/client/objectstore"
)

const (
	outcomeOK          = "ok"
	outcomeRejected    = "rejected"
	outcomeUnavailable = "unavailable"
)

// InstrumentedConfig configures the metrics decorator.
type InstrumentedConfig struct {
	// Next is the storage client being measured.
	Next objectstore.Client
	// Registry receives the collectors, prometheus.DefaultRegisterer when nil.
	Registry prometheus.Registerer
	// Namespace prefixes every metric name.
	Namespace string
	// Logger receives one debug record per call, slog.Default() when nil.
	Logger *slog.Logger
}

// InstrumentedClient records call counts and latency of every storage call.
type InstrumentedClient struct {
	next     objectstore.Client
	logger   *slog.Logger
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewInstrumentedClient(cfg InstrumentedConfig) (*InstrumentedClient, error) {
	if cfg.Next == nil {
		return nil, fmt.Errorf("storage client is required")
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.DefaultRegisterer
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	factory := promauto.With(cfg.Registry)
	return &InstrumentedClient{
		next:   cfg.Next,
		logger: cfg.Logger,
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "objectstore",
			Name:      "calls_total",
			Help:      "Total number of object storage calls by outcome",
		}, []string{"op", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: "objectstore",
			Name:      "call_duration_seconds",
			Help:      "Object storage call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}, nil
}

func (c *InstrumentedClient) observe(ctx context.Context, op string, start time.Time, err error) {
	elapsed := time.Since(start)
	c.duration.WithLabelValues(op).Observe(elapsed.Seconds())

	outcome := outcomeOK
	switch {
	case err == nil:
	case objectstore.IsUnavailable(err):
		outcome = outcomeUnavailable
	default:
		outcome = outcomeRejected
	}
	c.calls.WithLabelValues(op, outcome).Inc()
	c.logger.DebugContext(ctx, "objectstore call", "op", op, "outcome", outcome, "elapsed", elapsed)
}

func (c *InstrumentedClient) OpenSession(ctx context.Context, key string, meta objectstore.ObjectMetadata) (uploadID string, err error) {
	defer func(start time.Time) { c.observe(ctx, "open_session", start, err) }(time.Now())
	return c.next.OpenSession(ctx, key, meta)
}

func (c *InstrumentedClient) AuthorizePut(ctx context.Context, key string, params objectstore.PartParams, ttl time.Duration) (url string, err error) {
	defer func(start time.Time) { c.observe(ctx, "authorize_put", start, err) }(time.Now())
	return c.next.AuthorizePut(ctx, key, params, ttl)
}

func (c *InstrumentedClient) ListParts(ctx context.Context, key, uploadID, marker string) (page objectstore.PartsPage, err error) {
	defer func(start time.Time) { c.observe(ctx, "list_parts", start, err) }(time.Now())
	return c.next.ListParts(ctx, key, uploadID, marker)
}

func (c *InstrumentedClient) CompleteSession(ctx context.Context, key, uploadID string, parts []objectstore.CompletedPart) (objectKey string, err error) {
	defer func(start time.Time) { c.observe(ctx, "complete_session", start, err) }(time.Now())
	return c.next.CompleteSession(ctx, key, uploadID, parts)
}

func (c *InstrumentedClient) GetMetadata(ctx context.Context, objectKey string) (meta objectstore.ObjectMetadata, err error) {
	defer func(start time.Time) { c.observe(ctx, "get_metadata", start, err) }(time.Now())
	return c.next.GetMetadata(ctx, objectKey)
}

func (c *InstrumentedClient) AbortSession(ctx context.Context, key, uploadID string) (err error) {
	defer func(start time.Time) { c.observe(ctx, "abort_session", start, err) }(time.Now())
	return c.next.AbortSession(ctx, key, uploadID)
}
