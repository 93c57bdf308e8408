package instrumented

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/beanbocchi/multipart/internal/client/objectstore"
	"github.com/beanbocchi/multipart/internal/client/objectstore/objectstoretest"
)

func TestNewInstrumentedClient_RequiresNext(t *testing.T) {
	_, err := NewInstrumentedClient(InstrumentedConfig{Registry: prometheus.NewRegistry()})
	require.Error(t, err)
}

func TestInstrumentedClient_Outcomes(t *testing.T) {
	next := &objectstoretest.MockClient{}
	next.On("AbortSession", mock.Anything, "ok", "U1").Return(nil)
	next.On("AbortSession", mock.Anything, "gone", "U1").
		Return(objectstore.Rejected("abort_session", "gone", errors.New("NoSuchUpload")))
	next.On("AbortSession", mock.Anything, "down", "U1").
		Return(objectstore.Unavailable("abort_session", "down", errors.New("connection refused")))

	c, err := NewInstrumentedClient(InstrumentedConfig{Next: next, Registry: prometheus.NewRegistry(), Namespace: "test"})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.AbortSession(ctx, "ok", "U1"))
	require.Error(t, c.AbortSession(ctx, "gone", "U1"))
	require.Error(t, c.AbortSession(ctx, "down", "U1"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.calls.WithLabelValues("abort_session", outcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.calls.WithLabelValues("abort_session", outcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.calls.WithLabelValues("abort_session", outcomeUnavailable)))
	next.AssertExpectations(t)
}

func TestInstrumentedClient_PassesResultsThrough(t *testing.T) {
	next := &objectstoretest.MockClient{}
	page := objectstore.PartsPage{Items: []objectstore.Part{{PartNumber: 1, ETag: "e1", Size: 3}}}
	next.On("ListParts", mock.Anything, "k", "U1", "").Return(page, nil)

	c, err := NewInstrumentedClient(InstrumentedConfig{Next: next, Registry: prometheus.NewRegistry()})
	require.NoError(t, err)

	got, err := c.ListParts(context.Background(), "k", "U1", "")
	require.NoError(t, err)
	assert.Equal(t, page, got)
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration))
}

type requestIDKey struct{}

// ctxHandler records the request ID carried by the context of each record.
type ctxHandler struct {
	slog.Handler
	seen *[]any
}

func (h ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	*h.seen = append(*h.seen, ctx.Value(requestIDKey{}))
	return nil
}

func TestInstrumentedClient_LogsWithRequestContext(t *testing.T) {
	next := &objectstoretest.MockClient{}
	next.On("AbortSession", mock.Anything, "k", "U1").Return(nil)

	var seen []any
	logger := slog.New(ctxHandler{
		Handler: slog.NewTextHandler(nil, &slog.HandlerOptions{Level: slog.LevelDebug}),
		seen:    &seen,
	})
	c, err := NewInstrumentedClient(InstrumentedConfig{Next: next, Registry: prometheus.NewRegistry(), Logger: logger})
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), requestIDKey{}, "req-1")
	require.NoError(t, c.AbortSession(ctx, "k", "U1"))

	assert.Equal(t, []any{"req-1"}, seen)
}
