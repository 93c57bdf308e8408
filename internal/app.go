package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/beanbocchi/multipart/config"
	"github.com/beanbocchi/multipart/internal/client/objectstore"
	"github.com/beanbocchi/multipart/internal/client/objectstore/awss3"
	"github.com/beanbocchi/multipart/internal/client/objectstore/instrumented"
	"github.com/beanbocchi/multipart/internal/client/objectstore/minio"
	"github.com/beanbocchi/multipart/internal/service"
	"github.com/beanbocchi/multipart/internal/transport"
)

const shutdownTimeout = 10 * time.Second

func SetupLogger(cfg config.Log, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

type Server struct {
	echo   *echo.Echo
	addr   string
	logger *slog.Logger
}

// NewServer wires the object store, the service and the HTTP transport.
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	store, err := newObjectStore(ctx, cfg.Objectstore)
	if err != nil {
		return nil, fmt.Errorf("create object store: %w", err)
	}

	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		store, err = instrumented.NewInstrumentedClient(instrumented.InstrumentedConfig{
			Next:      store,
			Registry:  registry,
			Namespace: cfg.Metrics.Namespace,
			Logger:    logger,
		})
		if err != nil {
			return nil, fmt.Errorf("instrument object store: %w", err)
		}
	}

	svc, err := service.NewService(service.Config{
		ObjectStore:      store,
		PresignTTL:       cfg.App.PresignTTL,
		OperationTimeout: cfg.App.OperationTimeout,
		Logger:           logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	opts := transport.Options{
		AllowedOrigin: cfg.App.AllowedOrigin,
		Logger:        logger,
	}
	if registry != nil {
		opts.MetricsPath = cfg.Metrics.Path
		opts.Gatherer = registry
	}

	e, err := transport.NewEcho(svc, opts)
	if err != nil {
		return nil, fmt.Errorf("create http server: %w", err)
	}

	return &Server{
		echo:   e,
		addr:   cfg.App.Addr,
		logger: logger,
	}, nil
}

func newObjectStore(ctx context.Context, cfg config.Objectstore) (objectstore.Client, error) {
	switch cfg.Type {
	case "s3":
		return awss3.NewClient(ctx, awss3.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
			RequestTimeout:  cfg.S3.RequestTimeout,
			MaxAttempts:     cfg.S3.MaxAttempts,
			ListPageSize:    cfg.ListPageSize,
		})
	case "minio":
		return minio.NewClient(minio.MinioConfig{
			Endpoint:        cfg.Minio.Endpoint,
			Bucket:          cfg.Minio.Bucket,
			Region:          cfg.Minio.Region,
			AccessKeyID:     cfg.Minio.AccessKeyID,
			SecretAccessKey: cfg.Minio.SecretAccessKey,
			UseSSL:          cfg.Minio.UseSSL,
			ListPageSize:    cfg.ListPageSize,
		})
	default:
		return nil, fmt.Errorf("unknown object store type %q", cfg.Type)
	}
}

// Handler exposes the HTTP handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server listening", "addr", s.addr)
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down server")
		return s.echo.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
