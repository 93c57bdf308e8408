package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/beanbocchi/multipart/internal/client/objectstore"
	"github.com/beanbocchi/multipart/internal/model"
	"github.com/beanbocchi/multipart/internal/utils/blake3"
)

const (
	defaultPresignTTL       = time.Hour
	defaultOperationTimeout = 8 * time.Second
)

type Config struct {
	// ObjectStore holds every upload session
	ObjectStore objectstore.Client
	// PresignTTL is how long a part URL stays valid
	PresignTTL time.Duration
	// OperationTimeout bounds the backend calls of one operation
	OperationTimeout time.Duration
	Logger           *slog.Logger
}

type Service struct {
	objectStore      objectstore.Client
	presignTTL       time.Duration
	operationTimeout time.Duration
	logger           *slog.Logger
}

func NewService(cfg Config) (*Service, error) {
	if cfg.ObjectStore == nil {
		return nil, fmt.Errorf("object store client is required")
	}
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = defaultPresignTTL
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = defaultOperationTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Service{
		objectStore:      cfg.ObjectStore,
		presignTTL:       cfg.PresignTTL,
		operationTimeout: cfg.OperationTimeout,
		logger:           cfg.Logger,
	}, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// sessionError maps a backend failure on an existing session. Rejections mean
// the session is unknown or inconsistent, anything else is our fault.
func (s *Service) sessionError(ctx context.Context, op, key, uploadID string, err error) error {
	attrs := []any{"op", op, "session", blake3.Fingerprint(key, uploadID), "error", err}
	if objectstore.IsUnavailable(err) {
		s.logger.ErrorContext(ctx, "object store unavailable", attrs...)
		return model.ErrInternal.Wrap(err)
	}
	s.logger.WarnContext(ctx, "object store rejected session", attrs...)
	return model.ErrSessionNotFound.Wrap(err)
}

func (s *Service) invalidInput(ctx context.Context, op string, err error) error {
	s.logger.WarnContext(ctx, "invalid input", "op", op, "error", err)
	return err
}
