package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"

	"github.com/beanbocchi/multipart/internal/client/objectstore"
	"github.com/beanbocchi/multipart/internal/model"
	"github.com/beanbocchi/multipart/internal/utils/blake3"
	"github.com/beanbocchi/multipart/pkg/validator"
)

type CreateUploadParams struct {
	Filename null.String  `json:"filename" validate:"required"`
	Size     model.Scalar `json:"size" validate:"required"`
	Mimetype null.String  `json:"mimetype" validate:"omitempty,mediatype"`
}

type CreateUploadResult struct {
	UploadID string `json:"uploadId"`
	Key      string `json:"key"`
}

// CreateUpload opens a multipart upload under a freshly generated key.
func (s *Service) CreateUpload(ctx context.Context, params CreateUploadParams) (CreateUploadResult, error) {
	if err := validator.Validate(&params); err != nil {
		return CreateUploadResult{}, s.invalidInput(ctx, "create", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key := uuid.NewString()
	uploadID, err := s.objectStore.OpenSession(ctx, key, objectstore.ObjectMetadata{
		ContentType:        params.Mimetype.ValueOrZero(),
		ContentDisposition: contentDisposition(params.Filename.String),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "open session", "error", err)
		return CreateUploadResult{}, model.ErrUploadFailed.Wrap(err)
	}

	s.logger.InfoContext(ctx, "upload session opened", "session", blake3.Fingerprint(key, uploadID))
	return CreateUploadResult{
		UploadID: uploadID,
		Key:      key,
	}, nil
}
