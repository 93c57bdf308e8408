package service

import (
	"context"

	"github.com/guregu/null/v6"

	"github.com/beanbocchi/multipart/internal/utils/blake3"
	"github.com/beanbocchi/multipart/pkg/validator"
)

const abortedMessage = "Multipart Upload aborted"

type AbortUploadParams struct {
	UploadID null.String `json:"uploadId" validate:"required"`
	Key      null.String `json:"key" validate:"required"`
}

type MessageResult struct {
	Message string `json:"message"`
}

// AbortUpload releases every part stored for an upload.
func (s *Service) AbortUpload(ctx context.Context, params AbortUploadParams) (MessageResult, error) {
	if err := validator.Validate(&params); err != nil {
		return MessageResult{}, s.invalidInput(ctx, "abort", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key, uploadID := params.Key.String, params.UploadID.String
	if err := s.objectStore.AbortSession(ctx, key, uploadID); err != nil {
		return MessageResult{}, s.sessionError(ctx, "abort", key, uploadID, err)
	}

	s.logger.InfoContext(ctx, "upload aborted", "session", blake3.Fingerprint(key, uploadID))
	return MessageResult{Message: abortedMessage}, nil
}
