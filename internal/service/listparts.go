package service

import (
	"context"
	"strconv"

	"github.com/guregu/null/v6"

	"github.com/beanbocchi/multipart/internal/client/objectstore"
	"github.com/beanbocchi/multipart/pkg/validator"
)

type ListPartsParams struct {
	UploadID null.String `json:"uploadId" validate:"required"`
	Key      null.String `json:"key" validate:"required"`
}

// PartSummary is a stored part. Numbers are rendered as strings.
type PartSummary struct {
	PartNumber string `json:"partNumber"`
	Size       string `json:"size"`
	ETag       string `json:"eTag"`
}

// ListParts returns every part stored for an upload, following the backend
// pagination until the last page.
func (s *Service) ListParts(ctx context.Context, params ListPartsParams) ([]PartSummary, error) {
	if err := validator.Validate(&params); err != nil {
		return nil, s.invalidInput(ctx, "listparts", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key, uploadID := params.Key.String, params.UploadID.String
	parts, err := objectstore.CollectParts(ctx, s.objectStore, key, uploadID)
	if err != nil {
		return nil, s.sessionError(ctx, "listparts", key, uploadID, err)
	}

	summaries := make([]PartSummary, 0, len(parts))
	for _, part := range parts {
		summaries = append(summaries, PartSummary{
			PartNumber: strconv.FormatInt(int64(part.PartNumber), 10),
			Size:       strconv.FormatInt(part.Size, 10),
			ETag:       part.ETag,
		})
	}
	return summaries, nil
}
