package service

import (
	"context"

	"github.com/guregu/null/v6"

	"github.com/beanbocchi/multipart/internal/client/objectstore"
	"github.com/beanbocchi/multipart/internal/model"
	"github.com/beanbocchi/multipart/pkg/validator"
)

const (
	minPartNumber = 1
	maxPartNumber = 10000
)

type PrepareUploadPartParams struct {
	UploadID null.String  `json:"uploadId" validate:"required"`
	Key      null.String  `json:"key" validate:"required"`
	Number   model.Scalar `json:"number" validate:"required"`
}

type PrepareUploadPartResult struct {
	URL string `json:"url"`
}

// PrepareUploadPart presigns a PUT of one part of an open upload.
func (s *Service) PrepareUploadPart(ctx context.Context, params PrepareUploadPartParams) (PrepareUploadPartResult, error) {
	if err := validator.Validate(&params); err != nil {
		return PrepareUploadPartResult{}, s.invalidInput(ctx, "prepare", err)
	}
	number, err := params.Number.Int()
	if err != nil || number < minPartNumber || number > maxPartNumber {
		return PrepareUploadPartResult{}, s.invalidInput(ctx, "prepare",
			model.ErrInvalidInput.Fmt("number must be an integer between 1 and 10000"))
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key, uploadID := params.Key.String, params.UploadID.String
	url, err := s.objectStore.AuthorizePut(ctx, key, objectstore.PartParams{
		UploadID:   uploadID,
		PartNumber: number,
	}, s.presignTTL)
	if err != nil {
		return PrepareUploadPartResult{}, s.sessionError(ctx, "prepare", key, uploadID, err)
	}

	return PrepareUploadPartResult{URL: url}, nil
}
