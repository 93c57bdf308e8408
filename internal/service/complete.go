package service

import (
	"context"

	"github.com/guregu/null/v6"

	"github.com/beanbocchi/multipart/internal/client/objectstore"
	"github.com/beanbocchi/multipart/internal/model"
	"github.com/beanbocchi/multipart/internal/utils/blake3"
	"github.com/beanbocchi/multipart/pkg/validator"
)

// CompletedPartParams uses the S3 field names browsers get back from part uploads.
type CompletedPartParams struct {
	PartNumber model.Scalar `json:"PartNumber"`
	ETag       null.String  `json:"ETag"`
}

// HasValue reports whether both the part number and the ETag are set.
func (p CompletedPartParams) HasValue() bool {
	return p.PartNumber.Valid && p.PartNumber.Text != "" &&
		p.ETag.Valid && p.ETag.String != ""
}

type CompleteUploadParams struct {
	UploadID null.String           `json:"uploadId" validate:"required"`
	Key      null.String           `json:"key" validate:"required"`
	Parts    []CompletedPartParams `json:"parts" validate:"required"`
}

type CompleteUploadResult struct {
	Location   string `json:"location"`
	Identifier string `json:"identifier"`
	FileName   string `json:"fileName"`
	MimeType   string `json:"mimeType"`
	Size       int64  `json:"size"`
}

// CompleteUpload assembles the uploaded parts into the final object and
// returns its metadata. Incomplete part entries are dropped.
func (s *Service) CompleteUpload(ctx context.Context, params CompleteUploadParams) (CompleteUploadResult, error) {
	if err := validator.Validate(&params); err != nil {
		return CompleteUploadResult{}, s.invalidInput(ctx, "complete", err)
	}
	parts, err := completedParts(params.Parts)
	if err != nil {
		return CompleteUploadResult{}, s.invalidInput(ctx, "complete", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key, uploadID := params.Key.String, params.UploadID.String
	objectKey, err := s.objectStore.CompleteSession(ctx, key, uploadID, parts)
	if err != nil {
		return CompleteUploadResult{}, s.sessionError(ctx, "complete", key, uploadID, err)
	}

	meta, err := s.objectStore.GetMetadata(ctx, objectKey)
	if err != nil {
		return CompleteUploadResult{}, s.sessionError(ctx, "complete", key, uploadID, err)
	}

	s.logger.InfoContext(ctx, "upload completed",
		"session", blake3.Fingerprint(key, uploadID),
		"parts", len(parts),
		"size", meta.ContentLength,
	)
	return CompleteUploadResult{
		Location:   objectKey,
		Identifier: objectKey,
		FileName:   fileNameFromDisposition(meta.ContentDisposition),
		MimeType:   meta.ContentType,
		Size:       meta.ContentLength,
	}, nil
}

func completedParts(params []CompletedPartParams) ([]objectstore.CompletedPart, error) {
	parts := make([]objectstore.CompletedPart, 0, len(params))
	for _, p := range params {
		if !p.HasValue() {
			continue
		}
		number, err := p.PartNumber.Int()
		if err != nil {
			return nil, model.ErrInvalidInput.Fmt("PartNumber must be an integer")
		}
		parts = append(parts, objectstore.CompletedPart{
			PartNumber: number,
			ETag:       p.ETag.String,
		})
	}
	return parts, nil
}
