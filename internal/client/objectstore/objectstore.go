package objectstore

import (
	"context"
	"iter"
	"time"

	"github.com/beanbocchi/multipart/internal/model"
)

// Client is the storage capability the upload service drives. Implementations
// own the bucket and credentials; callers only ever see keys and upload IDs.
type Client interface {
	// OpenSession starts a multipart upload at key and returns the backend upload ID.
	OpenSession(ctx context.Context, key string, meta ObjectMetadata) (string, error)
	// AuthorizePut returns a presigned PUT URL for one part of an open upload.
	AuthorizePut(ctx context.Context, key string, params PartParams, ttl time.Duration) (string, error)
	// ListParts returns the page of stored parts following marker.
	ListParts(ctx context.Context, key, uploadID, marker string) (PartsPage, error)
	// CompleteSession assembles parts into the final object and returns its key.
	CompleteSession(ctx context.Context, key, uploadID string, parts []CompletedPart) (string, error)
	// GetMetadata returns the metadata of a stored object.
	GetMetadata(ctx context.Context, objectKey string) (ObjectMetadata, error)
	// AbortSession releases all parts of an open upload.
	AbortSession(ctx context.Context, key, uploadID string) error
}

// ObjectMetadata is attached when a session opens and read back once the object exists.
type ObjectMetadata struct {
	ContentLength      int64
	ContentType        string
	ContentDisposition string
}

// PartParams are the request parameters a presigned part URL is bound to.
type PartParams struct {
	UploadID   string
	PartNumber int32
}

// Part is one part already accepted by the backend.
type Part struct {
	PartNumber int32
	ETag       string
	Size       int64
}

// CompletedPart pairs a part number with the ETag returned by its upload.
type CompletedPart struct {
	PartNumber int32
	ETag       string
}

type PartsPage = model.Page[Part]

// Pages walks every page of parts of an upload, following the backend
// continuation marker until a page reports no truncation.
func Pages(ctx context.Context, c Client, key, uploadID string) iter.Seq2[PartsPage, error] {
	return model.Paginate(ctx, func(ctx context.Context, marker string) (PartsPage, error) {
		return c.ListParts(ctx, key, uploadID, marker)
	})
}

// CollectParts returns every stored part of an upload in backend order.
func CollectParts(ctx context.Context, c Client, key, uploadID string) ([]Part, error) {
	return model.CollectPages(Pages(ctx, c, key, uploadID))
}
