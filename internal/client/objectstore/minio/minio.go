package minio

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/beanbocchi/multipart/internal/client/objectstore"
)

// API is the subset of *minio.Core used by ClientImpl.
type API interface {
	NewMultipartUpload(ctx context.Context, bucket, object string, opts miniogo.PutObjectOptions) (string, error)
	ListObjectParts(ctx context.Context, bucket, object, uploadID string, partNumberMarker, maxParts int) (miniogo.ListObjectPartsResult, error)
	CompleteMultipartUpload(ctx context.Context, bucket, object, uploadID string, parts []miniogo.CompletePart, opts miniogo.PutObjectOptions) (miniogo.UploadInfo, error)
	AbortMultipartUpload(ctx context.Context, bucket, object, uploadID string) error
	StatObject(ctx context.Context, bucket, object string, opts miniogo.StatObjectOptions) (miniogo.ObjectInfo, error)
	Presign(ctx context.Context, method, bucket, object string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

type MinioConfig struct {
	Endpoint        string
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	ListPageSize    int32
}

type ClientImpl struct {
	api          API
	bucket       string
	listPageSize int
}

// NewClient creates a MinIO objectstore client
func NewClient(cfg MinioConfig) (*ClientImpl, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	core, err := miniogo.NewCore(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return NewClientFromAPI(core, cfg.Bucket, cfg.ListPageSize), nil
}

func NewClientFromAPI(api API, bucket string, listPageSize int32) *ClientImpl {
	return &ClientImpl{
		api:          api,
		bucket:       bucket,
		listPageSize: int(listPageSize),
	}
}

func (c *ClientImpl) OpenSession(ctx context.Context, key string, meta objectstore.ObjectMetadata) (string, error) {
	uploadID, err := c.api.NewMultipartUpload(ctx, c.bucket, key, miniogo.PutObjectOptions{
		ContentType:        meta.ContentType,
		ContentDisposition: meta.ContentDisposition,
	})
	if err != nil {
		return "", wrapError("open_session", key, err)
	}
	return uploadID, nil
}

func (c *ClientImpl) AuthorizePut(ctx context.Context, key string, params objectstore.PartParams, ttl time.Duration) (string, error) {
	query := url.Values{}
	query.Set("uploadId", params.UploadID)
	query.Set("partNumber", strconv.Itoa(int(params.PartNumber)))

	u, err := c.api.Presign(ctx, http.MethodPut, c.bucket, key, ttl, query)
	if err != nil {
		return "", wrapError("authorize_put", key, err)
	}
	return u.String(), nil
}

func (c *ClientImpl) ListParts(ctx context.Context, key, uploadID, marker string) (objectstore.PartsPage, error) {
	partMarker := 0
	if marker != "" {
		n, err := strconv.Atoi(marker)
		if err != nil {
			return objectstore.PartsPage{}, objectstore.Rejected("list_parts", key, fmt.Errorf("invalid part number marker %q", marker))
		}
		partMarker = n
	}

	res, err := c.api.ListObjectParts(ctx, c.bucket, key, uploadID, partMarker, c.listPageSize)
	if err != nil {
		return objectstore.PartsPage{}, wrapError("list_parts", key, err)
	}

	page := objectstore.PartsPage{
		Items:     make([]objectstore.Part, 0, len(res.ObjectParts)),
		Truncated: res.IsTruncated,
	}
	if res.NextPartNumberMarker > 0 {
		page.NextMarker = strconv.Itoa(res.NextPartNumberMarker)
	}
	for _, p := range res.ObjectParts {
		page.Items = append(page.Items, objectstore.Part{
			PartNumber: int32(p.PartNumber),
			ETag:       p.ETag,
			Size:       p.Size,
		})
	}
	return page, nil
}

func (c *ClientImpl) CompleteSession(ctx context.Context, key, uploadID string, parts []objectstore.CompletedPart) (string, error) {
	completed := make([]miniogo.CompletePart, 0, len(parts))
	for _, p := range parts {
		completed = append(completed, miniogo.CompletePart{
			PartNumber: int(p.PartNumber),
			ETag:       p.ETag,
		})
	}

	info, err := c.api.CompleteMultipartUpload(ctx, c.bucket, key, uploadID, completed, miniogo.PutObjectOptions{})
	if err != nil {
		return "", wrapError("complete_session", key, err)
	}
	if info.Key != "" {
		return info.Key, nil
	}
	return key, nil
}

func (c *ClientImpl) GetMetadata(ctx context.Context, objectKey string) (objectstore.ObjectMetadata, error) {
	info, err := c.api.StatObject(ctx, c.bucket, objectKey, miniogo.StatObjectOptions{})
	if err != nil {
		return objectstore.ObjectMetadata{}, wrapError("get_metadata", objectKey, err)
	}

	return objectstore.ObjectMetadata{
		ContentLength:      info.Size,
		ContentType:        info.ContentType,
		ContentDisposition: info.Metadata.Get("Content-Disposition"),
	}, nil
}

func (c *ClientImpl) AbortSession(ctx context.Context, key, uploadID string) error {
	if err := c.api.AbortMultipartUpload(ctx, c.bucket, key, uploadID); err != nil {
		return wrapError("abort_session", key, err)
	}
	return nil
}

// wrapError treats any S3 error response as a rejection by the server.
func wrapError(op, key string, err error) error {
	resp := miniogo.ToErrorResponse(err)
	if resp.Code != "" || resp.StatusCode != 0 {
		return objectstore.Rejected(op, key, err)
	}
	return objectstore.Unavailable(op, key, err)
}
