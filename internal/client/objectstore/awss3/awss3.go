package awss3

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/aws/smithy-go/ptr"

	"github.com/beanbocchi/multipart/internal/client/objectstore"
)

// API is the subset of *s3.Client used by ClientImpl.
type API interface {
	CreateMultipartUpload(ctx context.Context, params *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error)
	ListParts(ctx context.Context, params *s3.ListPartsInput, optFns ...func(*s3.Options)) (*s3.ListPartsOutput, error)
	CompleteMultipartUpload(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error)
	AbortMultipartUpload(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Presigner is the subset of *s3.PresignClient used by ClientImpl.
type Presigner interface {
	PresignUploadPart(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type S3Config struct {
	// Bucket receives every upload
	Bucket string
	// Region of the bucket
	Region string
	// Endpoint overrides the AWS endpoint for S3-compatible services
	Endpoint string
	// AccessKeyID and SecretAccessKey are optional, the default credential chain is used when empty
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	// RequestTimeout bounds a single HTTP exchange with S3
	RequestTimeout time.Duration
	// MaxAttempts bounds SDK retries of a single call
	MaxAttempts int
	// ListPageSize is forwarded as MaxParts, zero keeps the S3 default of 1000
	ListPageSize int32
}

type ClientImpl struct {
	api          API
	presigner    Presigner
	bucket       string
	listPageSize int32
}

// NewClient creates an S3 objectstore client
func NewClient(ctx context.Context, cfg S3Config) (*ClientImpl, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 2 * time.Second
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
		config.WithRetryMaxAttempts(cfg.MaxAttempts),
		config.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = ptr.String(cfg.Endpoint)
		}
	})

	return NewClientFromAPI(client, s3.NewPresignClient(client), cfg.Bucket, cfg.ListPageSize), nil
}

// NewClientFromAPI wires an already constructed S3 API and presigner.
func NewClientFromAPI(api API, presigner Presigner, bucket string, listPageSize int32) *ClientImpl {
	return &ClientImpl{
		api:          api,
		presigner:    presigner,
		bucket:       bucket,
		listPageSize: listPageSize,
	}
}

func (c *ClientImpl) OpenSession(ctx context.Context, key string, meta objectstore.ObjectMetadata) (string, error) {
	in := &s3.CreateMultipartUploadInput{
		Bucket: ptr.String(c.bucket),
		Key:    ptr.String(key),
	}
	if meta.ContentDisposition != "" {
		in.ContentDisposition = ptr.String(meta.ContentDisposition)
	}
	if meta.ContentType != "" {
		in.ContentType = ptr.String(meta.ContentType)
	}

	out, err := c.api.CreateMultipartUpload(ctx, in)
	if err != nil {
		return "", wrapError("open_session", key, err)
	}
	return ptr.ToString(out.UploadId), nil
}

func (c *ClientImpl) AuthorizePut(ctx context.Context, key string, params objectstore.PartParams, ttl time.Duration) (string, error) {
	req, err := c.presigner.PresignUploadPart(ctx, &s3.UploadPartInput{
		Bucket:     ptr.String(c.bucket),
		Key:        ptr.String(key),
		UploadId:   ptr.String(params.UploadID),
		PartNumber: ptr.Int32(params.PartNumber),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", wrapError("authorize_put", key, err)
	}
	return req.URL, nil
}

func (c *ClientImpl) ListParts(ctx context.Context, key, uploadID, marker string) (objectstore.PartsPage, error) {
	in := &s3.ListPartsInput{
		Bucket:   ptr.String(c.bucket),
		Key:      ptr.String(key),
		UploadId: ptr.String(uploadID),
	}
	if marker != "" {
		in.PartNumberMarker = ptr.String(marker)
	}
	if c.listPageSize > 0 {
		in.MaxParts = ptr.Int32(c.listPageSize)
	}

	out, err := c.api.ListParts(ctx, in)
	if err != nil {
		return objectstore.PartsPage{}, wrapError("list_parts", key, err)
	}

	page := objectstore.PartsPage{
		Items:      make([]objectstore.Part, 0, len(out.Parts)),
		Truncated:  ptr.ToBool(out.IsTruncated),
		NextMarker: ptr.ToString(out.NextPartNumberMarker),
	}
	for _, p := range out.Parts {
		page.Items = append(page.Items, objectstore.Part{
			PartNumber: ptr.ToInt32(p.PartNumber),
			ETag:       ptr.ToString(p.ETag),
			Size:       ptr.ToInt64(p.Size),
		})
	}
	return page, nil
}

func (c *ClientImpl) CompleteSession(ctx context.Context, key, uploadID string, parts []objectstore.CompletedPart) (string, error) {
	completed := make([]types.CompletedPart, 0, len(parts))
	for _, p := range parts {
		completed = append(completed, types.CompletedPart{
			PartNumber: ptr.Int32(p.PartNumber),
			ETag:       ptr.String(p.ETag),
		})
	}

	out, err := c.api.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          ptr.String(c.bucket),
		Key:             ptr.String(key),
		UploadId:        ptr.String(uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{Parts: completed},
	})
	if err != nil {
		return "", wrapError("complete_session", key, err)
	}

	if objectKey := ptr.ToString(out.Key); objectKey != "" {
		return objectKey, nil
	}
	return key, nil
}

func (c *ClientImpl) GetMetadata(ctx context.Context, objectKey string) (objectstore.ObjectMetadata, error) {
	out, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: ptr.String(c.bucket),
		Key:    ptr.String(objectKey),
	})
	if err != nil {
		return objectstore.ObjectMetadata{}, wrapError("get_metadata", objectKey, err)
	}

	return objectstore.ObjectMetadata{
		ContentLength:      ptr.ToInt64(out.ContentLength),
		ContentType:        ptr.ToString(out.ContentType),
		ContentDisposition: ptr.ToString(out.ContentDisposition),
	}, nil
}

func (c *ClientImpl) AbortSession(ctx context.Context, key, uploadID string) error {
	_, err := c.api.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   ptr.String(c.bucket),
		Key:      ptr.String(key),
		UploadId: ptr.String(uploadID),
	})
	if err != nil {
		return wrapError("abort_session", key, err)
	}
	return nil
}

// wrapError classifies SDK errors: anything carrying an S3 error code was
// answered by the service, the rest never got a response.
func wrapError(op, key string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return objectstore.Rejected(op, key, err)
	}
	return objectstore.Unavailable(op, key, err)
}
