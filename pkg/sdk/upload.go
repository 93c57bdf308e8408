package sdk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/beanbocchi/multipart/internal/utils/progressr"
)

const (
	// MinPartSize is the smallest part S3 accepts, except for the last one
	MinPartSize     = 5 << 20
	maxParts        = 10000
	defaultParallel = 4
)

type uploadOptions struct {
	partSize    int64
	concurrency int
	onProgress  func(done, total int64)
}

type UploadOption func(*uploadOptions)

// WithPartSize sets the part size, values below MinPartSize are raised to it
func WithPartSize(size int64) UploadOption {
	return func(o *uploadOptions) {
		o.partSize = max(size, MinPartSize)
	}
}

// WithConcurrency sets how many parts are uploaded at once
func WithConcurrency(n int) UploadOption {
	return func(o *uploadOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithProgress registers a callback receiving uploaded and total bytes. It is
// called from several goroutines.
func WithProgress(fn func(done, total int64)) UploadOption {
	return func(o *uploadOptions) {
		o.onProgress = fn
	}
}

// UploadRequest is the request parameters for Upload
type UploadRequest struct {
	File     io.ReaderAt
	Size     int64
	FileName string
	MimeType string
}

// Upload opens a session, uploads File in parts and completes the session.
// The session is aborted if any step fails.
func (c *Client) Upload(ctx context.Context, req UploadRequest, opts ...UploadOption) (*UploadedObject, error) {
	session, err := c.CreateUpload(ctx, CreateUploadRequest{
		FileName: req.FileName,
		Size:     req.Size,
		MimeType: req.MimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("create upload: %w", err)
	}

	obj, err := c.uploadAndComplete(ctx, *session, req.File, req.Size, nil, opts)
	if err != nil {
		if abortErr := c.AbortUpload(context.WithoutCancel(ctx), *session); abortErr != nil {
			return nil, errors.Join(err, fmt.Errorf("abort upload: %w", abortErr))
		}
		return nil, err
	}
	return obj, nil
}

// ResumeRequest is the request parameters for Resume
type ResumeRequest struct {
	Session Session
	File    io.ReaderAt
	Size    int64
}

// Resume uploads the parts of File the session does not hold yet and
// completes it. The same part size as the first attempt must be used.
// The session is left open on failure so it can be resumed again.
func (c *Client) Resume(ctx context.Context, req ResumeRequest, opts ...UploadOption) (*UploadedObject, error) {
	stored, err := c.ListParts(ctx, req.Session)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}

	existing := make(map[int32]Part, len(stored))
	for _, p := range stored {
		existing[p.PartNumber] = p
	}
	return c.uploadAndComplete(ctx, req.Session, req.File, req.Size, existing, opts)
}

type partRange struct {
	number int32
	offset int64
	size   int64
}

// splitParts cuts size bytes into parts of partSize, growing the part size
// when the part count would exceed the S3 limit. An empty file is one empty part.
func splitParts(size, partSize int64) []partRange {
	if minSize := (size + maxParts - 1) / maxParts; partSize < minSize {
		partSize = minSize
	}

	var parts []partRange
	for offset := int64(0); offset < size || len(parts) == 0; offset += partSize {
		parts = append(parts, partRange{
			number: int32(len(parts) + 1),
			offset: offset,
			size:   min(partSize, size-offset),
		})
	}
	return parts
}

func (c *Client) uploadAndComplete(ctx context.Context, session Session, file io.ReaderAt, size int64, existing map[int32]Part, opts []UploadOption) (*UploadedObject, error) {
	o := uploadOptions{partSize: MinPartSize, concurrency: defaultParallel}
	for _, opt := range opts {
		opt(&o)
	}

	ranges := splitParts(size, o.partSize)
	completed := make([]CompletedPart, len(ranges))
	counter := progressr.NewCounter(size, o.onProgress)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, r := range ranges {
		if p, ok := existing[r.number]; ok && p.Size == r.size && p.ETag != "" {
			completed[i] = CompletedPart{PartNumber: r.number, ETag: p.ETag}
			counter.Add(r.size)
			continue
		}

		g.Go(func() error {
			etag, err := c.uploadPart(gctx, session, r, io.NewSectionReader(file, r.offset, r.size), counter)
			if err != nil {
				return fmt.Errorf("upload part %d: %w", r.number, err)
			}
			completed[i] = CompletedPart{PartNumber: r.number, ETag: etag}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	obj, err := c.CompleteUpload(ctx, session, completed)
	if err != nil {
		return nil, fmt.Errorf("complete upload: %w", err)
	}
	return obj, nil
}

func (c *Client) uploadPart(ctx context.Context, session Session, r partRange, body io.Reader, counter *progressr.Counter) (string, error) {
	url, err := c.PrepareUploadPart(ctx, session, r.number)
	if err != nil {
		return "", fmt.Errorf("prepare: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, url, counter.Wrap(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.ContentLength = r.size
	if r.size == 0 {
		httpReq.Body = http.NoBody
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send part: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("storage responded with status code: %d", resp.StatusCode)
	}

	etag := resp.Header.Get("ETag")
	if etag == "" {
		return "", fmt.Errorf("storage response has no ETag header")
	}
	return etag, nil
}
