package sdk

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Client is the upload API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new SDK client
// baseURL is the base URL of the API, e.g., "http://localhost:8080/api/v1"
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// NewClientWithHTTPClient creates an SDK client with a custom HTTP client
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// CreateUploadRequest is the request parameters for CreateUpload
type CreateUploadRequest struct {
	FileName string
	Size     int64
	MimeType string
}

type createUploadBody struct {
	Filename string `json:"filename"`
	Size     string `json:"size"`
	Mimetype string `json:"mimetype,omitempty"`
}

// Session identifies an open multipart upload
type Session struct {
	UploadID string `json:"uploadId"`
	Key      string `json:"key"`
}

// CreateUpload opens a multipart upload
func (c *Client) CreateUpload(ctx context.Context, req CreateUploadRequest) (*Session, error) {
	session, err := doPOST[Session](ctx, c, "/upload/create", createUploadBody{
		Filename: req.FileName,
		Size:     strconv.FormatInt(req.Size, 10),
		Mimetype: req.MimeType,
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

type prepareUploadPartBody struct {
	UploadID string `json:"uploadId"`
	Key      string `json:"key"`
	Number   int32  `json:"number"`
}

// PrepareUploadPart returns a presigned URL the part bytes can be PUT to
func (c *Client) PrepareUploadPart(ctx context.Context, session Session, number int32) (string, error) {
	res, err := doPOST[struct {
		URL string `json:"url"`
	}](ctx, c, "/upload/prepare", prepareUploadPartBody{
		UploadID: session.UploadID,
		Key:      session.Key,
		Number:   number,
	})
	if err != nil {
		return "", err
	}
	return res.URL, nil
}

// Part is a part already stored for a session
type Part struct {
	PartNumber int32
	Size       int64
	ETag       string
}

type partSummary struct {
	PartNumber string `json:"partNumber"`
	Size       string `json:"size"`
	ETag       string `json:"eTag"`
}

// ListParts returns every part stored for the session
func (c *Client) ListParts(ctx context.Context, session Session) ([]Part, error) {
	summaries, err := doPOST[[]partSummary](ctx, c, "/upload/listparts", session)
	if err != nil {
		return nil, err
	}

	parts := make([]Part, 0, len(summaries))
	for _, s := range summaries {
		number, err := strconv.ParseInt(s.PartNumber, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parse part number %q: %w", s.PartNumber, err)
		}
		size, err := strconv.ParseInt(s.Size, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse part size %q: %w", s.Size, err)
		}
		parts = append(parts, Part{PartNumber: int32(number), Size: size, ETag: s.ETag})
	}
	return parts, nil
}

// CompletedPart is a part number with the ETag storage returned for it
type CompletedPart struct {
	PartNumber int32  `json:"PartNumber"`
	ETag       string `json:"ETag"`
}

type completeUploadBody struct {
	UploadID string          `json:"uploadId"`
	Key      string          `json:"key"`
	Parts    []CompletedPart `json:"parts"`
}

// UploadedObject describes a completed upload
type UploadedObject struct {
	Location   string `json:"location"`
	Identifier string `json:"identifier"`
	FileName   string `json:"fileName"`
	MimeType   string `json:"mimeType"`
	Size       int64  `json:"size"`
}

// CompleteUpload assembles the parts into the final object
func (c *Client) CompleteUpload(ctx context.Context, session Session, parts []CompletedPart) (*UploadedObject, error) {
	if parts == nil {
		parts = []CompletedPart{}
	}
	obj, err := doPOST[UploadedObject](ctx, c, "/upload/complete", completeUploadBody{
		UploadID: session.UploadID,
		Key:      session.Key,
		Parts:    parts,
	})
	if err != nil {
		return nil, err
	}
	return &obj, nil
}

// AbortUpload discards the session and every stored part
func (c *Client) AbortUpload(ctx context.Context, session Session) error {
	_, err := doPOST[struct {
		Message string `json:"message"`
	}](ctx, c, "/upload/abort", session)
	return err
}
