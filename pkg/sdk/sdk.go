package sdk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/beanbocchi/multipart/pkg/response"
)

// APIError is an error returned by the upload API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// IsNotFound reports whether err means the upload session no longer exists.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsInvalidInput reports whether the API rejected the request body.
func IsInvalidInput(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest
}

func doPOST[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var zero T

	payload, err := sonic.Marshal(body)
	if err != nil {
		return zero, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s%s", c.baseURL, path)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return zero, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return doRequest[T](c, httpReq)
}

func doRequest[T any](c *Client, req *http.Request) (T, error) {
	var zero T

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("failed to read response: %w", err)
	}

	var commonResp response.TypedResponse[T]
	if err := sonic.Unmarshal(data, &commonResp); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return zero, &APIError{StatusCode: resp.StatusCode, Code: "http", Message: http.StatusText(resp.StatusCode)}
		}
		return zero, fmt.Errorf("failed to decode response: %w", err)
	}

	if commonResp.Error != nil {
		return zero, &APIError{
			StatusCode: resp.StatusCode,
			Code:       commonResp.Error.Code(),
			Message:    commonResp.Error.Message,
		}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return zero, &APIError{StatusCode: resp.StatusCode, Code: "http", Message: http.StatusText(resp.StatusCode)}
	}

	return commonResp.Data, nil
}
