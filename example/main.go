package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
)

const baseURL = "http://localhost:8080/api/v1"

type envelope[T any] struct {
	Data  T `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type session struct {
	UploadID string `json:"uploadId"`
	Key      string `json:"key"`
}

// Walks through the upload endpoints by hand for a file small enough to fit
// in one part.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./example <filename>")
		os.Exit(1)
	}

	if err := upload(os.Args[1]); err != nil {
		fmt.Printf("Upload error: %v\n", err)
		os.Exit(1)
	}
}

func upload(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	fmt.Println("=== Create ===")
	s, err := post[session]("/upload/create", map[string]any{
		"filename": filepath.Base(filePath),
		"size":     len(data),
		"mimetype": "text/plain",
	})
	if err != nil {
		return err
	}
	fmt.Printf("Session: %+v\n", s)

	fmt.Println("\n=== Prepare part 1 ===")
	prepared, err := post[struct {
		URL string `json:"url"`
	}]("/upload/prepare", map[string]any{"uploadId": s.UploadID, "key": s.Key, "number": 1})
	if err != nil {
		return abort(s, err)
	}

	etag, err := putPart(prepared.URL, data)
	if err != nil {
		return abort(s, err)
	}
	fmt.Printf("Stored part 1 with ETag %s\n", etag)

	fmt.Println("\n=== List parts ===")
	parts, err := post[[]map[string]string]("/upload/listparts", s)
	if err != nil {
		return abort(s, err)
	}
	fmt.Printf("Parts: %v\n", parts)

	fmt.Println("\n=== Complete ===")
	obj, err := post[map[string]any]("/upload/complete", map[string]any{
		"uploadId": s.UploadID,
		"key":      s.Key,
		"parts":    []map[string]any{{"PartNumber": 1, "ETag": etag}},
	})
	if err != nil {
		return abort(s, err)
	}
	fmt.Printf("Object: %v\n", obj)
	return nil
}

func abort(s session, cause error) error {
	if _, err := post[map[string]string]("/upload/abort", s); err != nil {
		return fmt.Errorf("%w (abort failed: %v)", cause, err)
	}
	return cause
}

func post[T any](path string, body any) (T, error) {
	var zero T

	payload, err := sonic.Marshal(body)
	if err != nil {
		return zero, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := http.Post(baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return zero, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope[T]
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return zero, fmt.Errorf("unexpected response %d: %s", resp.StatusCode, string(raw))
	}
	if env.Error != nil {
		return zero, fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
	}
	return env.Data, nil
}

func putPart(url string, data []byte) (string, error) {
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send part: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}
	return resp.Header.Get("ETag"), nil
}
