package sdk_test

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/beanbocchi/multipart/pkg/sdk"
)

func ExampleClient_Upload() {
	client := sdk.NewClient("http://localhost:8080/api/v1")

	file, err := os.Open("report.pdf")
	if err != nil {
		fmt.Printf("Open failed: %v\n", err)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		fmt.Printf("Stat failed: %v\n", err)
		return
	}

	obj, err := client.Upload(context.Background(), sdk.UploadRequest{
		File:     file,
		Size:     stat.Size(),
		FileName: "report.pdf",
		MimeType: "application/pdf",
	}, sdk.WithConcurrency(8), sdk.WithProgress(func(done, total int64) {
		fmt.Printf("\r%d / %d bytes", done, total)
	}))
	if err != nil {
		fmt.Printf("Upload failed: %v\n", err)
		return
	}

	fmt.Printf("Uploaded %s (%d bytes)\n", obj.Identifier, obj.Size)
}

func ExampleClient_Resume() {
	client := sdk.NewClient("http://localhost:8080/api/v1")

	file, err := os.Open("report.pdf")
	if err != nil {
		fmt.Printf("Open failed: %v\n", err)
		return
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		fmt.Printf("Stat failed: %v\n", err)
		return
	}

	obj, err := client.Resume(context.Background(), sdk.ResumeRequest{
		Session: sdk.Session{UploadID: "upload-id", Key: "object-key"},
		File:    file,
		Size:    stat.Size(),
	})
	if sdk.IsNotFound(err) {
		fmt.Println("Session expired, start a new upload")
		return
	}
	if err != nil {
		fmt.Printf("Resume failed: %v\n", err)
		return
	}

	fmt.Printf("Uploaded %s\n", obj.Identifier)
}

func ExampleClient_AbortUpload() {
	client := sdk.NewClient("http://localhost:8080/api/v1")

	err := client.AbortUpload(context.Background(), sdk.Session{UploadID: "upload-id", Key: "object-key"})
	var apiErr *sdk.APIError
	if errors.As(err, &apiErr) {
		fmt.Printf("Abort failed with %s\n", apiErr.Code)
		return
	}
	if err != nil {
		fmt.Printf("Abort failed: %v\n", err)
		return
	}

	fmt.Println("Upload aborted")
}
