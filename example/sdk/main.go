package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/beanbocchi/multipart/pkg/sdk"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./example/sdk <filename>")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1]); err != nil {
		fmt.Printf("\nUpload failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	client := sdk.NewClient("http://localhost:8080/api/v1")
	obj, err := client.Upload(ctx, sdk.UploadRequest{
		File:     file,
		Size:     info.Size(),
		FileName: filepath.Base(filename),
		MimeType: mime.TypeByExtension(filepath.Ext(filename)),
	}, sdk.WithPartSize(8<<20), sdk.WithProgress(func(done, total int64) {
		fmt.Printf("\r%6.2f%%", float64(done)*100/float64(max(total, 1)))
	}))
	if err != nil {
		return err
	}

	fmt.Printf("\nUploaded %s as %s (%d bytes, %s)\n", obj.FileName, obj.Identifier, obj.Size, obj.MimeType)
	return nil
}
