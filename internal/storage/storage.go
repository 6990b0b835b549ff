package storage

import (
	"context"
	"io"
)

// UploadOptions conveys upload destination metadata.
type UploadOptions struct {
	Bucket      string
	KeyPrefix   string
	ContentType string
}

// Service stores user media in remote object storage.
type Service interface {
	// PutObject uploads body under key and returns its public URL.
	PutObject(ctx context.Context, key string, body io.Reader, opts UploadOptions) (string, error)
}
