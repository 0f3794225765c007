package storage

import (
	"context"
	"io"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ObjectStorage defines the interface for object storage operations.
// Used by the backup service to store and retrieve JSON snapshots.
type ObjectStorage interface {
	// PutObject uploads an object under the given key.
	PutObject(ctx context.Context, objectKey string, contentType string, body io.Reader) error

	// GetObject fetches an object's contents. The caller must close the reader.
	GetObject(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}
