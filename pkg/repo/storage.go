package repo

import (
	"context"
	"strings"
)

// Storage defines the contract for snapshot persistence backends.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Write stores data with the given key.
	Write(ctx context.Context, key string, data []byte) error

	// Read retrieves data for the given key.
	// Returns os.ErrNotExist if the key does not exist.
	Read(ctx context.Context, key string) ([]byte, error)

	// List returns keys matching the given prefix, sorted alphabetically descending (newest first).
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the data for the given key.
	// Returns nil if the key does not exist (idempotent).
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the storage backend.
	Close() error
}

// BlobSchemes url schemes served by BlobStorage
var BlobSchemes = []string{"gs://", "s3://", "azblob://", "mem://"}

// NewStorage picks a backend from the url: "sqlite://<path>" for sqlite,
// a postgres dsn, a blob scheme for cloud buckets, anything else is a directory
func NewStorage(ctx context.Context, url, prefix string) (Storage, error) {
	switch {
	case strings.HasPrefix(url, SQLiteURLPrefix):
		return NewSQLiteStorage(ctx, url)
	case IsPostgresURL(url):
		return NewPostgresStorage(ctx, url)
	case IsBlobURL(url):
		return NewBlobStorage(ctx, url, prefix)
	default:
		return NewFilesystemStorage(url)
	}
}

// IsBlobURL whether the url has one of the BlobSchemes
func IsBlobURL(url string) bool {
	for _, scheme := range BlobSchemes {
		if strings.HasPrefix(url, scheme) {
			return true
		}
	}
	return false
}
