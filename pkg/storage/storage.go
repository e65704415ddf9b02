// Package storage implements simple key based document storage, backed by
// either the local filesystem or an S3 bucket.
package storage

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when reading a key that does not exist.
	ErrNotFound = errors.New("Key not found")
)

// Storage is the interface for reading and writing documents by key. Keys are
// slash separated paths.
type Storage interface {
	Write(ctx context.Context, key string, body []byte) error
	Read(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error

	// List returns the keys under a path prefix, sorted ascending.
	List(ctx context.Context, path string) ([]string, error)
}

// Config holds the settings shared by the storage implementations. Bucket is
// the S3 bucket name, or "standalone" for filesystem storage rooted at Root.
type Config struct {
	Bucket     string
	Root       string
	MaxRetries int
	RetryDelay int // Milliseconds between retries
}

// NewConfig returns a Config with retry defaults.
func NewConfig(bucket, root string) Config {
	return Config{
		Bucket:     bucket,
		Root:       root,
		MaxRetries: 4,
		RetryDelay: 2000,
	}
}
