// Package types defines the object-storage port the content store is
// built on, abstracting the concrete provider (memory, S3, MinIO).
package types

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned when an object does not exist in storage.
var ErrObjectNotFound = errors.New("object not found")

// ObjectMetadata carries optional attributes stored with an object.
type ObjectMetadata struct {
	ContentType  string
	UserMetadata map[string]string
}

// ObjectStorage is the provider-agnostic blob interface.
type ObjectStorage interface {
	// Put stores an object under bucket/key.
	Put(ctx context.Context, bucket, key string, reader io.Reader, metadata ObjectMetadata) error

	// Get retrieves an object, or ErrObjectNotFound.
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)

	// Exists reports whether an object is present.
	Exists(ctx context.Context, bucket, key string) (bool, error)

	// EnsureBucket creates the bucket if it does not exist.
	EnsureBucket(ctx context.Context, bucket string) error
}
