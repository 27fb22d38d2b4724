// Package storage provides the content-addressable store the engine uses
// for source artifacts, analysis reports and solution payloads. Content is
// keyed by the sha256 of its bytes, so identical payloads share one object
// and references are location-independent and immutable.
package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/observability"
	"github.com/taufiqnair-gif/codebounty-ai-sub000/storage/types"
)

// ErrContentNotFound is returned when no blob exists for a content id.
var ErrContentNotFound = errors.New("content not found")

// ComputeID derives the content identifier for a payload.
func ComputeID(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ContentStore is the content-addressable layer over an ObjectStorage
// backend.
type ContentStore struct {
	backend types.ObjectStorage
	bucket  string
	logger  observability.Logger
	metrics observability.Metrics
}

// NewContentStore wraps an object storage backend with content addressing.
func NewContentStore(backend types.ObjectStorage, bucket string, logger observability.Logger, metrics observability.Metrics) *ContentStore {
	return &ContentStore{
		backend: backend,
		bucket:  bucket,
		logger:  logger,
		metrics: metrics,
	}
}

// Put stores a payload and returns its content id. Because objects are
// keyed by their own hash, a payload that already exists is not written
// again.
func (s *ContentStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordDuration("content_put", time.Since(start).Seconds())
	}()

	id := ComputeID(data)

	exists, err := s.backend.Exists(ctx, s.bucket, id)
	if err != nil {
		s.metrics.RecordError("content_put", "exists")
		return "", fmt.Errorf("failed to check content existence: %w", err)
	}
	if exists {
		s.metrics.RecordSuccess("content_put")
		return id, nil
	}

	err = s.backend.Put(ctx, s.bucket, id, bytes.NewReader(data), types.ObjectMetadata{
		ContentType: contentType,
	})
	if err != nil {
		s.metrics.RecordError("content_put", "put")
		return "", fmt.Errorf("failed to store content: %w", err)
	}

	s.metrics.RecordSuccess("content_put")
	s.metrics.RecordPayloadSize(contentType, int64(len(data)))
	s.logger.Debug(ctx, "content stored", observability.Fields{
		"content_id": id,
		"size":       len(data),
	})

	return id, nil
}

// Get retrieves the payload for a content id, or ErrContentNotFound.
func (s *ContentStore) Get(ctx context.Context, id string) ([]byte, error) {
	rc, err := s.backend.Get(ctx, s.bucket, id)
	if err != nil {
		if errors.Is(err, types.ErrObjectNotFound) {
			return nil, ErrContentNotFound
		}
		s.metrics.RecordError("content_get", "get")
		return nil, fmt.Errorf("failed to get content: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		s.metrics.RecordError("content_get", "read")
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	s.metrics.RecordSuccess("content_get")
	return data, nil
}

// Exists reports whether a content id resolves to a stored payload.
func (s *ContentStore) Exists(ctx context.Context, id string) (bool, error) {
	return s.backend.Exists(ctx, s.bucket, id)
}
