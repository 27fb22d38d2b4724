// Package memory provides the in-process ObjectStorage used in tests and
// local development.
package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/storage/types"
)

// Storage keeps objects in a mutex-guarded nested map of bucket -> key.
type Storage struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

var _ types.ObjectStorage = (*Storage)(nil)

func New() *Storage {
	return &Storage{buckets: make(map[string]map[string][]byte)}
}

func (s *Storage) Put(_ context.Context, bucket, key string, reader io.Reader, _ types.ObjectMetadata) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buckets[bucket] == nil {
		s.buckets[bucket] = make(map[string][]byte)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.buckets[bucket][key] = cp
	return nil
}

func (s *Storage) Get(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.buckets[bucket][key]
	if !ok {
		return nil, types.ErrObjectNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return io.NopCloser(bytes.NewReader(cp)), nil
}

func (s *Storage) Exists(_ context.Context, bucket, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.buckets[bucket][key]
	return ok, nil
}

func (s *Storage) EnsureBucket(_ context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buckets[bucket] == nil {
		s.buckets[bucket] = make(map[string][]byte)
	}
	return nil
}
