package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driven"
)

// Ensure ImageStore implements the interface.
var _ driven.ImageStore = (*ImageStore)(nil)

// ImageStore keeps page image blobs in memory for the session.
type ImageStore struct {
	mu    sync.RWMutex
	blobs map[string]domain.ImageBlob
	next  uint64
}

// NewImageStore creates a new in-memory image store.
func NewImageStore() *ImageStore {
	return &ImageStore{
		blobs: make(map[string]domain.ImageBlob),
	}
}

// Put stores a blob and returns its reference.
func (s *ImageStore) Put(_ context.Context, blob *domain.ImageBlob) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	ref := "img-" + strconv.FormatUint(s.next, 10)
	s.blobs[ref] = *blob
	return ref, nil
}

// Get retrieves a blob by reference.
func (s *ImageStore) Get(_ context.Context, ref string) (*domain.ImageBlob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[ref]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &blob, nil
}

// Release drops the given references.
func (s *ImageStore) Release(_ context.Context, refs ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ref := range refs {
		delete(s.blobs, ref)
	}
	return nil
}

// Count returns the number of held blobs.
func (s *ImageStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
