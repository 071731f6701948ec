package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/qrdoc-cli/internal/core/domain"
	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driven"
)

// Ensure PageStore implements the interface.
var _ driven.PageStore = (*PageStore)(nil)

// PageStore is an in-memory implementation of driven.PageStore.
// Iteration order is insertion order.
type PageStore struct {
	mu    sync.RWMutex
	pages map[string]domain.PageItem
	order []string
}

// NewPageStore creates a new in-memory page store.
func NewPageStore() *PageStore {
	return &PageStore{
		pages: make(map[string]domain.PageItem),
	}
}

// Save appends a page, or replaces it in place if the ID already exists.
func (s *PageStore) Save(_ context.Context, page *domain.PageItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pages[page.ID]; !ok {
		s.order = append(s.order, page.ID)
	}
	s.pages[page.ID] = *page
	return nil
}

// Get retrieves a page by ID.
func (s *PageStore) Get(_ context.Context, id string) (*domain.PageItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, ok := s.pages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &page, nil
}

// List returns a snapshot of all pages in insertion order.
func (s *PageStore) List(_ context.Context) ([]domain.PageItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.PageItem, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.pages[id])
	}
	return result, nil
}

// Update applies fn to a copy of the page and stores it only if fn succeeds.
func (s *PageStore) Update(_ context.Context, id string, fn func(page *domain.PageItem) error) (*domain.PageItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page, ok := s.pages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := fn(&page); err != nil {
		return nil, err
	}
	s.pages[id] = page
	return &page, nil
}

// Clear removes every page.
func (s *PageStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = make(map[string]domain.PageItem)
	s.order = nil
	return nil
}

// Count returns the number of stored pages.
func (s *PageStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}
