package pages

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory document store. Sessions use it as their
// local copy; tests and the memory storage provider use it as the store.
type MemoryStore struct {
	mu        sync.RWMutex
	pages     map[uuid.UUID]*PageContent
	slugIndex map[string]uuid.UUID
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pages:     make(map[uuid.UUID]*PageContent),
		slugIndex: make(map[string]uuid.UUID),
	}
}

// Get retrieves a document by identifier.
func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*PageContent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	page, ok := m.pages[id]
	if !ok {
		return nil, &NotFoundError{Resource: "page", Key: id.String()}
	}
	return page.Clone(), nil
}

// GetBySlug retrieves a document by its route slug.
func (m *MemoryStore) GetBySlug(_ context.Context, slug string) (*PageContent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.slugIndex[NormalizeRoute(slug)]
	if !ok {
		return nil, &NotFoundError{Resource: "page", Key: slug}
	}
	return m.pages[id].Clone(), nil
}

// List returns every document ordered by slug.
func (m *MemoryStore) List(_ context.Context) ([]*PageContent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*PageContent, 0, len(m.pages))
	for _, page := range m.pages {
		out = append(out, page.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

// Save stores a copy of page, replacing any previous version.
func (m *MemoryStore) Save(_ context.Context, page *PageContent) (*PageContent, error) {
	if page == nil || page.ID == uuid.Nil {
		return nil, ErrPageRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if previous, ok := m.pages[page.ID]; ok {
		delete(m.slugIndex, NormalizeRoute(previous.Slug))
	}
	copied := page.Clone()
	copied.Sections = normalizeSections(copied.Sections)
	m.pages[copied.ID] = copied
	m.slugIndex[NormalizeRoute(copied.Slug)] = copied.ID
	return copied.Clone(), nil
}

// Delete removes a document.
func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	page, ok := m.pages[id]
	if !ok {
		return &NotFoundError{Resource: "page", Key: id.String()}
	}
	delete(m.pages, id)
	delete(m.slugIndex, NormalizeRoute(page.Slug))
	return nil
}
