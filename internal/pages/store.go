package pages

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence collaborator for page documents. Lookups for
// missing documents return a *NotFoundError.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*PageContent, error)
	GetBySlug(ctx context.Context, slug string) (*PageContent, error)
	List(ctx context.Context) ([]*PageContent, error)
	// Save replaces the stored document wholesale, creating it when missing.
	Save(ctx context.Context, page *PageContent) (*PageContent, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
