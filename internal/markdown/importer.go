package markdown

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-sitepages/internal/logging"
	"github.com/goliatone/go-sitepages/internal/pages"
	"github.com/goliatone/go-sitepages/pkg/interfaces"
)

var ErrNoSchemaForSlug = errors.New("markdown: no page schema is bound to the document slug")

// ImportResult reports what happened to one document.
type ImportResult struct {
	Path    string
	Page    *pages.PageContent
	Created bool
}

// Importer applies markdown documents to stored pages through the page
// service. Documents are matched to pages by slug; a page that does not exist
// yet is created from the schema bound to that slug.
type Importer struct {
	service pages.Service
	logger  interfaces.Logger
}

// NewImporter constructs an Importer writing through service.
func NewImporter(service pages.Service, logger interfaces.Logger) *Importer {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Importer{service: service, logger: logger}
}

// Import applies a single document.
func (i *Importer) Import(ctx context.Context, doc *Document) (ImportResult, error) {
	if doc == nil {
		return ImportResult{}, errors.New("markdown: document is required")
	}
	result := ImportResult{Path: doc.Path}

	slug := pages.NormalizeRoute(doc.Slug)
	current, err := i.service.GetBySlug(ctx, slug)
	switch {
	case err == nil:
	case pages.IsNotFound(err):
		schema, ok := i.service.Schemas().GetBySlug(slug)
		if !ok {
			return result, fmt.Errorf("%w: %s", ErrNoSchemaForSlug, slug)
		}
		current, err = i.service.Create(ctx, pages.CreatePageRequest{PageSchemaID: schema.ID, Slug: slug})
		if err != nil {
			return result, err
		}
		result.Created = true
	default:
		return result, err
	}

	schema, ok := i.service.Schemas().Get(current.PageSchemaID)
	if !ok {
		return result, fmt.Errorf("%w: %s", pages.ErrSchemaUnknown, current.PageSchemaID)
	}
	applied, err := ApplyDocument(schema, current, doc)
	if err != nil {
		return result, err
	}

	title := applied.Metadata.Title
	description := applied.Metadata.Description
	updated, err := i.service.Update(ctx, current.ID, pages.UpdatePageRequest{
		Slug:     &applied.Slug,
		Sections: applied.Sections,
		Metadata: pages.MetadataInput{Title: &title, Description: &description},
	})
	if err != nil {
		return result, err
	}
	result.Page = updated
	i.logger.Info("markdown.import.applied",
		"path", doc.Path,
		"page_slug", updated.Slug,
		"created", result.Created,
	)
	return result, nil
}

// ImportAll applies docs in order and stops at the first failure.
func (i *Importer) ImportAll(ctx context.Context, docs []*Document) ([]ImportResult, error) {
	results := make([]ImportResult, 0, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := i.Import(ctx, doc)
		if err != nil {
			return results, fmt.Errorf("%s: %w", doc.Path, err)
		}
		results = append(results, result)
	}
	return results, nil
}
