// Package sitepages is a schema-driven page editor: page schemas declare
// typed fields per section, documents are reconciled against them and
// editing sessions commit locally before syncing to a remote store.
package sitepages

import (
	"context"

	"github.com/goliatone/go-sitepages/internal/di"
	"github.com/goliatone/go-sitepages/internal/editor"
	"github.com/goliatone/go-sitepages/internal/fields"
	apihttp "github.com/goliatone/go-sitepages/internal/http"
	"github.com/goliatone/go-sitepages/internal/markdown"
	"github.com/goliatone/go-sitepages/internal/pages"
	"github.com/goliatone/go-sitepages/internal/session"
	"github.com/goliatone/go-sitepages/internal/validation"
	"github.com/goliatone/go-sitepages/pkg/interfaces"
)

// PageService exports the page service contract.
type PageService = pages.Service

// PageStore exports the document store contract.
type PageStore = pages.Store

// PageSchema describes the sections and fields of a page.
type PageSchema = pages.PageSchema

// SectionSchema describes one section of a page schema.
type SectionSchema = pages.SectionSchema

// PageContent is a stored page document.
type PageContent = pages.PageContent

// SectionContent is the stored data of one section.
type SectionContent = pages.SectionContent

// Field is a schema field definition.
type Field = fields.Field

// Session is a single-document editing session.
type Session = session.Session

// SessionOption configures a Session.
type SessionOption = session.Option

// EditorView exposes a section's fields with their current values.
type EditorView = editor.View

// ValidationIssue is a single JSON Schema violation.
type ValidationIssue = validation.ValidationIssue

// AdminAPI serves the page HTTP API.
type AdminAPI = apihttp.AdminAPI

// Module represents the top level sitepages runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Pages returns the configured page service.
func (m *Module) Pages() PageService {
	return m.container.PageService()
}

// Store returns the configured document store.
func (m *Module) Store() PageStore {
	return m.container.Store()
}

// Schemas returns the registered page schemas.
func (m *Module) Schemas() []PageSchema {
	return m.container.Registry().List()
}

// Schema looks up a page schema by id.
func (m *Module) Schema(id string) (PageSchema, bool) {
	return m.container.Registry().Get(id)
}

// Defaults returns the default data of every section of the schema.
func (m *Module) Defaults(schemaID string) (map[string]map[string]any, bool) {
	schema, ok := m.Schema(schemaID)
	if !ok {
		return nil, false
	}
	out := make(map[string]map[string]any, len(schema.Sections))
	for _, section := range schema.Sections {
		out[section.ID] = fields.DefaultsFor(section.Fields)
	}
	return out, true
}

// OpenSession opens an editing session for a page schema.
func (m *Module) OpenSession(schemaID string, opts ...SessionOption) (*Session, error) {
	return m.container.OpenSession(schemaID, opts...)
}

// AdminAPI builds the HTTP API for the module services.
func (m *Module) AdminAPI(opts ...apihttp.AdminOption) *AdminAPI {
	return m.container.AdminAPI(opts...)
}

// Markdown returns the markdown renderer used for rich text fields.
func (m *Module) Markdown() interfaces.MarkdownRenderer {
	return m.container.Renderer()
}

// Importer returns the markdown document importer.
func (m *Module) Importer() *markdown.Importer {
	return m.container.Importer()
}

// Export publishes the page stored at slug with rich text rendered to HTML.
func (m *Module) Export(ctx context.Context, slug string) (*pages.ExportedPage, error) {
	page, err := m.Pages().GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	schema, ok := m.Schema(page.PageSchemaID)
	if !ok {
		return nil, pages.ErrSchemaUnknown
	}
	return pages.Export(ctx, schema, page, m.container.Renderer())
}

// SeedPages creates a default document for every schema without one.
func (m *Module) SeedPages(ctx context.Context) ([]*PageContent, error) {
	return m.container.SeedPages(ctx)
}

// Close releases resources opened by the module.
func (m *Module) Close() error {
	return m.container.Close()
}
