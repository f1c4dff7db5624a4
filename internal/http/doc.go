// Package http provides the HTTP adapter for page documents.
//
// AdminAPI mounts under /api by default:
//   - Pages: /pages, /pages/{id}, /pages/by-slug?slug=, /pages/by-schema/{schemaID}
//   - Export: /pages/{id}/export
//   - Sections: /pages/{pageID}/sections/{sectionID}, /pages/{pageID}/sections/reorder
//   - Schemas: /schemas, /schemas/{id}
//
// Client talks to the same surface and satisfies pages.Store, so an editing
// session can use a remote backend as its document store.
package http
