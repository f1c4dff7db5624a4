package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-sitepages/internal/fields"
	"github.com/goliatone/go-sitepages/internal/pages"
	schemavalidation "github.com/goliatone/go-sitepages/internal/validation"
)

type sectionDefaults struct {
	ID       string         `json:"id"`
	Defaults map[string]any `json:"defaults"`
	Schema   map[string]any `json:"jsonSchema"`
}

func (api *AdminAPI) registerSchemaRoutes(r chi.Router) {
	r.Get("/schemas", api.listSchemas)
	r.Get("/schemas/by-slug", api.getSchemaBySlug)
	r.Get("/schemas/{id}", api.getSchema)
	r.Get("/schemas/{id}/sections", api.getSchemaSections)
	r.Get("/schemas/{id}/sections/{sectionID}", api.getSchemaSection)
}

func (api *AdminAPI) listSchemas(w http.ResponseWriter, _ *http.Request) {
	schemas := api.pages.Schemas().List()
	if schemas == nil {
		schemas = []pages.PageSchema{}
	}
	writeJSON(w, http.StatusOK, schemas)
}

func (api *AdminAPI) getSchema(w http.ResponseWriter, r *http.Request) {
	schema, ok := api.lookupSchema(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, schema)
}

func (api *AdminAPI) getSchemaBySlug(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.URL.Query().Get("slug"))
	if slug == "" {
		api.fail(w, r, errors.Join(errBadRequest, errors.New("slug query parameter is required")))
		return
	}
	schema, ok := api.pages.Schemas().GetBySlug(slug)
	if !ok {
		api.fail(w, r, &pages.NotFoundError{Resource: "page schema", Key: slug})
		return
	}
	writeJSON(w, http.StatusOK, schema)
}

// getSchemaSections lists each section's derived defaults and the JSON Schema
// used for strict validation.
func (api *AdminAPI) getSchemaSections(w http.ResponseWriter, r *http.Request) {
	schema, ok := api.lookupSchema(w, r)
	if !ok {
		return
	}
	out := make([]sectionDefaults, 0, len(schema.Sections))
	for _, section := range schema.Sections {
		out = append(out, sectionDefaults{
			ID:       section.ID,
			Defaults: fields.DefaultsFor(section.Fields),
			Schema:   schemavalidation.SectionJSONSchema(section.Fields),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// getSchemaSection returns one section schema with its derived defaults.
func (api *AdminAPI) getSchemaSection(w http.ResponseWriter, r *http.Request) {
	schema, ok := api.lookupSchema(w, r)
	if !ok {
		return
	}
	sectionID := chi.URLParam(r, "sectionID")
	section, ok := schema.Section(sectionID)
	if !ok {
		api.fail(w, r, &pages.NotFoundError{Resource: "section schema", Key: sectionID})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		pages.SectionSchema
		Defaults map[string]any `json:"defaults"`
	}{section, fields.DefaultsFor(section.Fields)})
}

func (api *AdminAPI) lookupSchema(w http.ResponseWriter, r *http.Request) (pages.PageSchema, bool) {
	id := chi.URLParam(r, "id")
	schema, ok := api.pages.Schemas().Get(id)
	if !ok {
		api.fail(w, r, &pages.NotFoundError{Resource: "page schema", Key: id})
		return pages.PageSchema{}, false
	}
	return schema, true
}
