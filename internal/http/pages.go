package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	pagescmd "github.com/goliatone/go-sitepages/internal/commands/pages"
	"github.com/goliatone/go-sitepages/internal/pages"
)

type updateSectionPayload struct {
	Enabled    *bool          `json:"enabled,omitempty"`
	Order      *int           `json:"order,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	ModifiedBy string         `json:"modifiedBy,omitempty"`
}

type reorderSectionsPayload struct {
	SectionIDs []string `json:"sectionIds"`
}

func (api *AdminAPI) registerPageRoutes(r chi.Router) {
	r.Get("/pages", api.listPages)
	r.Post("/pages", api.createPage)
	r.Get("/pages/by-slug", api.getPageBySlug)
	r.Get("/pages/by-schema/{schemaID}", api.getPageBySchema)
	r.Get("/pages/{id}", api.getPage)
	r.Put("/pages/{id}", api.updatePage)
	r.Delete("/pages/{id}", api.deletePageByID)
	r.Get("/pages/{id}/export", api.exportPage)
}

func (api *AdminAPI) registerSectionRoutes(r chi.Router) {
	r.Put("/pages/{pageID}/sections/reorder", api.reorderPageSections)
	r.Get("/pages/{pageID}/sections/{sectionID}", api.getSection)
	r.Patch("/pages/{pageID}/sections/{sectionID}", api.patchSection)
}

func (api *AdminAPI) listPages(w http.ResponseWriter, r *http.Request) {
	records, err := api.pages.List(r.Context())
	if err != nil {
		api.fail(w, r, err)
		return
	}
	if records == nil {
		records = []*pages.PageContent{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (api *AdminAPI) getPage(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		api.fail(w, r, err)
		return
	}
	record, err := api.pages.Get(r.Context(), id)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) getPageBySlug(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.URL.Query().Get("slug"))
	if slug == "" {
		api.fail(w, r, errors.Join(errBadRequest, errors.New("slug query parameter is required")))
		return
	}
	record, err := api.pages.GetBySlug(r.Context(), slug)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) getPageBySchema(w http.ResponseWriter, r *http.Request) {
	record, err := api.pages.FindBySchemaID(r.Context(), chi.URLParam(r, "schemaID"))
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) createPage(w http.ResponseWriter, r *http.Request) {
	var req pages.CreatePageRequest
	if err := decodeJSON(r, &req); err != nil {
		api.fail(w, r, err)
		return
	}
	record, err := api.pages.Create(r.Context(), req)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (api *AdminAPI) updatePage(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		api.fail(w, r, err)
		return
	}
	var req pages.UpdatePageRequest
	if err := decodeJSON(r, &req); err != nil {
		api.fail(w, r, err)
		return
	}
	record, err := api.pages.Update(r.Context(), id, req)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) deletePageByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		api.fail(w, r, err)
		return
	}
	if err := api.deletePage.Execute(r.Context(), pagescmd.DeletePageCommand{PageID: id}); err != nil {
		api.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *AdminAPI) exportPage(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		api.fail(w, r, err)
		return
	}
	record, err := api.pages.Get(r.Context(), id)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	schema, ok := api.pages.Schemas().Get(record.PageSchemaID)
	if !ok {
		api.fail(w, r, pages.ErrSchemaUnknown)
		return
	}
	exported, err := pages.Export(r.Context(), schema, record, api.renderer)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exported)
}

func (api *AdminAPI) getSection(w http.ResponseWriter, r *http.Request) {
	pageID, err := parseUUID(chi.URLParam(r, "pageID"))
	if err != nil {
		api.fail(w, r, err)
		return
	}
	section, err := api.pages.GetSection(r.Context(), pageID, chi.URLParam(r, "sectionID"))
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

func (api *AdminAPI) patchSection(w http.ResponseWriter, r *http.Request) {
	pageID, err := parseUUID(chi.URLParam(r, "pageID"))
	if err != nil {
		api.fail(w, r, err)
		return
	}
	sectionID := chi.URLParam(r, "sectionID")
	var payload updateSectionPayload
	if err := decodeJSON(r, &payload); err != nil {
		api.fail(w, r, err)
		return
	}
	err = api.updateSection.Execute(r.Context(), pagescmd.UpdateSectionCommand{
		PageID:     pageID,
		SectionID:  sectionID,
		Enabled:    payload.Enabled,
		Order:      payload.Order,
		Data:       payload.Data,
		ModifiedBy: payload.ModifiedBy,
	})
	if err != nil {
		api.fail(w, r, err)
		return
	}
	section, err := api.pages.GetSection(r.Context(), pageID, sectionID)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

func (api *AdminAPI) reorderPageSections(w http.ResponseWriter, r *http.Request) {
	pageID, err := parseUUID(chi.URLParam(r, "pageID"))
	if err != nil {
		api.fail(w, r, err)
		return
	}
	var payload reorderSectionsPayload
	if err := decodeJSON(r, &payload); err != nil {
		api.fail(w, r, err)
		return
	}
	err = api.reorderSections.Execute(r.Context(), pagescmd.ReorderSectionsCommand{
		PageID:     pageID,
		SectionIDs: payload.SectionIDs,
	})
	if err != nil {
		api.fail(w, r, err)
		return
	}
	record, err := api.pages.Get(r.Context(), pageID)
	if err != nil {
		api.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
