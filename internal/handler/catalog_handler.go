// Package handler provides HTTP handlers for the API.
package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"paperless-annotator/internal/domain"
)

// CatalogHandler serves organizations and their documents.
type CatalogHandler struct {
	catalog domain.CatalogService
	logger  domain.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog domain.CatalogService, logger domain.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

func (h *CatalogHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.catalog.ListOrganizations()
	if err != nil {
		writeAppError(w, h.logger, "Failed to list organizations", err)
		return
	}
	writeJSON(w, http.StatusOK, orgs)
}

func (h *CatalogHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	org, err := h.catalog.GetOrganization(mux.Vars(r)["id"])
	if err != nil {
		writeAppError(w, h.logger, "Failed to get organization", err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

// ListDocuments handles GET /organizations/{id}/documents?status=all|pending|completed
func (h *CatalogHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	filter := domain.StatusFilter(strings.ToLower(r.URL.Query().Get("status")))
	docs, err := h.catalog.ListDocuments(mux.Vars(r)["id"], filter)
	if err != nil {
		writeAppError(w, h.logger, "Failed to list documents", err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *CatalogHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var form domain.DocumentFormData
	if err := decodeJSON(w, r, &form); err != nil {
		writeAppError(w, h.logger, "Invalid document payload", err)
		return
	}

	doc, err := h.catalog.CreateDocument(GetRoleFromContext(r), mux.Vars(r)["id"], form)
	if err != nil {
		writeAppError(w, h.logger, "Failed to create document", err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *CatalogHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	var form domain.DocumentFormData
	if err := decodeJSON(w, r, &form); err != nil {
		writeAppError(w, h.logger, "Invalid document payload", err)
		return
	}

	doc, err := h.catalog.UpdateDocument(GetRoleFromContext(r), mux.Vars(r)["id"], form)
	if err != nil {
		writeAppError(w, h.logger, "Failed to update document", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *CatalogHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteDocument(GetRoleFromContext(r), mux.Vars(r)["id"]); err != nil {
		writeAppError(w, h.logger, "Failed to delete document", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
