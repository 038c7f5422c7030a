package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/http/response"
	"commerce-backend/internal/observability"
	"commerce-backend/internal/service"
)

type CategoryHandler struct {
	catalog *service.CatalogService
}

func NewCategoryHandler(catalog *service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

type categoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, categories)
}

// Get resolves the path segment as a numeric ID first, then as a name or
// slug, so both /categories/3 and /categories/electronics work.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	var ref domain.CategoryRef
	if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
		ref = domain.CategoryByID(uint(id))
	} else {
		ref = domain.CategoryByName(raw)
	}
	category, err := h.catalog.GetCategory(r.Context(), ref)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, category)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	category := &domain.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Image:       req.Image,
	}
	created, err := h.catalog.CreateCategory(r.Context(), category)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "category.created", "category_id", created.ID, "slug", created.Slug)
	response.JSON(w, r, http.StatusCreated, created)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	existing, err := h.catalog.GetCategory(r.Context(), domain.CategoryByID(id))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	req := categoryRequest{
		Name:        existing.Name,
		Slug:        existing.Slug,
		Description: existing.Description,
		Image:       existing.Image,
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	existing.Name = req.Name
	existing.Slug = req.Slug
	existing.Description = req.Description
	existing.Image = req.Image
	updated, err := h.catalog.UpdateCategory(r.Context(), existing)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "category.updated", "category_id", updated.ID)
	response.JSON(w, r, http.StatusOK, updated)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "category.deleted", "category_id", id)
	response.NoContent(w)
}
