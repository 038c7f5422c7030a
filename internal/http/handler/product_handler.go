package handler

import (
	"net/http"
	"strconv"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/http/response"
	"commerce-backend/internal/observability"
	"commerce-backend/internal/repository"
	"commerce-backend/internal/service"
)

type ProductHandler struct {
	catalog *service.CatalogService
}

func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type productRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice"`
	Category      string   `json:"category"`
	CategoryID    uint     `json:"categoryId"`
	Image         string   `json:"image"`
	InStock       *bool    `json:"inStock"`
	IsNew         bool     `json:"isNew"`
	IsOnSale      bool     `json:"isOnSale"`
}

func (req *productRequest) categoryRef() domain.CategoryRef {
	if req.CategoryID != 0 {
		return domain.CategoryByID(req.CategoryID)
	}
	return domain.CategoryByName(req.Category)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := service.ProductQuery{
		PageRequest: pageRequest(r),
		Search:      r.URL.Query().Get("search"),
		IsNew:       r.URL.Query().Get("isNew") == "true",
		IsOnSale:    r.URL.Query().Get("isOnSale") == "true",
		SortBy:      r.URL.Query().Get("sortBy"),
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			q.Category = domain.CategoryByID(uint(id))
		} else {
			q.Category = domain.CategoryByName(raw)
		}
	}
	q.MinPrice = floatParam(r, "minPrice")
	q.MaxPrice = floatParam(r, "maxPrice")

	page, err := h.catalog.ListProducts(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, page)
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	product := &domain.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Image:         req.Image,
		InStock:       req.InStock == nil || *req.InStock,
		IsNew:         req.IsNew,
		IsOnSale:      req.IsOnSale,
	}
	created, err := h.catalog.CreateProduct(r.Context(), product, req.categoryRef())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "product.created", "product_id", created.ID, "name", created.Name)
	response.JSON(w, r, http.StatusCreated, created)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	existing, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	req := productRequest{
		Name:          existing.Name,
		Description:   existing.Description,
		Price:         existing.Price,
		OriginalPrice: existing.OriginalPrice,
		Image:         existing.Image,
		IsNew:         existing.IsNew,
		IsOnSale:      existing.IsOnSale,
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price
	existing.OriginalPrice = req.OriginalPrice
	existing.Image = req.Image
	existing.IsNew = req.IsNew
	existing.IsOnSale = req.IsOnSale
	if req.InStock != nil {
		existing.InStock = *req.InStock
	}
	updated, err := h.catalog.UpdateProduct(r.Context(), existing, req.categoryRef())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "product.updated", "product_id", updated.ID)
	response.JSON(w, r, http.StatusOK, updated)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "product.deleted", "product_id", id)
	response.NoContent(w)
}

func pageRequest(r *http.Request) repository.PageRequest {
	var req repository.PageRequest
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		req.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil {
		req.PageSize = v
	}
	return req
}

func floatParam(r *http.Request, name string) *float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
