package handler

import (
	"net/http"

	"commerce-backend/internal/http/middleware"
	"commerce-backend/internal/http/response"
	"commerce-backend/internal/service"
)

type CartHandler struct {
	carts *service.CartService
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartItemRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "NO_TOKEN", "not authorized", nil)
		return
	}
	cart, err := h.carts.Get(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "NO_TOKEN", "not authorized", nil)
		return
	}
	var req cartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cart, err := h.carts.AddItem(r.Context(), user.ID, req.ProductID, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, cart)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "NO_TOKEN", "not authorized", nil)
		return
	}
	productID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	cart, err := h.carts.UpdateItemQuantity(r.Context(), user.ID, productID, req.Quantity)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "NO_TOKEN", "not authorized", nil)
		return
	}
	productID, ok := pathID(w, r)
	if !ok {
		return
	}
	cart, err := h.carts.RemoveItem(r.Context(), user.ID, productID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, cart)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "NO_TOKEN", "not authorized", nil)
		return
	}
	cart, err := h.carts.Clear(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, cart)
}
