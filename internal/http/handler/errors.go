package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"commerce-backend/internal/http/response"
	"commerce-backend/internal/repository"
	"commerce-backend/internal/service"
)

// writeServiceError maps domain violations onto machine-readable envelope
// codes. Anything unclassified becomes an opaque 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrAuthFailed):
		response.Error(w, r, http.StatusUnauthorized, "AUTH_FAILED", err.Error(), nil)
	case errors.Is(err, service.ErrNoRefreshToken):
		response.Error(w, r, http.StatusUnauthorized, "NO_TOKEN", err.Error(), nil)
	case errors.Is(err, service.ErrInvalidRefreshToken):
		response.Error(w, r, http.StatusUnauthorized, "INVALID_TOKEN", err.Error(), nil)
	case errors.Is(err, service.ErrEmailTaken):
		response.Error(w, r, http.StatusConflict, "EMAIL_TAKEN", err.Error(), nil)
	case errors.Is(err, service.ErrEmptyOrder):
		response.Error(w, r, http.StatusBadRequest, "EMPTY_ORDER", err.Error(), nil)
	case errors.Is(err, service.ErrUnsupportedPayment):
		response.Error(w, r, http.StatusBadRequest, "UNSUPPORTED_PAYMENT", err.Error(), nil)
	case errors.Is(err, service.ErrEmptyCart):
		response.Error(w, r, http.StatusBadRequest, "EMPTY_CART", err.Error(), nil)
	case errors.Is(err, service.ErrProductSetMismatch):
		response.Error(w, r, http.StatusBadRequest, "PRODUCT_SET_MISMATCH", err.Error(), nil)
	case errors.Is(err, service.ErrItemNotInCart):
		response.Error(w, r, http.StatusBadRequest, "ITEM_NOT_IN_CART", err.Error(), nil)
	case errors.Is(err, service.ErrProductMissing):
		response.Error(w, r, http.StatusBadRequest, "PRODUCT_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, service.ErrOutOfStock):
		response.Error(w, r, http.StatusBadRequest, "OUT_OF_STOCK", err.Error(), nil)
	case errors.Is(err, service.ErrPriceMismatch):
		response.Error(w, r, http.StatusBadRequest, "PRICE_MISMATCH", err.Error(), nil)
	case errors.Is(err, service.ErrQuantityExceedsCart):
		response.Error(w, r, http.StatusBadRequest, "QUANTITY_EXCEEDS_CART", err.Error(), nil)
	case errors.Is(err, service.ErrPriceCalcMismatch):
		response.Error(w, r, http.StatusBadRequest, "PRICE_CALCULATION_MISMATCH", err.Error(), nil)
	case errors.Is(err, service.ErrInvalidStatus):
		response.Error(w, r, http.StatusBadRequest, "INVALID_STATUS", err.Error(), nil)
	case errors.Is(err, service.ErrOrderNotPaid):
		response.Error(w, r, http.StatusBadRequest, "ORDER_NOT_PAID", err.Error(), nil)
	case errors.Is(err, service.ErrOrderRefunded):
		response.Error(w, r, http.StatusBadRequest, "ORDER_ALREADY_REFUNDED", err.Error(), nil)
	case errors.Is(err, service.ErrNotOrderOwner):
		response.Error(w, r, http.StatusForbidden, "NOT_AUTHORIZED", err.Error(), nil)
	case errors.Is(err, service.ErrInvalidQuantity):
		response.Error(w, r, http.StatusBadRequest, "INVALID_QUANTITY", err.Error(), nil)
	case errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrCartNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, r, http.StatusBadRequest, "INVALID_BODY", "invalid request body", nil)
		return false
	}
	return true
}
