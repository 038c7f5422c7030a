package handler

import (
	"net/http"

	"commerce-backend/internal/http/middleware"
	"commerce-backend/internal/http/response"
	"commerce-backend/internal/observability"
	"commerce-backend/internal/service"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "NO_TOKEN", "not authorized", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, summarize(user))
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "NO_TOKEN", "not authorized", nil)
		return
	}
	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Email     *string `json:"email"`
		Password  *string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	updated, err := h.users.UpdateProfile(r.Context(), user.ID, service.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "user.profile_updated", "user_id", updated.ID)
	response.JSON(w, r, http.StatusOK, summarize(updated))
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	summaries := make([]userSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, summarize(&users[i]))
	}
	response.JSON(w, r, http.StatusOK, summaries)
}
