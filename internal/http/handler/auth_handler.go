package handler

import (
	"net/http"
	"strings"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/http/response"
	"commerce-backend/internal/observability"
	"commerce-backend/internal/security"
	"commerce-backend/internal/service"
)

type AuthHandler struct {
	auth         *service.AuthService
	jwtMgr       *security.JWTManager
	cookieSecure bool
}

func NewAuthHandler(auth *service.AuthService, jwtMgr *security.JWTManager, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, jwtMgr: jwtMgr, cookieSecure: cookieSecure}
}

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type userSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func summarize(u *domain.User) userSummary {
	return userSummary{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Role: u.Role}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.auth.Register(r.Context(), req.FirstName, req.LastName, strings.ToLower(req.Email), req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	observability.Audit(r, "user.registered", "user_id", user.ID)
	response.JSON(w, r, http.StatusCreated, summarize(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	userSummary
	Token string `json:"token"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	presented := security.GetCookie(r, security.RefreshTokenCookie)
	result, err := h.auth.Login(r.Context(), strings.ToLower(req.Email), req.Password, presented)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	security.SetRefreshTokenCookie(w, result.RefreshToken, h.jwtMgr.RefreshTTL(), h.cookieSecure)
	observability.Audit(r, "auth.login", "user_id", result.User.ID)
	response.JSON(w, r, http.StatusOK, loginResponse{userSummary: summarize(result.User), Token: result.AccessToken})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	presented := security.GetCookie(r, security.RefreshTokenCookie)
	access, err := h.auth.Refresh(r.Context(), presented)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"token": access})
}

// Logout succeeds whether or not any credentials were presented.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	presentedRefresh := security.GetCookie(r, security.RefreshTokenCookie)
	presentedAccess := ""
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		presentedAccess = strings.TrimSpace(auth[7:])
	}
	if err := h.auth.Logout(r.Context(), presentedRefresh, presentedAccess); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if presentedRefresh != "" {
		security.ClearRefreshTokenCookie(w, h.cookieSecure)
	}
	observability.Audit(r, "auth.logout")
	response.NoContent(w)
}
