package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"commerce-backend/internal/domain"
	"commerce-backend/internal/http/response"
	"commerce-backend/internal/observability"
	"commerce-backend/internal/repository"
	"commerce-backend/internal/security"
	"commerce-backend/internal/service"
)

type contextKey string

const (
	ClaimsContextKey contextKey = "claims"
	UserContextKey   contextKey = "user"
)

// AuthMiddleware authenticates the request from a bearer access token. The
// blacklist is consulted before the signature is trusted; a revoked token is
// rejected even when it still verifies.
func AuthMiddleware(jwtMgr *security.JWTManager, blacklist service.TokenBlacklist, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				observability.RecordAccessTokenValidation(r.Context(), "missing", "none")
				response.Error(w, r, http.StatusUnauthorized, "NO_TOKEN", "not authorized, no token", nil)
				return
			}
			revoked, err := blacklist.IsRevoked(r.Context(), raw)
			if err != nil {
				response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
				return
			}
			if revoked {
				observability.RecordAccessTokenValidation(r.Context(), "revoked", "bearer")
				response.Error(w, r, http.StatusUnauthorized, "TOKEN_REVOKED", "token has been revoked", nil)
				return
			}
			claims, err := jwtMgr.ParseAccessToken(raw)
			if err != nil {
				observability.RecordAccessTokenValidation(r.Context(), "invalid", "bearer")
				if errors.Is(err, security.ErrTokenExpired) {
					response.Error(w, r, http.StatusUnauthorized, "TOKEN_EXPIRED", "token expired", nil)
					return
				}
				response.Error(w, r, http.StatusUnauthorized, "AUTH_ERROR", "not authorized, token failed", nil)
				return
			}
			userID, err := claims.UserID()
			if err != nil {
				observability.RecordAccessTokenValidation(r.Context(), "invalid", "bearer")
				response.Error(w, r, http.StatusUnauthorized, "AUTH_ERROR", "not authorized, token failed", nil)
				return
			}
			user, err := users.FindByID(userID)
			if err != nil {
				observability.RecordAccessTokenValidation(r.Context(), "unknown_user", "bearer")
				response.Error(w, r, http.StatusUnauthorized, "AUTH_ERROR", "user not found", nil)
				return
			}
			observability.RecordAccessTokenValidation(r.Context(), "valid", "bearer")
			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			ctx = context.WithValue(ctx, UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || !user.IsAdmin() {
			response.Error(w, r, http.StatusForbidden, "PERMISSION_DENIED", "not authorized as an admin", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func ClaimsFromContext(ctx context.Context) (*security.Claims, bool) {
	c, ok := ctx.Value(ClaimsContextKey).(*security.Claims)
	return c, ok
}

func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(UserContextKey).(*domain.User)
	return u, ok
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
