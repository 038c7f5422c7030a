package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"commerce-backend/internal/health"
	"commerce-backend/internal/http/handler"
	"commerce-backend/internal/http/middleware"
	"commerce-backend/internal/http/response"
	"commerce-backend/internal/repository"
	"commerce-backend/internal/security"
	"commerce-backend/internal/service"
)

type Dependencies struct {
	AuthHandler     *handler.AuthHandler
	UserHandler     *handler.UserHandler
	CartHandler     *handler.CartHandler
	OrderHandler    *handler.OrderHandler
	ProductHandler  *handler.ProductHandler
	CategoryHandler *handler.CategoryHandler

	JWTManager     *security.JWTManager
	TokenBlacklist service.TokenBlacklist
	Users          repository.UserRepository

	CORSOrigins       []string
	AuthRateLimitRPM  int
	APIRateLimitRPM   int
	GlobalRateLimiter GlobalRateLimiterFunc
	AuthRateLimiter   AuthRateLimiterFunc
	Readiness         *health.ProbeRunner
	EnableOTelHTTP    bool
}

type GlobalRateLimiterFunc func(http.Handler) http.Handler
type AuthRateLimiterFunc func(http.Handler) http.Handler

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(1 << 20))
	if dep.GlobalRateLimiter != nil {
		r.Use(dep.GlobalRateLimiter)
	} else {
		r.Use(middleware.NewRateLimiter(dep.APIRateLimitRPM, time.Minute).Middleware())
	}

	authLimiter := dep.AuthRateLimiter
	if authLimiter == nil {
		authLimiter = middleware.NewRateLimiter(dep.AuthRateLimitRPM, time.Minute).Middleware()
	}
	requireAuth := middleware.AuthMiddleware(dep.JWTManager, dep.TokenBlacklist, dep.Users)

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter).Post("/register", dep.AuthHandler.Register)
			r.With(authLimiter).Post("/login", dep.AuthHandler.Login)
			r.With(authLimiter).Post("/refresh", dep.AuthHandler.Refresh)
			r.Post("/logout", dep.AuthHandler.Logout)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", dep.ProductHandler.List)
			r.Get("/{id}", dep.ProductHandler.GetByID)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth, middleware.RequireAdmin)
				r.Post("/", dep.ProductHandler.Create)
				r.Put("/{id}", dep.ProductHandler.Update)
				r.Delete("/{id}", dep.ProductHandler.Delete)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", dep.CategoryHandler.List)
			r.Get("/{id}", dep.CategoryHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth, middleware.RequireAdmin)
				r.Post("/", dep.CategoryHandler.Create)
				r.Put("/{id}", dep.CategoryHandler.Update)
				r.Delete("/{id}", dep.CategoryHandler.Delete)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", dep.CartHandler.Get)
			r.Post("/items", dep.CartHandler.AddItem)
			r.Put("/items/{id}", dep.CartHandler.UpdateItem)
			r.Delete("/items/{id}", dep.CartHandler.RemoveItem)
			r.Delete("/", dep.CartHandler.Clear)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", dep.OrderHandler.Create)
			r.Get("/mine", dep.OrderHandler.ListMine)
			r.Get("/{id}", dep.OrderHandler.GetByID)
			r.Put("/{id}/pay", dep.OrderHandler.Pay)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", dep.OrderHandler.ListAll)
				r.Put("/{id}/deliver", dep.OrderHandler.Deliver)
				r.Put("/{id}/status", dep.OrderHandler.UpdateStatus)
				r.Put("/{id}/refund", dep.OrderHandler.Refund)
			})
		})

		r.With(requireAuth).Get("/me", dep.UserHandler.Me)
		r.With(requireAuth).Put("/me", dep.UserHandler.UpdateProfile)
		r.With(requireAuth, middleware.RequireAdmin).Get("/admin/users", dep.UserHandler.List)
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
