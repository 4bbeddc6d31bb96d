package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/vestibule-auth/vestibule/internal/auth"
	"github.com/vestibule-auth/vestibule/internal/handlers"
	"github.com/vestibule-auth/vestibule/internal/middleware"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	tokenManager *auth.TokenManager,
	toucher auth.RequestToucher,
) {
	// Rate limiting config for auth endpoints
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public routes - no authentication required
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/login", authHandler.Login)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/refresh", authHandler.RefreshToken)

	// Session polling must not advance last_request_at, otherwise the
	// poll itself keeps the session alive forever.
	touchExempt := auth.TouchExemptPaths("/auth/session")

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokenManager, toucher, touchExempt))

		r.Get("/me", authHandler.Me)
		r.Get("/auth/session", authHandler.Me)
	})
}
