package routes

import (
	"github.com/rulix/auth-api/internal/handlers"
	"github.com/rulix/auth-api/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminHandler,
	rateLimit middleware.RateLimitConfig,
) {
	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)

		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(rateLimit))
			r.Post("/login", authHandler.Login)
			r.Post("/verify", authHandler.Verify)
		})

		// Admin endpoints carry their own token gate; no session middleware here.
		r.Route("/admin", func(r chi.Router) {
			r.Post("/create_user", adminHandler.CreateUser)
			r.Post("/list_users", adminHandler.ListUsers)
		})
	})
}
