package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campushub/club-service/internal/security"
)

// RegisterRoutes mounts the limiter in front of every route: login and
// register get their dedicated thresholds via category normalization, and
// everything else falls under the default category.
func RegisterRoutes(app *fiber.App, h *AuthHandler, limiter *security.RateLimiter) {
	app.Use(RateLimit(limiter))

	app.Post("/api/v1/register", h.Register)
	app.Post("/api/v1/login", h.Login)
	app.Post("/api/v1/refresh", h.Refresh)
	app.Delete("/api/v1/session", h.Logout)

	app.Get("/api/v1/session", RequireAuth(h.tokens), h.Session)
}
