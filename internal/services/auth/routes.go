package auth

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes регистрирует маршруты в Fiber
func (s *AuthService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/auth")

	api.Post("/register", s.Register)
	api.Post("/login", s.Login)

	// Защищенный маршрут профиля
	api.Get("/me", s.Me, middleware.AuthMiddleware(s.jwtService))
}
