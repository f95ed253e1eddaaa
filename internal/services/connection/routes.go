package connection

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API связей
func (s *ConnectionService) SetupRoutes(app *fiber.App) {
	// Группа для API связей
	api := app.Group("/api/connections")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для создания связи по принятой заявке
	api.Post("/", s.CreateConnection)

	// Маршрут для получения своих связей
	api.Get("/my", s.GetMyConnections)

	// Маршрут для обновления статуса связи
	api.Put("/:connectionId/status", s.UpdateConnectionStatus)

	// Маршрут для удаления связи
	api.Delete("/:connectionId", s.RemoveConnection)
}
