package request

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API заявок.
// Заявки живут в пространстве /api/skills, где есть и публичные маршруты,
// поэтому авторизация вешается на каждый маршрут, а не на группу.
func (s *RequestService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/skills")
	auth := middleware.AuthMiddleware(s.jwtService)

	// Маршрут для заявок на свои навыки
	api.Get("/myrequests", s.GetMyRequests, auth)

	// Маршрут для решения автора по заявке
	api.Put("/requests/:requestId/status", s.UpdateRequestStatus, auth)

	// Маршрут для заявки на обучение
	api.Post("/:id/request", s.CreateLearnRequest, auth)

	// Маршрут для заявки на обмен
	api.Post("/:id/exchange", s.CreateExchangeRequest, auth)
}
