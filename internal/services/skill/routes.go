package skill

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes настраивает защищенные маршруты для API навыков.
// Авторизация вешается на каждый маршрут: под /api/skills есть и
// публичные пути.
func (s *SkillService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/skills")
	auth := middleware.AuthMiddleware(s.jwtService)

	// Маршрут для создания объявления
	api.Post("/create", s.CreateSkill, auth)

	// Маршрут для получения списка своих объявлений
	api.Get("/myskills", s.GetMySkills, auth)
}

// SetupPublicRoutes настраивает публичные маршруты для навыков.
// Маршрут с :id должен регистрироваться после всех конкретных путей.
func (s *SkillService) SetupPublicRoutes(app *fiber.App) {
	// Публичный маршрут для списка объявлений
	app.Get("/api/skills", s.GetPublicSkills)

	// Публичный маршрут для одного объявления
	app.Get("/api/skills/:id", s.GetSkill)
}
