package main

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/services/auth"
	"github.com/rajivgeraev/skillswap-api/internal/services/connection"
	"github.com/rajivgeraev/skillswap-api/internal/services/request"
	"github.com/rajivgeraev/skillswap-api/internal/services/skill"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем базу данных
	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer db.CloseDB()

	// Создаем схему, если ее еще нет
	if err := db.Migrate(); err != nil {
		log.Fatalf("❌ Ошибка при миграции базы данных: %v", err)
	}

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "SkillSwap API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Проверка живости
	app.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "SkillSwap API is running!"})
	})

	// Создаём сервисы
	authService := auth.NewAuthService(cfg)
	requestService := request.NewRequestService(cfg)
	connectionService := connection.NewConnectionService(cfg)
	skillService := skill.NewSkillService(cfg)

	// Регистрируем маршруты. Маршруты навыков с :id регистрируются
	// последними, чтобы не перехватывать конкретные пути вроде /myrequests
	authService.SetupRoutes(app)
	requestService.SetupRoutes(app)
	connectionService.SetupRoutes(app)
	skillService.SetupRoutes(app)
	skillService.SetupPublicRoutes(app)

	// Запускаем сервер
	log.Printf("✅ SkillSwap API запущен на порту %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"message": err.Error(),
	})
}
