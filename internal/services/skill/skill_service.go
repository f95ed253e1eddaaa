package skill

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// SkillService представляет сервис для работы с объявлениями о навыках
type SkillService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewSkillService создает новый экземпляр SkillService
func NewSkillService(cfg *config.Config) *SkillService {
	return &SkillService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// CreateSkill создает новое объявление о навыке
func (s *SkillService) CreateSkill(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	authorID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	var requestData struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Level       string `json:"level"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request"})
	}

	// Проверка обязательных полей
	if requestData.Title == "" || requestData.Description == "" || requestData.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Title, description and category are required"})
	}

	if !models.ValidLevel(requestData.Level) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid level"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	skill := models.Skill{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Title:       requestData.Title,
		Description: requestData.Description,
		Category:    requestData.Category,
		Level:       requestData.Level,
	}

	err = db.Pool.QueryRow(ctx, `
		INSERT INTO skills (id, author_id, title, description, category, level)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, skill.ID, skill.AuthorID, skill.Title, skill.Description, skill.Category, skill.Level).
		Scan(&skill.CreatedAt, &skill.UpdatedAt)

	if err != nil {
		log.Printf("Ошибка создания объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create skill"})
	}

	skill.Author = getUserInfo(ctx, skill.AuthorID)

	return c.Status(fiber.StatusCreated).JSON(skill)
}

// GetPublicSkills возвращает список всех объявлений (публичный маршрут)
func (s *SkillService) GetPublicSkills(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, author_id, title, description, category, level, created_at, updated_at
		FROM skills
		ORDER BY created_at DESC
	`)
	if err != nil {
		log.Printf("Ошибка запроса объявлений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to load skills"})
	}
	defer rows.Close()

	skills := []models.Skill{}
	for rows.Next() {
		var skill models.Skill
		if err := rows.Scan(
			&skill.ID,
			&skill.AuthorID,
			&skill.Title,
			&skill.Description,
			&skill.Category,
			&skill.Level,
			&skill.CreatedAt,
			&skill.UpdatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		skill.Author = getUserInfo(ctx, skill.AuthorID)
		skills = append(skills, skill)
	}

	return c.JSON(skills)
}

// GetSkill возвращает одно объявление вместе с заявками на него
func (s *SkillService) GetSkill(c fiber.Ctx) error {
	skillID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid skill ID format"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var skill models.Skill
	err = db.Pool.QueryRow(ctx, `
		SELECT id, author_id, title, description, category, level, created_at, updated_at
		FROM skills
		WHERE id = $1
	`, skillID).Scan(
		&skill.ID,
		&skill.AuthorID,
		&skill.Title,
		&skill.Description,
		&skill.Category,
		&skill.Level,
		&skill.CreatedAt,
		&skill.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Skill not found"})
		}
		log.Printf("Ошибка запроса объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to load skill"})
	}

	skill.Author = getUserInfo(ctx, skill.AuthorID)
	skill.Requests = loadSkillRequests(ctx, skill.ID)

	return c.JSON(skill)
}

// GetMySkills возвращает объявления текущего пользователя вместе с заявками
func (s *SkillService) GetMySkills(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	authorID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, author_id, title, description, category, level, created_at, updated_at
		FROM skills
		WHERE author_id = $1
		ORDER BY created_at DESC
	`, authorID)
	if err != nil {
		log.Printf("Ошибка запроса объявлений пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to load skills"})
	}
	defer rows.Close()

	skills := []models.Skill{}
	for rows.Next() {
		var skill models.Skill
		if err := rows.Scan(
			&skill.ID,
			&skill.AuthorID,
			&skill.Title,
			&skill.Description,
			&skill.Category,
			&skill.Level,
			&skill.CreatedAt,
			&skill.UpdatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		skill.Requests = loadSkillRequests(ctx, skill.ID)
		skills = append(skills, skill)
	}

	return c.JSON(skills)
}

// getUserInfo получает информацию о пользователе
func getUserInfo(ctx context.Context, userID uuid.UUID) *models.User {
	var user models.User
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		log.Printf("Ошибка получения пользователя %s: %v", userID, err)
		return nil
	}

	return &user
}

// loadSkillRequests загружает заявки на объявление вместе с данными заявителей
func loadSkillRequests(ctx context.Context, skillID uuid.UUID) []models.SkillRequest {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, skill_id, user_id, type, status, message, offered_skill, created_at
		FROM skill_requests
		WHERE skill_id = $1
		ORDER BY created_at DESC
	`, skillID)
	if err != nil {
		log.Printf("Ошибка получения заявок: %v", err)
		return nil
	}
	defer rows.Close()

	requests := []models.SkillRequest{}
	for rows.Next() {
		var request models.SkillRequest
		var offeredData []byte
		if err := rows.Scan(
			&request.ID,
			&request.SkillID,
			&request.UserID,
			&request.Type,
			&request.Status,
			&request.Message,
			&offeredData,
			&request.CreatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования заявки: %v", err)
			continue
		}

		// Преобразуем JSONB предлагаемого навыка в структуру
		if len(offeredData) > 0 {
			var offered models.OfferedSkill
			if err := json.Unmarshal(offeredData, &offered); err != nil {
				log.Printf("Ошибка разбора предлагаемого навыка: %v", err)
			} else {
				request.OfferedSkill = &offered
			}
		}

		request.User = getUserInfo(ctx, request.UserID)
		requests = append(requests, request)
	}

	return requests
}
