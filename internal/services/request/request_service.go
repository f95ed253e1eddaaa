package request

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

// RequestService представляет сервис для работы с заявками на обучение и обмен
type RequestService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewRequestService создает новый экземпляр RequestService
func NewRequestService(cfg *config.Config) *RequestService {
	return &RequestService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// CreateLearnRequest создает заявку на обучение навыку
func (s *RequestService) CreateLearnRequest(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	requesterID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	skillID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid skill ID format"})
	}

	var requestData struct {
		Message string `json:"message"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	return s.createRequest(ctx, c, models.SkillRequest{
		ID:      uuid.New(),
		SkillID: skillID,
		UserID:  requesterID,
		Type:    models.RequestTypeLearn,
		Status:  models.RequestStatusPending,
		Message: requestData.Message,
	})
}

// CreateExchangeRequest создает заявку на обмен навыками
func (s *RequestService) CreateExchangeRequest(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	requesterID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	skillID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid skill ID format"})
	}

	var requestData struct {
		Message      string               `json:"message"`
		OfferedSkill *models.OfferedSkill `json:"offered_skill"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request"})
	}

	// При обмене предлагаемый навык обязателен
	if err := requestData.OfferedSkill.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Offered skill details are required"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	return s.createRequest(ctx, c, models.SkillRequest{
		ID:           uuid.New(),
		SkillID:      skillID,
		UserID:       requesterID,
		Type:         models.RequestTypeExchange,
		Status:       models.RequestStatusPending,
		Message:      requestData.Message,
		OfferedSkill: requestData.OfferedSkill,
	})
}

// createRequest проверяет навык и отсутствие дубликата, затем вставляет заявку.
// Дубликат определяется сканированием по (skill_id, user_id) без уникального
// ограничения в схеме.
func (s *RequestService) createRequest(ctx context.Context, c fiber.Ctx, request models.SkillRequest) error {
	// Проверяем, что навык существует
	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM skills WHERE id = $1)
	`, request.SkillID).Scan(&exists)

	if err != nil {
		log.Printf("Ошибка проверки существования навыка: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}

	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Skill not found"})
	}

	// Проверяем, не отправлял ли пользователь заявку на этот навык (любого типа)
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM skill_requests WHERE skill_id = $1 AND user_id = $2)
	`, request.SkillID, request.UserID).Scan(&exists)

	if err != nil {
		log.Printf("Ошибка проверки существующих заявок: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}

	if exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Already requested"})
	}

	// Предлагаемый навык храним как JSONB
	var offeredData []byte
	if request.OfferedSkill != nil {
		offeredData, err = json.Marshal(request.OfferedSkill)
		if err != nil {
			log.Printf("Ошибка сериализации предлагаемого навыка: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
		}
	}

	// Начинаем транзакцию
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO skill_requests (id, skill_id, user_id, type, message, offered_skill, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, request.ID, request.SkillID, request.UserID, request.Type, request.Message, offeredData, request.Status)

	if err != nil {
		log.Printf("Ошибка создания заявки: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create request"})
	}

	// Фиксируем транзакцию
	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}

	message := "Learning request sent successfully"
	if request.Type == models.RequestTypeExchange {
		message = "Exchange request sent successfully"
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"request_id": request.ID,
		"message":    message,
	})
}

// UpdateRequestStatus обновляет статус заявки (принятие/отклонение автором навыка)
func (s *RequestService) UpdateRequestStatus(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	authorID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	requestID, err := uuid.Parse(c.Params("requestId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request ID format"})
	}

	var requestData struct {
		Status string `json:"status"` // accepted, rejected
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request"})
	}

	// Автор может только принять или отклонить заявку. Статус connected
	// выставляется при создании связи и через этот маршрут недоступен.
	if !models.ValidDecision(requestData.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid status"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Ищем заявку только среди навыков текущего пользователя: чужая и
	// несуществующая заявки неразличимы в ответе
	var currentStatus string
	err = db.Pool.QueryRow(ctx, `
		SELECT r.status
		FROM skill_requests r
		JOIN skills s ON s.id = r.skill_id
		WHERE r.id = $1 AND s.author_id = $2
	`, requestID, authorID).Scan(&currentStatus)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Request not found or unauthorized"})
		}
		log.Printf("Ошибка запроса заявки: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}

	// Заявка с созданной связью финальна, повторное решение по ней невозможно.
	// Принятую или отклоненную заявку автор может решить заново.
	if currentStatus == models.RequestStatusConnected {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Request is already connected"})
	}

	_, err = db.Pool.Exec(ctx, `
		UPDATE skill_requests
		SET status = $1
		WHERE id = $2
	`, requestData.Status, requestID)

	if err != nil {
		log.Printf("Ошибка обновления статуса заявки: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to update request status"})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"request_id": requestID,
		"status":     requestData.Status,
		"message":    "Request " + requestData.Status + " successfully",
	})
}

// GetMyRequests возвращает все заявки на навыки текущего пользователя
// одним плоским списком, новые первыми
func (s *RequestService) GetMyRequests(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	authorID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT r.id, r.skill_id, r.user_id, r.type, r.status, r.message, r.offered_skill, r.created_at,
		       s.title, s.category
		FROM skill_requests r
		JOIN skills s ON s.id = r.skill_id
		WHERE s.author_id = $1
		ORDER BY r.created_at DESC
	`, authorID)
	if err != nil {
		log.Printf("Ошибка запроса заявок: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to load requests"})
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
			&request.SkillTitle,
			&request.SkillCategory,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
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

	return c.JSON(requests)
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
