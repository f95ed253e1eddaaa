package connection

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// ConnectionService представляет сервис для работы со связями между пользователями
type ConnectionService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewConnectionService создает новый экземпляр ConnectionService
func NewConnectionService(cfg *config.Config) *ConnectionService {
	return &ConnectionService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// CreateConnection создает связь по принятой заявке: помечает заявку как
// connected и добавляет по записи каждой из сторон. Три записи выполняются
// отдельными запросами без общей транзакции: после успешного первого шага
// операция считается выполненной, сбои последующих шагов логируются и не
// откатывают результат.
func (s *ConnectionService) CreateConnection(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	var requestData struct {
		RequestID     string `json:"request_id"`
		SkillOffered  string `json:"skill_offered"`
		SkillReceived string `json:"skill_received"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request"})
	}

	requestID, err := uuid.Parse(requestData.RequestID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request ID format"})
	}

	if requestData.SkillOffered == "" || requestData.SkillReceived == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Skill offered and skill received are required"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Ищем заявку только среди навыков текущего пользователя: это
	// единственная проверка прав на создание связи
	var counterpartID uuid.UUID
	err = db.Pool.QueryRow(ctx, `
		SELECT r.user_id
		FROM skill_requests r
		JOIN skills s ON s.id = r.skill_id
		WHERE r.id = $1 AND s.author_id = $2
	`, requestID, ownerID).Scan(&counterpartID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Request not found"})
		}
		log.Printf("Ошибка запроса заявки: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}

	// Шаг 1: помечаем заявку как connected
	_, err = db.Pool.Exec(ctx, `
		UPDATE skill_requests
		SET status = $1
		WHERE id = $2
	`, models.RequestStatusConnected, requestID)

	if err != nil {
		log.Printf("Ошибка обновления статуса заявки: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create connection"})
	}

	conn := models.Connection{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		CounterpartID: counterpartID,
		SkillOffered:  requestData.SkillOffered,
		SkillReceived: requestData.SkillReceived,
		Status:        models.ConnectionStatusActive,
		ConnectedAt:   time.Now(),
	}

	// Шаг 2: запись текущего пользователя
	if err := insertConnection(ctx, conn); err != nil {
		log.Printf("Ошибка создания записи связи у автора: %v", err)
		// Не возвращаем ошибку, т.к. заявка уже помечена connected
	}

	// Шаг 3: зеркальная запись второй стороны
	if err := insertConnection(ctx, conn.Mirror()); err != nil {
		log.Printf("Ошибка создания зеркальной записи связи: %v", err)
		// Не возвращаем ошибку, т.к. заявка уже помечена connected
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":       true,
		"connection_id": conn.ID,
		"message":       "Connection created successfully!",
	})
}

// insertConnection вставляет одну запись связи
func insertConnection(ctx context.Context, conn models.Connection) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO connections (id, owner_id, counterpart_id, skill_offered, skill_received, status, connected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, conn.ID, conn.OwnerID, conn.CounterpartID, conn.SkillOffered, conn.SkillReceived, conn.Status, conn.ConnectedAt)
	return err
}

// GetMyConnections возвращает связи текущего пользователя, новые первыми
func (s *ConnectionService) GetMyConnections(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, owner_id, counterpart_id, skill_offered, skill_received, status, connected_at
		FROM connections
		WHERE owner_id = $1
		ORDER BY connected_at DESC
	`, ownerID)
	if err != nil {
		log.Printf("Ошибка запроса связей: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to load connections"})
	}
	defer rows.Close()

	connections := []models.Connection{}
	for rows.Next() {
		var conn models.Connection
		if err := rows.Scan(
			&conn.ID,
			&conn.OwnerID,
			&conn.CounterpartID,
			&conn.SkillOffered,
			&conn.SkillReceived,
			&conn.Status,
			&conn.ConnectedAt,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		conn.User = getUserInfo(ctx, conn.CounterpartID)
		connections = append(connections, conn)
	}

	return c.JSON(connections)
}

// UpdateConnectionStatus обновляет статус своей записи связи.
// Зеркальная запись второй стороны не меняется: каждая сторона ведет
// свой статус независимо.
func (s *ConnectionService) UpdateConnectionStatus(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	connectionID, err := uuid.Parse(c.Params("connectionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid connection ID format"})
	}

	var requestData struct {
		Status string `json:"status"` // active, completed, paused
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request"})
	}

	if !models.ValidConnectionStatus(requestData.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid status"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
		UPDATE connections
		SET status = $1
		WHERE id = $2 AND owner_id = $3
	`, requestData.Status, connectionID, ownerID)

	if err != nil {
		log.Printf("Ошибка обновления статуса связи: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to update connection status"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Connection not found"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Connection status updated successfully",
	})
}

// RemoveConnection удаляет свою запись связи и по возможности зеркальную
// запись второй стороны. Отсутствие или сбой удаления зеркальной записи
// ошибкой не считается.
func (s *ConnectionService) RemoveConnection(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	connectionID, err := uuid.Parse(c.Params("connectionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid connection ID format"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Находим свою запись, чтобы узнать вторую сторону
	var counterpartID uuid.UUID
	err = db.Pool.QueryRow(ctx, `
		SELECT counterpart_id
		FROM connections
		WHERE id = $1 AND owner_id = $2
	`, connectionID, ownerID).Scan(&counterpartID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Connection not found"})
		}
		log.Printf("Ошибка запроса связи: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error"})
	}

	// Удаляем свою запись
	_, err = db.Pool.Exec(ctx, `
		DELETE FROM connections
		WHERE id = $1 AND owner_id = $2
	`, connectionID, ownerID)

	if err != nil {
		log.Printf("Ошибка удаления связи: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to remove connection"})
	}

	// Ищем зеркальную запись второй стороны и удаляем первую найденную
	var mirrorID uuid.UUID
	err = db.Pool.QueryRow(ctx, `
		SELECT id
		FROM connections
		WHERE owner_id = $1 AND counterpart_id = $2
		ORDER BY connected_at ASC
		LIMIT 1
	`, counterpartID, ownerID).Scan(&mirrorID)

	if err != nil {
		if err != pgx.ErrNoRows {
			log.Printf("Ошибка поиска зеркальной записи связи: %v", err)
		}
		// Зеркальной записи может не быть, это допустимо
	} else {
		if _, err := db.Pool.Exec(ctx, `
			DELETE FROM connections
			WHERE id = $1
		`, mirrorID); err != nil {
			log.Printf("Ошибка удаления зеркальной записи связи: %v", err)
			// Не возвращаем ошибку, своя запись уже удалена
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Connection removed successfully",
	})
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
