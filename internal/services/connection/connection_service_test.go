package connection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/db"
	"github.com/rajivgeraev/skillswap-api/internal/models"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

const testJWTSecret = "integration-test-secret"

// setupDB подключается к тестовой базе из TEST_DATABASE_URL.
// Без нее интеграционные тесты пропускаются.
func setupDB(t *testing.T) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан, пропускаем интеграционный тест")
	}

	if db.Pool == nil {
		cfg := &config.Config{DatabaseURL: dsn}
		if err := db.InitDB(cfg); err != nil {
			t.Fatalf("ошибка подключения к тестовой базе: %v", err)
		}
		if err := db.Migrate(); err != nil {
			t.Fatalf("ошибка миграции тестовой базы: %v", err)
		}
	}
}

func newTestApp() *fiber.App {
	cfg := &config.Config{JWTSecret: testJWTSecret}
	app := fiber.New()
	NewConnectionService(cfg).SetupRoutes(app)
	return app
}

func authToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	token, err := utils.NewJWTService(testJWTSecret).GenerateToken(userID.String())
	if err != nil {
		t.Fatalf("ошибка генерации токена: %v", err)
	}
	return token
}

func createTestUser(t *testing.T, name string) uuid.UUID {
	t.Helper()

	ctx, cancel := db.GetContext()
	defer cancel()

	var id uuid.UUID
	email := fmt.Sprintf("%s-%s@example.com", name, uuid.New())
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`, name, email, "test-hash").Scan(&id)
	if err != nil {
		t.Fatalf("ошибка создания тестового пользователя: %v", err)
	}
	return id
}

func createTestSkill(t *testing.T, authorID uuid.UUID, title string) uuid.UUID {
	t.Helper()

	ctx, cancel := db.GetContext()
	defer cancel()

	id := uuid.New()
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO skills (id, author_id, title, description, category, level)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, authorID, title, title+" lessons", "Music", models.LevelBeginner)
	if err != nil {
		t.Fatalf("ошибка создания тестового навыка: %v", err)
	}
	return id
}

func createTestRequest(t *testing.T, skillID, userID uuid.UUID, status string) uuid.UUID {
	t.Helper()

	ctx, cancel := db.GetContext()
	defer cancel()

	id := uuid.New()
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO skill_requests (id, skill_id, user_id, type, message, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, skillID, userID, models.RequestTypeLearn, "hi", status)
	if err != nil {
		t.Fatalf("ошибка создания тестовой заявки: %v", err)
	}
	return id
}

// createTestPair вставляет запись связи и ее зеркало, как это делает
// CreateConnection, и возвращает оба идентификатора
func createTestPair(t *testing.T, ownerID, counterpartID uuid.UUID, offered, received string, connectedAt time.Time) (uuid.UUID, uuid.UUID) {
	t.Helper()

	ctx, cancel := db.GetContext()
	defer cancel()

	conn := models.Connection{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		CounterpartID: counterpartID,
		SkillOffered:  offered,
		SkillReceived: received,
		Status:        models.ConnectionStatusActive,
		ConnectedAt:   connectedAt,
	}
	mirror := conn.Mirror()

	if err := insertConnection(ctx, conn); err != nil {
		t.Fatalf("ошибка создания тестовой связи: %v", err)
	}
	if err := insertConnection(ctx, mirror); err != nil {
		t.Fatalf("ошибка создания зеркальной тестовой связи: %v", err)
	}
	return conn.ID, mirror.ID
}

func loadConnections(t *testing.T, ownerID uuid.UUID) []models.Connection {
	t.Helper()

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, owner_id, counterpart_id, skill_offered, skill_received, status, connected_at
		FROM connections
		WHERE owner_id = $1
		ORDER BY connected_at DESC
	`, ownerID)
	if err != nil {
		t.Fatalf("ошибка запроса связей: %v", err)
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
			t.Fatalf("ошибка сканирования связи: %v", err)
		}
		connections = append(connections, conn)
	}
	return connections
}

func requestStatus(t *testing.T, requestID uuid.UUID) string {
	t.Helper()

	ctx, cancel := db.GetContext()
	defer cancel()

	var status string
	err := db.Pool.QueryRow(ctx, `
		SELECT status FROM skill_requests WHERE id = $1
	`, requestID).Scan(&status)
	if err != nil {
		t.Fatalf("ошибка запроса статуса заявки: %v", err)
	}
	return status
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("ошибка сериализации тела запроса: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second, FailOnTimeout: true})
	if err != nil {
		t.Fatalf("ошибка выполнения запроса: %v", err)
	}
	return resp
}

func TestCreateConnection_MirroredPair(t *testing.T) {
	setupDB(t)
	app := newTestApp()

	alice := createTestUser(t, "Alice")
	bob := createTestUser(t, "Bob")
	skillID := createTestSkill(t, alice, "Guitar")
	requestID := createTestRequest(t, skillID, bob, models.RequestStatusAccepted)

	resp := doJSON(t, app, http.MethodPost, "/api/connections", authToken(t, alice), fiber.Map{
		"request_id":     requestID.String(),
		"skill_offered":  "Guitar",
		"skill_received": "Cooking",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Заявка помечена как connected
	assert.Equal(t, models.RequestStatusConnected, requestStatus(t, requestID))

	// У автора ровно одна запись: он учит гитаре, учится готовке
	aliceConns := loadConnections(t, alice)
	if assert.Len(t, aliceConns, 1) {
		assert.Equal(t, bob, aliceConns[0].CounterpartID)
		assert.Equal(t, "Guitar", aliceConns[0].SkillOffered)
		assert.Equal(t, "Cooking", aliceConns[0].SkillReceived)
		assert.Equal(t, models.ConnectionStatusActive, aliceConns[0].Status)
	}

	// У второй стороны зеркальная запись с переставленными навыками
	bobConns := loadConnections(t, bob)
	if assert.Len(t, bobConns, 1) {
		assert.Equal(t, alice, bobConns[0].CounterpartID)
		assert.Equal(t, "Cooking", bobConns[0].SkillOffered)
		assert.Equal(t, "Guitar", bobConns[0].SkillReceived)
		assert.Equal(t, models.ConnectionStatusActive, bobConns[0].Status)
	}
}

func TestCreateConnection_NotAuthor(t *testing.T) {
	setupDB(t)
	app := newTestApp()

	alice := createTestUser(t, "Alice")
	bob := createTestUser(t, "Bob")
	skillID := createTestSkill(t, alice, "Guitar")
	requestID := createTestRequest(t, skillID, bob, models.RequestStatusAccepted)

	// Заявитель не может создать связь по чужому навыку
	resp := doJSON(t, app, http.MethodPost, "/api/connections", authToken(t, bob), fiber.Map{
		"request_id":     requestID.String(),
		"skill_offered":  "Guitar",
		"skill_received": "Cooking",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	assert.Equal(t, models.RequestStatusAccepted, requestStatus(t, requestID))
	assert.Len(t, loadConnections(t, alice), 0)
	assert.Len(t, loadConnections(t, bob), 0)
}

func TestUpdateConnectionStatus_Independent(t *testing.T) {
	setupDB(t)
	app := newTestApp()

	alice := createTestUser(t, "Alice")
	bob := createTestUser(t, "Bob")
	aliceConnID, _ := createTestPair(t, alice, bob, "Guitar", "Cooking", time.Now())

	// Чужую запись менять нельзя
	resp := doJSON(t, app, http.MethodPut, "/api/connections/"+aliceConnID.String()+"/status",
		authToken(t, bob), fiber.Map{"status": models.ConnectionStatusPaused})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Свою можно, зеркальная запись не меняется
	resp = doJSON(t, app, http.MethodPut, "/api/connections/"+aliceConnID.String()+"/status",
		authToken(t, alice), fiber.Map{"status": models.ConnectionStatusPaused})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	aliceConns := loadConnections(t, alice)
	if assert.Len(t, aliceConns, 1) {
		assert.Equal(t, models.ConnectionStatusPaused, aliceConns[0].Status)
	}

	bobConns := loadConnections(t, bob)
	if assert.Len(t, bobConns, 1) {
		assert.Equal(t, models.ConnectionStatusActive, bobConns[0].Status)
	}
}

func TestRemoveConnection_MirroredDelete(t *testing.T) {
	setupDB(t)
	app := newTestApp()

	alice := createTestUser(t, "Alice")
	bob := createTestUser(t, "Bob")
	aliceConnID, _ := createTestPair(t, alice, bob, "Guitar", "Cooking", time.Now())

	resp := doJSON(t, app, http.MethodDelete, "/api/connections/"+aliceConnID.String(),
		authToken(t, alice), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Удаляются обе записи
	assert.Len(t, loadConnections(t, alice), 0)
	assert.Len(t, loadConnections(t, bob), 0)
}

func TestRemoveConnection_MirrorAlreadyGone(t *testing.T) {
	setupDB(t)
	app := newTestApp()

	alice := createTestUser(t, "Alice")
	bob := createTestUser(t, "Bob")
	aliceConnID, bobConnID := createTestPair(t, alice, bob, "Guitar", "Cooking", time.Now())

	// Вторая сторона уже удалила свою запись
	ctx, cancel := db.GetContext()
	_, err := db.Pool.Exec(ctx, `DELETE FROM connections WHERE id = $1`, bobConnID)
	cancel()
	assert.NoError(t, err)

	// Удаление своей записи все равно успешно
	resp := doJSON(t, app, http.MethodDelete, "/api/connections/"+aliceConnID.String(),
		authToken(t, alice), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, loadConnections(t, alice), 0)
}

func TestRemoveConnection_NotFound(t *testing.T) {
	setupDB(t)
	app := newTestApp()

	alice := createTestUser(t, "Alice")

	resp := doJSON(t, app, http.MethodDelete, "/api/connections/"+uuid.New().String(),
		authToken(t, alice), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetMyConnections_Ordering(t *testing.T) {
	setupDB(t)
	app := newTestApp()

	alice := createTestUser(t, "Alice")
	bob := createTestUser(t, "Bob")
	carol := createTestUser(t, "Carol")
	dave := createTestUser(t, "Dave")

	now := time.Now()
	oldestID, _ := createTestPair(t, alice, bob, "Guitar", "Cooking", now.Add(-3*time.Hour))
	newestID, _ := createTestPair(t, alice, carol, "Guitar", "Chess", now.Add(-1*time.Hour))
	middleID, _ := createTestPair(t, alice, dave, "Guitar", "Spanish", now.Add(-2*time.Hour))

	resp := doJSON(t, app, http.MethodGet, "/api/connections/my", authToken(t, alice), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)

	var connections []models.Connection
	assert.NoError(t, json.Unmarshal(body, &connections))
	assert.Len(t, connections, 3)

	// Новые связи первыми
	assert.Equal(t, newestID, connections[0].ID)
	assert.Equal(t, middleID, connections[1].ID)
	assert.Equal(t, oldestID, connections[2].ID)

	// Каждая связь дополнена данными второй стороны
	if assert.NotNil(t, connections[0].User) {
		assert.Equal(t, "Carol", connections[0].User.Name)
	}
}
