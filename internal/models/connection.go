package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы связей
const (
	ConnectionStatusActive    = "active"
	ConnectionStatusCompleted = "completed"
	ConnectionStatusPaused    = "paused"
)

// Connection представляет связь пользователя с партнером по обмену.
// Каждая сторона хранит собственную запись: skill_offered — то, чему
// учит владелец записи, skill_received — то, чему учится.
type Connection struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"-"`
	CounterpartID uuid.UUID `json:"user_id"`
	SkillOffered  string    `json:"skill_offered"`
	SkillReceived string    `json:"skill_received"`
	Status        string    `json:"status"` // active, completed, paused
	ConnectedAt   time.Time `json:"connected_at"`

	// Дополнительные поля для API
	User *User `json:"user,omitempty"`
}

// Mirror возвращает зеркальную запись для второй стороны:
// стороны меняются местами, навыки тоже
func (c Connection) Mirror() Connection {
	return Connection{
		ID:            uuid.New(),
		OwnerID:       c.CounterpartID,
		CounterpartID: c.OwnerID,
		SkillOffered:  c.SkillReceived,
		SkillReceived: c.SkillOffered,
		Status:        c.Status,
		ConnectedAt:   c.ConnectedAt,
	}
}

// ValidConnectionStatus проверяет допустимость статуса связи
func ValidConnectionStatus(status string) bool {
	return status == ConnectionStatusActive ||
		status == ConnectionStatusCompleted ||
		status == ConnectionStatusPaused
}
