package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Типы заявок
const (
	RequestTypeLearn    = "learn"
	RequestTypeExchange = "exchange"
)

// Статусы заявок
const (
	RequestStatusPending   = "pending"
	RequestStatusAccepted  = "accepted"
	RequestStatusRejected  = "rejected"
	RequestStatusConnected = "connected"
)

// SkillRequest представляет заявку на обучение или обмен навыками.
// Заявки принадлежат навыку и не удаляются после решения автора.
type SkillRequest struct {
	ID           uuid.UUID     `json:"id"`
	SkillID      uuid.UUID     `json:"skill_id"`
	UserID       uuid.UUID     `json:"user_id"`
	Type         string        `json:"type"`   // learn, exchange
	Status       string        `json:"status"` // pending, accepted, rejected, connected
	Message      string        `json:"message"`
	OfferedSkill *OfferedSkill `json:"offered_skill,omitempty"` // Только для type=exchange
	CreatedAt    time.Time     `json:"created_at"`

	// Дополнительные поля для API
	User          *User  `json:"user,omitempty"`
	SkillTitle    string `json:"skill_title,omitempty"`
	SkillCategory string `json:"skill_category,omitempty"`
}

// OfferedSkill описывает навык, предлагаемый взамен при обмене
type OfferedSkill struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Level       string `json:"level"`
}

// Validate проверяет обязательные поля предлагаемого навыка.
// Пустой уровень заменяется на Beginner.
func (o *OfferedSkill) Validate() error {
	if o == nil || o.Title == "" || o.Description == "" || o.Category == "" {
		return errors.New("offered skill details are required")
	}
	if o.Level == "" {
		o.Level = LevelBeginner
	}
	return nil
}

// ValidDecision проверяет решение автора по заявке.
// Статус connected выставляется только при создании связи и решением не является.
func ValidDecision(status string) bool {
	return status == RequestStatusAccepted || status == RequestStatusRejected
}
