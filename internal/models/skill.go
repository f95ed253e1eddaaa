package models

import (
	"time"

	"github.com/google/uuid"
)

// Уровни владения навыком
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// Skill представляет объявление о навыке в системе
type Skill struct {
	ID          uuid.UUID `json:"id"`
	AuthorID    uuid.UUID `json:"author_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Level       string    `json:"level"` // Beginner, Intermediate, Advanced
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Дополнительные поля для API
	Author   *User          `json:"author,omitempty"`
	Requests []SkillRequest `json:"requests,omitempty"`
}

// ValidLevel проверяет допустимость уровня навыка
func ValidLevel(level string) bool {
	return level == LevelBeginner || level == LevelIntermediate || level == LevelAdvanced
}
