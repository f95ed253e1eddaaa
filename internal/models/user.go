package models

import (
	"time"

	"github.com/google/uuid"
)

// User представляет пользователя в системе. Хеш пароля наружу не отдается.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
