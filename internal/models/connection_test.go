package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestConnection_Mirror(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	connectedAt := time.Now()

	conn := Connection{
		ID:            uuid.New(),
		OwnerID:       alice,
		CounterpartID: bob,
		SkillOffered:  "Guitar",
		SkillReceived: "Cooking",
		Status:        ConnectionStatusActive,
		ConnectedAt:   connectedAt,
	}

	mirror := conn.Mirror()

	// Стороны меняются местами
	assert.Equal(t, bob, mirror.OwnerID)
	assert.Equal(t, alice, mirror.CounterpartID)

	// Навыки меняются местами: каждая сторона хранит то, чему учит она
	assert.Equal(t, "Cooking", mirror.SkillOffered)
	assert.Equal(t, "Guitar", mirror.SkillReceived)

	assert.Equal(t, ConnectionStatusActive, mirror.Status)
	assert.Equal(t, connectedAt, mirror.ConnectedAt)

	// Зеркальная запись получает собственный идентификатор
	assert.NotEqual(t, conn.ID, mirror.ID)
}

func TestConnection_MirrorOfMirror(t *testing.T) {
	conn := Connection{
		ID:            uuid.New(),
		OwnerID:       uuid.New(),
		CounterpartID: uuid.New(),
		SkillOffered:  "Go",
		SkillReceived: "Rust",
		Status:        ConnectionStatusPaused,
		ConnectedAt:   time.Now(),
	}

	back := conn.Mirror().Mirror()

	assert.Equal(t, conn.OwnerID, back.OwnerID)
	assert.Equal(t, conn.CounterpartID, back.CounterpartID)
	assert.Equal(t, conn.SkillOffered, back.SkillOffered)
	assert.Equal(t, conn.SkillReceived, back.SkillReceived)
}

func TestValidConnectionStatus(t *testing.T) {
	assert.True(t, ValidConnectionStatus(ConnectionStatusActive))
	assert.True(t, ValidConnectionStatus(ConnectionStatusCompleted))
	assert.True(t, ValidConnectionStatus(ConnectionStatusPaused))

	assert.False(t, ValidConnectionStatus("deleted"))
	assert.False(t, ValidConnectionStatus(""))
	assert.False(t, ValidConnectionStatus("Active"))
}
