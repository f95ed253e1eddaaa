package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTService_RoundTrip(t *testing.T) {
	service := NewJWTService("test-secret")
	userID := uuid.New().String()

	token, err := service.GenerateToken(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	extracted, err := service.ExtractUserID(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, extracted)
}

func TestJWTService_WrongSecret(t *testing.T) {
	service := NewJWTService("test-secret")

	token, err := service.GenerateToken(uuid.New().String())
	assert.NoError(t, err)

	other := NewJWTService("another-secret")
	_, err = other.ExtractUserID(token)
	assert.Error(t, err)
}

func TestJWTService_GarbageToken(t *testing.T) {
	service := NewJWTService("test-secret")

	_, err := service.ExtractUserID("not-a-token")
	assert.Error(t, err)

	_, err = service.ExtractUserID("")
	assert.Error(t, err)
}
