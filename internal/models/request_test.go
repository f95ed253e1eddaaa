package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOfferedSkill_Validate(t *testing.T) {
	var nilSkill *OfferedSkill
	assert.Error(t, nilSkill.Validate())

	assert.Error(t, (&OfferedSkill{Description: "d", Category: "c"}).Validate())
	assert.Error(t, (&OfferedSkill{Title: "t", Category: "c"}).Validate())
	assert.Error(t, (&OfferedSkill{Title: "t", Description: "d"}).Validate())

	offered := &OfferedSkill{Title: "Cooking", Description: "Homemade pasta", Category: "Food"}
	assert.NoError(t, offered.Validate())
	// Пустой уровень заменяется на Beginner
	assert.Equal(t, LevelBeginner, offered.Level)

	offered = &OfferedSkill{Title: "Cooking", Description: "Homemade pasta", Category: "Food", Level: LevelAdvanced}
	assert.NoError(t, offered.Validate())
	assert.Equal(t, LevelAdvanced, offered.Level)
}

func TestValidDecision(t *testing.T) {
	assert.True(t, ValidDecision(RequestStatusAccepted))
	assert.True(t, ValidDecision(RequestStatusRejected))

	// connected не является решением автора
	assert.False(t, ValidDecision(RequestStatusConnected))
	assert.False(t, ValidDecision(RequestStatusPending))
	assert.False(t, ValidDecision(""))
	assert.False(t, ValidDecision("canceled"))
}
