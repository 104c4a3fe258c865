package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     bool
	}{
		{"plain", "ada", true},
		{"with punctuation", "ada.lovelace_1-x", true},
		{"too short", "ad", false},
		{"space", "ada lovelace", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidUsername(tt.username))
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail(""))
	assert.True(t, IsValidEmail("Ada@School.edu"))
	assert.False(t, IsValidEmail("ada@"))
	assert.False(t, IsValidEmail("ada.school.edu"))
}

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate(""))
	assert.True(t, IsValidDate("2001-04-23"))
	assert.False(t, IsValidDate("23/04/2001"))
	assert.False(t, IsValidDate("2001-13-01"))
}

func TestIsValidBatchSize(t *testing.T) {
	assert.False(t, IsValidBatchSize(0))
	assert.True(t, IsValidBatchSize(1))
	assert.True(t, IsValidBatchSize(MaxBatchSize))
	assert.False(t, IsValidBatchSize(MaxBatchSize+1))
}

func TestRegisterRules(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterRules(v))

	type req struct {
		Username string `validate:"required,username"`
		Born     string `validate:"isodate"`
	}
	assert.NoError(t, v.Struct(req{Username: "ada", Born: "2001-04-23"}))
	assert.Error(t, v.Struct(req{Username: "a d", Born: ""}))
	assert.Error(t, v.Struct(req{Username: "ada", Born: "yesterday"}))
}
