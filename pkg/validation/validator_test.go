package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Username string `json:"username" binding:"required" validate:"required"`
	Password string `json:"password" binding:"required,pwd" validate:"required,pwd"`
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
}

func validate(t *testing.T, s any) error {
	t.Helper()
	Init()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	return v.Struct(s)
}

func TestToDetailsFieldMessages(t *testing.T) {
	err := validate(t, registerPayload{Password: "short", Email: "not-an-email"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "is required", details["username"])
	assert.Equal(t, "must be at least 8 characters long", details["password"])
	assert.Equal(t, "must be a valid email", details["email"])
}

func TestToDetailsValidPayload(t *testing.T) {
	err := validate(t, registerPayload{Username: "busterblade", Password: "password123", Email: "buster@example.com"})
	assert.NoError(t, err)
	assert.Nil(t, ToDetails(nil))
}

func TestToDetailsInvalidJSON(t *testing.T) {
	var dst registerPayload
	err := json.Unmarshal([]byte("{"), &dst)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
}

func TestToDetailsFallback(t *testing.T) {
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("boom")))
}
