package envelope

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"fret-backend/internal/register"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorHandler(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.New(core))})
	app.Get("/closed", func(c *fiber.Ctx) error { return register.ErrRegisterClosed })
	app.Get("/wrapped", func(c *fiber.Ctx) error { return errors.Join(errors.New("ctx"), register.ErrInsufficientBalance) })
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusUnauthorized, "Token invalide") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("db down") })

	tests := []struct {
		path    string
		status  int
		code    string
		message string
	}{
		{"/closed", 409, "REGISTER_CLOSED", register.ErrRegisterClosed.Message},
		{"/wrapped", 422, "INSUFFICIENT_BALANCE", register.ErrInsufficientBalance.Message},
		{"/fiber", 401, "UNAUTHORIZED", "Token invalide"},
		{"/boom", 500, CodeInternal, "Erreur interne du serveur"},
		{"/nowhere", 404, "NOT_FOUND", "Cannot GET /nowhere"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body Raw
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Status)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}

	assert.Equal(t, 1, logs.Len())
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", StatusCode(400))
	assert.Equal(t, "UNPROCESSABLE_ENTITY", StatusCode(422))
	assert.Equal(t, "ERROR", StatusCode(999))
}
