package envelope

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessAndFailure(t *testing.T) {
	fixed := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	ok := Success("fait", 42)
	assert.Equal(t, CodeOK, ok.Code)
	assert.True(t, ok.Status)
	assert.Equal(t, 42, ok.Data)
	assert.Equal(t, "2025-03-04T10:00:00Z", ok.Date)

	ko := Failure("REGISTER_CLOSED", "caisse fermée")
	assert.False(t, ko.Status)
	assert.Equal(t, "REGISTER_CLOSED", ko.Code)
	assert.Nil(t, ko.Data)
}

func TestFiberHelpers(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error { return OK(c, "bien", []string{"a"}) })
	app.Post("/created", func(c *fiber.Ctx) error { return Created(c, "créé", map[string]int{"id": 7}) })
	app.Get("/ko", func(c *fiber.Ctx) error { return Fail(c, fiber.StatusConflict, "ALREADY_OPEN", "déjà ouverte") })

	tests := []struct {
		method string
		path   string
		status int
		ok     bool
		code   string
	}{
		{method: "GET", path: "/ok", status: 200, ok: true, code: CodeOK},
		{method: "POST", path: "/created", status: 201, ok: true, code: CodeOK},
		{method: "GET", path: "/ko", status: 409, ok: false, code: "ALREADY_OPEN"},
	}

	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tt.status, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var env Raw
		require.NoError(t, json.Unmarshal(body, &env))
		assert.Equal(t, tt.ok, env.Status)
		assert.Equal(t, tt.code, env.Code)
		assert.NotEmpty(t, env.Date)
	}
}
