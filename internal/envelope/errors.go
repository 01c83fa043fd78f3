package envelope

import (
	"errors"
	"net/http"
	"strings"

	"fret-backend/internal/register"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const CodeInternal = "INTERNAL_ERROR"

// ErrorHandler renders every error reaching fiber as a failure envelope.
// Register errors keep their code; fiber errors get one derived from the
// HTTP status; anything else is logged and hidden behind a 500.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var re *register.Error
		if errors.As(err, &re) {
			return Fail(c, register.HTTPStatus(re), re.Code, re.Message)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return Fail(c, fe.Code, StatusCode(fe.Code), fe.Message)
		}

		log.Error("unexpected error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return Fail(c, fiber.StatusInternalServerError, CodeInternal, "Erreur interne du serveur")
	}
}

// StatusCode turns an HTTP status into an envelope code, e.g. 404 -> NOT_FOUND.
func StatusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	return strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
}
