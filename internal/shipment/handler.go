package shipment

import (
	"fret-backend/internal/envelope"
	"fret-backend/internal/pricing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type QuoteResponse struct {
	Form    Form           `json:"form"`
	Pricing pricing.Output `json:"pricing"`
}

// -------------------------------------------------
// POST /api/v1/pricing/quote
// -------------------------------------------------
func QuoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body Form
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Formulaire invalide: type inconnu ou liste trop longue")
		}
		if err := body.Check(); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		form, out := body.Priced()
		return envelope.OK(c, "Tarification calculée", QuoteResponse{Form: form, Pricing: out})
	}
}
