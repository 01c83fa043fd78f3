package auth

import (
	"strings"

	"fret-backend/internal/identity"

	"github.com/gofiber/fiber/v2"
)

const CtxUserKey = "current_user"

func JWTMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "En-tête Authorization manquant")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "Le format attendu est 'Bearer <token>'")
		}

		claims, err := ParseToken(secret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Token invalide ou expiré")
		}

		c.Locals(CtxUserKey, claims.Identity(parts[1]))
		return c.Next()
	}
}

// CurrentUser returns the identity set by JWTMiddleware.
func CurrentUser(c *fiber.Ctx) (identity.CurrentUser, error) {
	u, ok := c.Locals(CtxUserKey).(identity.CurrentUser)
	if !ok {
		return identity.CurrentUser{}, fiber.NewError(fiber.StatusUnauthorized, "Utilisateur non authentifié")
	}
	return u, nil
}

// RequireRole lets the request through when the user holds any of roles.
func RequireRole(roles ...identity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := CurrentUser(c)
		if err != nil {
			return err
		}
		if !u.HasAny(roles...) {
			return fiber.NewError(fiber.StatusForbidden, "Vous n'avez pas les droits pour cette opération")
		}
		return c.Next()
	}
}
