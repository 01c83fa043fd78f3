package auth

import (
	"errors"
	"strings"

	"fret-backend/internal/config"
	"fret-backend/internal/envelope"
	"fret-backend/internal/identity"
	"fret-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

type RegisterAdminRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID      uint     `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Roles   []string `json:"roles"`
	SiteID  *uint    `json:"site_id"`
	GroupID *uint    `json:"group_id"`
}

func NewUserResponse(u *models.User) UserResponse {
	id := u.Identity()
	roles := make([]string, 0, len(id.Roles))
	for _, r := range id.Roles {
		roles = append(roles, string(r))
	}
	return UserResponse{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Roles:   roles,
		SiteID:  id.SiteID,
		GroupID: id.GroupID,
	}
}

// HashPassword is shared with user provisioning.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// -------------------------------------------------
// POST /api/auth/register-admin
// Creates the first user, an ADMIN. Refused once any user exists.
// -------------------------------------------------
func RegisterAdminHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Nom, email et mot de passe (8 caractères min.) obligatoires")
		}

		var count int64
		if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "Le compte administrateur initial existe déjà")
		}

		hash, err := HashPassword(body.Password)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Impossible de chiffrer le mot de passe")
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: hash,
			Roles:        string(identity.RoleAdmin),
		}
		if err := db.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Impossible de créer l'utilisateur")
		}

		return envelope.Created(c, "Administrateur créé", NewUserResponse(&user))
	}
}

// -------------------------------------------------
// POST /api/auth/login
// -------------------------------------------------
func LoginHandler(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Email et mot de passe obligatoires")
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := db.Preload("Site").Where("email = ?", body.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Email ou mot de passe incorrect")
			}
			return err
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email ou mot de passe incorrect")
		}

		token, err := GenerateToken(cfg.JWTSecret, cfg.JWTTTL, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Impossible de générer le token")
		}

		return envelope.OK(c, "Connexion réussie", fiber.Map{
			"token": token,
			"user":  NewUserResponse(&user),
		})
	}
}

// -------------------------------------------------
// GET /api/auth/me
// -------------------------------------------------
func MeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cu, err := CurrentUser(c)
		if err != nil {
			return err
		}

		var user models.User
		if err := db.Preload("Site").First(&user, cu.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "Utilisateur introuvable")
			}
			return err
		}
		return envelope.OK(c, "Utilisateur courant", NewUserResponse(&user))
	}
}
