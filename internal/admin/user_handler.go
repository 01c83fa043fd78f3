package admin

import (
	"errors"
	"strings"

	"fret-backend/internal/auth"
	"fret-backend/internal/envelope"
	"fret-backend/internal/identity"
	"fret-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

type CreateUserRequest struct {
	Name     string   `json:"name" validate:"required,max=100"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Roles    []string `json:"roles" validate:"required,min=1,dive,oneof=ADMIN ADMIN_GROUPE CSITE CAISSIER OPERATEUR"`
	SiteID   *uint    `json:"site_id"`
	GroupID  *uint    `json:"group_id"`
}

// -------------------------------------------------
// POST /api/admin/users
// Cashiers and site managers need a site, group
// administrators a group.
// -------------------------------------------------
func CreateUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		for i := range body.Roles {
			body.Roles[i] = strings.ToUpper(strings.TrimSpace(body.Roles[i]))
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Données utilisateur invalides: "+err.Error())
		}

		roles := identity.ParseRoles(strings.Join(body.Roles, ","))
		probe := identity.CurrentUser{Roles: roles}
		if probe.HasAny(identity.RoleCashier, identity.RoleSiteManager) && body.SiteID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Un site est obligatoire pour ce rôle")
		}
		if probe.HasRole(identity.RoleGroupAdmin) && body.GroupID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Un groupe est obligatoire pour ce rôle")
		}
		if body.SiteID != nil {
			if err := db.First(&models.Site{}, *body.SiteID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Site introuvable")
			}
		}
		if body.GroupID != nil {
			if err := db.First(&models.Group{}, *body.GroupID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Groupe introuvable")
			}
		}

		hash, err := auth.HashPassword(body.Password)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Impossible de chiffrer le mot de passe")
		}

		user := models.User{
			Name:         strings.TrimSpace(body.Name),
			Email:        body.Email,
			PasswordHash: hash,
			Roles:        identity.JoinRoles(roles),
			SiteID:       body.SiteID,
			GroupID:      body.GroupID,
		}
		if err := db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Cet email est déjà utilisé")
			}
			return err
		}
		if err := db.Preload("Site").First(&user, user.ID).Error; err != nil {
			return err
		}
		return envelope.Created(c, "Utilisateur créé", auth.NewUserResponse(&user))
	}
}

// -------------------------------------------------
// GET /api/admin/users?site_id=&role=
// -------------------------------------------------
func ListUsersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := db.Preload("Site").Order("name")
		if id := c.QueryInt("site_id"); id > 0 {
			q = q.Where("site_id = ?", id)
		}

		var users []models.User
		if err := q.Find(&users).Error; err != nil {
			return err
		}

		role := identity.Role(strings.ToUpper(c.Query("role")))
		res := make([]auth.UserResponse, 0, len(users))
		for i := range users {
			if role != "" && !users[i].Identity().HasRole(role) {
				continue
			}
			res = append(res, auth.NewUserResponse(&users[i]))
		}
		return envelope.OK(c, "Utilisateurs", res)
	}
}
