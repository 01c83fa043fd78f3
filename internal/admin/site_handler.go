package admin

import (
	"errors"
	"strings"
	"time"

	"fret-backend/internal/envelope"
	"fret-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GroupResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type SiteResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	GroupID   *uint  `json:"group_id"`
	CreatedAt string `json:"created_at"`
}

type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CreateSiteRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"max=255"`
	GroupID *uint  `json:"group_id"`
}

func toGroupResponse(g models.Group) GroupResponse {
	return GroupResponse{ID: g.ID, Name: g.Name, CreatedAt: g.CreatedAt.Format(time.DateTime)}
}

func toSiteResponse(s models.Site) SiteResponse {
	return SiteResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		GroupID:   s.GroupID,
		CreatedAt: s.CreatedAt.Format(time.DateTime),
	}
}

// -------------------------------------------------
// POST /api/admin/groups
// -------------------------------------------------
func CreateGroupHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateGroupRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		body.Name = strings.TrimSpace(body.Name)
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Le nom du groupe est obligatoire")
		}

		group := models.Group{Name: body.Name}
		if err := db.Create(&group).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Ce groupe existe déjà")
			}
			return err
		}
		return envelope.Created(c, "Groupe créé", toGroupResponse(group))
	}
}

// -------------------------------------------------
// GET /api/admin/groups
// -------------------------------------------------
func ListGroupsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var groups []models.Group
		if err := db.Order("name").Find(&groups).Error; err != nil {
			return err
		}
		res := make([]GroupResponse, 0, len(groups))
		for _, g := range groups {
			res = append(res, toGroupResponse(g))
		}
		return envelope.OK(c, "Groupes", res)
	}
}

// -------------------------------------------------
// POST /api/admin/sites
// -------------------------------------------------
func CreateSiteHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSiteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		body.Name = strings.TrimSpace(body.Name)
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Le nom du site est obligatoire")
		}
		if body.GroupID != nil {
			if err := db.First(&models.Group{}, *body.GroupID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Groupe introuvable")
			}
		}

		site := models.Site{Name: body.Name, Address: strings.TrimSpace(body.Address), GroupID: body.GroupID}
		if err := db.Create(&site).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fiber.NewError(fiber.StatusConflict, "Ce site existe déjà")
			}
			return err
		}
		return envelope.Created(c, "Site créé", toSiteResponse(site))
	}
}

// -------------------------------------------------
// GET /api/admin/sites?group_id=
// -------------------------------------------------
func ListSitesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := db.Order("name")
		if id := c.QueryInt("group_id"); id > 0 {
			q = q.Where("group_id = ?", id)
		}
		var sites []models.Site
		if err := q.Find(&sites).Error; err != nil {
			return err
		}
		res := make([]SiteResponse, 0, len(sites))
		for _, s := range sites {
			res = append(res, toSiteResponse(s))
		}
		return envelope.OK(c, "Sites", res)
	}
}

// -------------------------------------------------
// GET /api/admin/sites/:id
// -------------------------------------------------
func GetSiteHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var site models.Site
		if err := db.First(&site, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Site introuvable")
		}
		return envelope.OK(c, "Site", toSiteResponse(site))
	}
}
