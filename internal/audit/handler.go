package audit

import (
	"time"

	"fret-backend/internal/auth"
	"fret-backend/internal/envelope"
	"fret-backend/internal/identity"
	"fret-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const maxListed = 500

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	SiteID      *uint              `json:"site_id"`
	GroupID     *uint              `json:"group_id"`
	UserID      uint               `json:"user_id"`
	UserName    string             `json:"user_name"`
	CashierID   uint               `json:"cashier_id"`
	EntityType  string             `json:"entity_type"`
	EntityID    uint               `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Amount      *string            `json:"amount"`
	Description string             `json:"description"`
}

// -------------------------------------------------
// GET /api/audit-logs?cashier_id=&entity_id=&action=&site_id=&group_id=
// Supervisors only, held to their own site or group.
// -------------------------------------------------
func ListAuditLogsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		dbq := db.Model(&models.AuditLog{})
		switch {
		case user.HasRole(identity.RoleAdmin):
			if id := c.QueryInt("site_id"); id > 0 {
				dbq = dbq.Where("site_id = ?", id)
			}
			if id := c.QueryInt("group_id"); id > 0 {
				dbq = dbq.Where("group_id = ?", id)
			}
		case user.HasRole(identity.RoleGroupAdmin) && user.GroupID != nil:
			dbq = dbq.Where("group_id = ?", *user.GroupID)
		case user.HasRole(identity.RoleSiteManager) && user.SiteID != nil:
			dbq = dbq.Where("site_id = ?", *user.SiteID)
		default:
			return fiber.NewError(fiber.StatusForbidden, "Vous n'avez pas les droits pour cette opération")
		}

		if id := c.QueryInt("cashier_id"); id > 0 {
			dbq = dbq.Where("cashier_id = ?", id)
		}
		if id := c.QueryInt("entity_id"); id > 0 {
			dbq = dbq.Where("entity_id = ?", id)
		}
		if action := c.Query("action"); action != "" {
			dbq = dbq.Where("action = ?", action)
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC, id DESC").Limit(maxListed).Find(&logs).Error; err != nil {
			return err
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			var amount *string
			if l.Amount.Valid {
				s := l.Amount.Decimal.String()
				amount = &s
			}
			resp = append(resp, AuditLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format(time.DateTime),
				SiteID:      l.SiteID,
				GroupID:     l.GroupID,
				UserID:      l.UserID,
				UserName:    l.UserName,
				CashierID:   l.CashierID,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Amount:      amount,
				Description: l.Description,
			})
		}

		return envelope.OK(c, "Journal d'audit", resp)
	}
}
