package audit

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"fret-backend/internal/auth"
	"fret-backend/internal/database/dbtest"
	"fret-backend/internal/envelope"
	"fret-backend/internal/identity"
	"fret-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func uptr(v uint) *uint { return &v }

func TestWriteLog(t *testing.T) {
	db := dbtest.New(t)
	amount := decimal.RequireFromString("1500.50")

	require.NoError(t, WriteLog(db, LogOptions{
		SiteID:     uptr(1),
		UserID:     3,
		UserName:   "Awa",
		CashierID:  3,
		EntityType: EntityCashRegisterDay,
		EntityID:   9,
		Action:     models.AuditActionDeposit,
		Amount:     &amount,
		Before:     map[string]string{"totalDeposits": "0"},
		After:      map[string]string{"totalDeposits": "1500.5"},
	}))

	var row models.AuditLog
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, models.AuditActionDeposit, row.Action)
	assert.True(t, row.Amount.Valid)
	assert.True(t, row.Amount.Decimal.Equal(amount))
	assert.JSONEq(t, `{"totalDeposits":"0"}`, row.BeforeData)
	assert.Equal(t, uint(9), row.EntityID)

	require.NoError(t, WriteLog(db, LogOptions{UserID: 3, Action: models.AuditActionClose}))
	var closed models.AuditLog
	require.NoError(t, db.Last(&closed).Error)
	assert.False(t, closed.Amount.Valid)
	assert.Equal(t, "null", closed.AfterData)
}

func TestListAuditLogsHandler_Scoping(t *testing.T) {
	db := dbtest.New(t)
	for _, site := range []uint{1, 1, 2} {
		require.NoError(t, WriteLog(db, LogOptions{SiteID: uptr(site), GroupID: uptr(10), CashierID: 5, Action: models.AuditActionOpen}))
	}

	list := func(user identity.CurrentUser, query string) (int, []AuditLogResponse) {
		app := fiber.New(fiber.Config{ErrorHandler: envelope.ErrorHandler(zap.NewNop())})
		app.Get("/audit-logs", func(c *fiber.Ctx) error {
			c.Locals(auth.CtxUserKey, user)
			return c.Next()
		}, ListAuditLogsHandler(db))

		resp, err := app.Test(httptest.NewRequest("GET", "/audit-logs"+query, nil))
		require.NoError(t, err)
		var env envelope.Raw
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
		var rows []AuditLogResponse
		if env.Status {
			require.NoError(t, json.Unmarshal(env.Data, &rows))
		}
		return resp.StatusCode, rows
	}

	status, rows := list(identity.CurrentUser{ID: 1, Roles: []identity.Role{identity.RoleSiteManager}, SiteID: uptr(1)}, "")
	assert.Equal(t, 200, status)
	assert.Len(t, rows, 2)

	_, rows = list(identity.CurrentUser{ID: 1, Roles: []identity.Role{identity.RoleAdmin}}, "?site_id=2")
	assert.Len(t, rows, 1)

	_, rows = list(identity.CurrentUser{ID: 1, Roles: []identity.Role{identity.RoleGroupAdmin}, GroupID: uptr(10)}, "?action=open")
	assert.Len(t, rows, 3)

	status, _ = list(identity.CurrentUser{ID: 5, Roles: []identity.Role{identity.RoleCashier}}, "")
	assert.Equal(t, 403, status)
}
