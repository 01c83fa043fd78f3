package cashregister

import (
	"context"
	"strconv"

	"fret-backend/internal/auth"
	"fret-backend/internal/envelope"
	"fret-backend/internal/identity"
	"fret-backend/internal/register"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Routes mounts the cash register API on r, which must already run the
// JWT middleware.
func Routes(r fiber.Router, svc *Service) {
	cashier := auth.RequireRole(identity.RoleCashier)
	supervisor := auth.RequireRole(identity.RoleAdmin, identity.RoleGroupAdmin, identity.RoleSiteManager)

	r.Post("/open", cashier, OpenHandler(svc))
	r.Post("/deposit", cashier, DepositHandler(svc))
	r.Post("/withdrawal", cashier, WithdrawHandler(svc))
	r.Post("/close", cashier, CloseHandler(svc))

	r.Get("/summary-range", SummaryRangeHandler(svc))
	r.Get("/site-summaries", auth.RequireRole(identity.RoleSiteManager, identity.RoleAdmin), SiteSummariesHandler(svc))
	r.Get("/summary/group", auth.RequireRole(identity.RoleGroupAdmin, identity.RoleAdmin), GroupSummariesHandler(svc))
	r.Get("/summary/totals", TotalsHandler(svc))
	r.Get("/summary/export/:format", ExportHandler(svc))
	r.Get("/summary/:date", SummaryHandler(svc))

	r.Post("/:userId/open", supervisor, OpenForHandler(svc))
	r.Post("/:userId/close", supervisor, CloseForHandler(svc))
}

func queryDate(c *fiber.Ctx, key string) (register.Date, error) {
	raw := c.Query(key)
	if raw == "" {
		return register.Date{}, nil
	}
	d, err := register.ParseDate(raw)
	if err != nil {
		return register.Date{}, fiber.NewError(fiber.StatusBadRequest, "Date invalide, format attendu AAAA-MM-JJ")
	}
	return d, nil
}

func queryRange(c *fiber.Ctx) (register.DateRange, error) {
	start, err := queryDate(c, "startDate")
	if err != nil {
		return register.DateRange{}, err
	}
	end, err := queryDate(c, "endDate")
	if err != nil {
		return register.DateRange{}, err
	}
	return register.DateRange{Start: start, End: end}, nil
}

func parseID(raw string) (*uint, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Identifiant invalide")
	}
	v := uint(id)
	return &v, nil
}

func queryID(c *fiber.Ctx, key string) (*uint, error) {
	return parseID(c.Query(key))
}

// -------------------------------------------------
// POST /api/v1/cash-register/open?date=
// -------------------------------------------------
func OpenHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		date, err := queryDate(c, "date")
		if err != nil {
			return err
		}
		day, err := svc.Open(c.UserContext(), user, date)
		if err != nil {
			return err
		}
		return envelope.OK(c, "Caisse ouverte avec succès", day)
	}
}

// -------------------------------------------------
// POST /api/v1/cash-register/deposit
// -------------------------------------------------
func DepositHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		var body AmountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		day, err := svc.Deposit(c.UserContext(), user, body.Amount)
		if err != nil {
			return err
		}
		return envelope.OK(c, "Dépôt enregistré", day)
	}
}

// -------------------------------------------------
// POST /api/v1/cash-register/withdrawal
// -------------------------------------------------
func WithdrawHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		var body AmountRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}
		day, err := svc.Withdraw(c.UserContext(), user, body.Amount)
		if err != nil {
			return err
		}
		return envelope.OK(c, "Retrait enregistré", day)
	}
}

// -------------------------------------------------
// POST /api/v1/cash-register/close
// -------------------------------------------------
func CloseHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		day, err := svc.Close(c.UserContext(), user)
		if err != nil {
			return err
		}
		return envelope.OK(c, "Caisse fermée avec succès", day)
	}
}

// -------------------------------------------------
// GET /api/v1/cash-register/summary/:date
// -------------------------------------------------
func SummaryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		date, err := register.ParseDate(c.Params("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Date invalide, format attendu AAAA-MM-JJ")
		}
		day, err := svc.Summary(c.UserContext(), user, date)
		if err != nil {
			return err
		}
		return envelope.OK(c, "Résumé journalier", day)
	}
}

// -------------------------------------------------
// GET /api/v1/cash-register/summary-range?startDate=&endDate=
// -------------------------------------------------
func SummaryRangeHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		r, err := queryRange(c)
		if err != nil {
			return err
		}
		days, err := svc.SummaryRange(c.UserContext(), user, r)
		if err != nil {
			return err
		}
		return envelope.OK(c, "Résumés de la période", days)
	}
}

// -------------------------------------------------
// GET /api/v1/cash-register/site-summaries?startDate=&endDate=&siteId=
// -------------------------------------------------
func SiteSummariesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		r, err := queryRange(c)
		if err != nil {
			return err
		}
		siteID, err := queryID(c, "siteId")
		if err != nil {
			return err
		}
		days, err := svc.SiteSummaries(c.UserContext(), user, siteID, r)
		if err != nil {
			return err
		}
		return envelope.OK(c, "Résumés du site", days)
	}
}

// -------------------------------------------------
// GET /api/v1/cash-register/summary/group?startDate=&endDate=&groupId=
// -------------------------------------------------
func GroupSummariesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		r, err := queryRange(c)
		if err != nil {
			return err
		}
		groupID, err := queryID(c, "groupId")
		if err != nil {
			return err
		}
		days, err := svc.GroupSummaries(c.UserContext(), user, groupID, r)
		if err != nil {
			return err
		}
		return envelope.OK(c, "Résumés du groupe", days)
	}
}

// -------------------------------------------------
// GET /api/v1/cash-register/summary/totals?startDate=&endDate=&period=&siteId=&groupId=
// -------------------------------------------------
func TotalsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		r, err := queryRange(c)
		if err != nil {
			return err
		}
		var scope register.Scope
		if scope.SiteID, err = queryID(c, "siteId"); err != nil {
			return err
		}
		if scope.GroupID, err = queryID(c, "groupId"); err != nil {
			return err
		}
		out, err := svc.Totals(c.UserContext(), user, scope, r, register.ParsePeriod(c.Query("period")))
		if err != nil {
			return err
		}
		return envelope.OK(c, "Totaux de la période", out)
	}
}

// -------------------------------------------------
// GET /api/v1/cash-register/summary/export/:format
// Answers with the file itself, not an envelope.
// -------------------------------------------------
func ExportHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		format, err := register.ParseExportFormat(c.Params("format"))
		if err != nil {
			return err
		}
		r, err := queryRange(c)
		if err != nil {
			return err
		}

		var f register.ExportFilter
		for key, dst := range map[string]**uint{
			"targetUserId":  &f.TargetUserID,
			"targetSiteId":  &f.TargetSiteID,
			"targetGroupId": &f.TargetGroupID,
			"siteId":        &f.SiteID,
			"groupId":       &f.GroupID,
		} {
			if *dst, err = queryID(c, key); err != nil {
				return err
			}
		}

		report, err := svc.Export(c.UserContext(), user, format, r, f)
		if err != nil {
			return err
		}
		c.Attachment(report.Filename)
		c.Set(fiber.HeaderContentType, report.ContentType)
		return c.Send(report.Data)
	}
}

// -------------------------------------------------
// POST /api/v1/cash-register/:userId/open?date=
// -------------------------------------------------
func OpenForHandler(svc *Service) fiber.Handler {
	return superviseHandler(svc.OpenFor, "Caisse ouverte pour le caissier")
}

// -------------------------------------------------
// POST /api/v1/cash-register/:userId/close?date=
// -------------------------------------------------
func CloseForHandler(svc *Service) fiber.Handler {
	return superviseHandler(svc.CloseFor, "Caisse fermée pour le caissier")
}

type superviseFunc func(ctx context.Context, user identity.CurrentUser, cashierID uint, date register.Date) (register.Day, error)

func superviseHandler(call superviseFunc, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}
		cashierID, err := parseID(c.Params("userId"))
		if err != nil || cashierID == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Identifiant de caissier invalide")
		}
		date, err := queryDate(c, "date")
		if err != nil {
			return err
		}
		day, err := call(c.UserContext(), user, *cashierID, date)
		if err != nil {
			return err
		}
		return envelope.OK(c, message, day)
	}
}
