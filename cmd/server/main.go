package main

import (
	"log"
	"strings"

	"fret-backend/internal/admin"
	"fret-backend/internal/audit"
	"fret-backend/internal/auth"
	"fret-backend/internal/cashregister"
	"fret-backend/internal/config"
	"fret-backend/internal/database"
	"fret-backend/internal/envelope"
	"fret-backend/internal/logger"
	"fret-backend/internal/register"
	"fret-backend/internal/shipment"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(&logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	for _, w := range cfg.Warnings() {
		zl.Warn(w)
	}

	db, err := database.Open(cfg, zl)
	if err != nil {
		zl.Fatal("database unavailable", zap.Error(err))
	}

	// Amounts go out as JSON numbers, like the frontend expects.
	decimal.MarshalJSONWithoutQuotes = true

	app := fiber.New(fiber.Config{
		AppName:      "fret-backend",
		ErrorHandler: envelope.ErrorHandler(zl),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.Middleware(zl))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowedOrigins(), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(db))
	api.Post("/auth/login", auth.LoginHandler(cfg, db))

	// Protected
	protected := api.Group("", auth.JWTMiddleware(cfg.JWTSecret))
	protected.Get("/auth/me", auth.MeHandler(db))

	admin.Routes(protected.Group("/admin"), db)
	protected.Get("/audit-logs", audit.ListAuditLogsHandler(db))

	// Pricing
	protected.Post("/v1/pricing/quote", shipment.QuoteHandler())

	// Cash register
	policy := register.AllowNegative
	if !cfg.AllowNegativeBalance {
		policy = register.RejectNegative
	}
	svc := cashregister.NewService(db,
		cashregister.WithBalancePolicy(policy),
		cashregister.WithLogger(zl),
	)
	cashregister.Routes(protected.Group("/v1/cash-register"), svc)

	zl.Info("server listening", zap.String("port", cfg.HTTPPort), zap.String("env", cfg.AppEnv))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
