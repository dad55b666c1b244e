// Package routes defines the API routing configuration.
// It wires repositories into services and services into handlers,
// and applies authentication to the protected route groups.
package routes

import (
	"net/http"

	"ledgerpay/internal/config"
	"ledgerpay/internal/handlers"
	"ledgerpay/internal/middleware"
	"ledgerpay/internal/repositories"
	"ledgerpay/internal/services/account"
	"ledgerpay/internal/services/auth"
	"ledgerpay/internal/services/fx"
	"ledgerpay/internal/services/limits"
	"ledgerpay/internal/services/payment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	accountRepo := repositories.NewAccountRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	limitsRepo := repositories.NewLimitsRepository(db)

	// Services
	jwtSecret := config.GetEnv("JWT_SECRET", "ledgerpay")
	authService := auth.NewService(userRepo, jwtSecret)
	accountService := account.NewService(accountRepo)
	paymentService := payment.NewService(paymentRepo)

	rates := fx.NewProvider(
		fx.NewCBRFetcher(http.DefaultClient),
		repositories.CacheService,
		fx.WithTTL(config.GetDurationEnv("FX_CACHE_TTL", fx.DefaultTTL)),
	)
	limitsService := limits.NewService(limitsRepo, rates)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(accountService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, accountService, limitsService)
	limitsHandler := handlers.NewLimitsHandler(limitsService)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to LedgerPay API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})
	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	// Protected routes
	authMiddleware := middleware.NewAuthMiddleware(jwtSecret)
	protected := api.Use(authMiddleware.Handler)

	accounts := protected.Group("/accounts")
	accounts.Post("/", accountHandler.Open)
	accounts.Get("/:id", accountHandler.Get)
	accounts.Post("/:id/deposit", accountHandler.Deposit)

	payments := protected.Group("/payments")
	payments.Post("/transfer", paymentHandler.CreateTransfer)
	payments.Get("/", paymentHandler.Search)
	payments.Get("/:id", paymentHandler.GetDetails)
	payments.Post("/:id/refund", paymentHandler.CreateRefund)
	payments.Get("/:id/refunds", paymentHandler.ListRefunds)

	lim := protected.Group("/limits")
	lim.Get("/", limitsHandler.GetProfile)
	lim.Get("/usage", limitsHandler.GetUsage)
}
