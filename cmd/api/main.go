package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/ecavus/techsupport-backend/internal/config"
	"github.com/ecavus/techsupport-backend/internal/handler"
	"github.com/ecavus/techsupport-backend/internal/models"
	"github.com/ecavus/techsupport-backend/internal/repository"
	"github.com/ecavus/techsupport-backend/internal/service"
	"github.com/ecavus/techsupport-backend/pkg/database"
	"github.com/ecavus/techsupport-backend/pkg/email"
	"github.com/ecavus/techsupport-backend/pkg/logger"
	"github.com/ecavus/techsupport-backend/pkg/payment"
	"github.com/ecavus/techsupport-backend/pkg/utils"
)

func main() {
	// .env is optional in deployed environments
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	zapLogger, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// The catalog is fixed at startup and shared read-only.
	catalog := models.DefaultPlanCatalog()

	// Repositories
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Stripe service
	stripeService := payment.NewStripeService(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.Stripe.Timeout)

	// Email service
	emailService := email.NewEmailService(cfg.Email.APIKey, cfg.Email.FromAddress, cfg.Email.FromName, zapLogger)

	// Services
	checkoutService := service.NewCheckoutService(catalog, stripeService, zapLogger)
	linkService := service.NewPaymentLinkService(
		catalog,
		stripeService,
		customerRepo,
		emailService,
		zapLogger,
		cfg.BaseURL+"/?success=true",
	)
	webhookService := service.NewWebhookService(stripeService, catalog, customerRepo, orderRepo, zapLogger)

	validator := utils.NewValidator()

	// Handlers
	paymentHandler := handler.NewPaymentHandler(checkoutService, linkService, webhookService, catalog, validator)

	// Router
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Stripe-Signature",
		AllowMethods: "GET, POST",
	}))
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Stripe webhook (public, raw body + signature header)
	api.Post("/webhooks/payment-events", paymentHandler.HandleWebhook)

	// Payment routes
	api.Post("/checkout-sessions", paymentHandler.CreateCheckoutSession)
	api.Post("/payment-links", paymentHandler.CreatePaymentLink)
	api.Get("/plans", paymentHandler.GetPlans)

	log.Fatal(app.Listen(":" + cfg.Port))
}
