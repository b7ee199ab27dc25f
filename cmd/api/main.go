package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"ventapos_backend/internal/controller"
	"ventapos_backend/internal/middleware"
	"ventapos_backend/internal/model"
	"ventapos_backend/pkg/config"
	"ventapos_backend/pkg/cron"
	"ventapos_backend/pkg/database"
	"ventapos_backend/pkg/email"
	"ventapos_backend/pkg/seed"
	"ventapos_backend/pkg/subscription"
	"ventapos_backend/pkg/utils/cloudflare"
	"ventapos_backend/pkg/utils/jwt"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/login", controller.Login)
	auth.Post("/pin/verify", middleware.AuthMiddleware(), controller.VerifyPIN)
	auth.Put("/pin", middleware.AuthMiddleware(), controller.SetPIN)

	api.Get("/me", middleware.AuthMiddleware(), controller.GetMe)

	// Store-scoped product catalog, gated on a live subscription
	products := api.Group("/products", middleware.AuthMiddleware(), middleware.RequireActiveSubscription())
	products.Get("/", controller.ListMyProducts)
	products.Post("/", middleware.CheckProductLimit(), controller.CreateProduct)
	products.Put("/:id", controller.UpdateProduct)
	products.Delete("/:id", controller.DeleteProduct)
	products.Post("/:id/images", controller.UploadProductImage)
	products.Delete("/images/:image_id", controller.DeleteProductImage)

	// Super-admin surface: store provisioning and subscription lifecycle
	admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.RequireSuperAdmin())
	admin.Post("/stores", controller.CreateStore)
	admin.Get("/stores", controller.ListStores)
	admin.Get("/stores/:id", controller.GetStore)
	admin.Patch("/stores/:id/subscription/renew", controller.RenewStoreSubscription)
	admin.Patch("/stores/:id/subscription/plan", controller.SetStorePlan)
	admin.Patch("/stores/:id/subscription/permanent", controller.ToggleStorePermanent)
	admin.Post("/stores/:id/subscription/payments", controller.RecordStorePayment)
	admin.Get("/stores/:id/subscription/payments", controller.GetStorePaymentHistory)
	admin.Get("/subscription/stats", controller.GetSubscriptionStats)

	// Cron trigger (bearer secret); hosted schedulers send either verb
	api.Get("/cron/subscription-status", controller.HandleSubscriptionStatusCron)
	api.Post("/cron/subscription-status", controller.HandleSubscriptionStatusCron)

	// Billing provider webhook
	api.Post("/webhook/lemonsqueezy", controller.HandleLemonSqueezyWebhook)
}

func main() {
	cfg := config.Load()

	if cfg.Email.ResendAPIKey != "" {
		if err := email.InitEmailService(cfg.Email.ResendAPIKey, cfg.Email.From); err != nil {
			log.Fatal("Could not initialize email service:", err)
		}
	} else {
		log.Println("RESEND_API_KEY not set, email notifications disabled")
	}

	jwt.Init(cfg.JWT.Secret)
	cloudflare.Init(cfg.R2)
	subscription.ConfigureVariants(cfg.LemonSqueezy.BasicoVariantID, cfg.LemonSqueezy.ProVariantID)

	controller.InitWebhookController(cfg.LemonSqueezy.SigningSecret)
	controller.InitCronController(cfg.Cron.Secret)

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.Store{},
		&model.SubscriptionPayment{},
		&model.WebhookEvent{},
		&model.Product{},
		&model.ProductImage{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedSuperAdmin(database.GetDB())

	cron.InitSubscriptionSweepCron()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
