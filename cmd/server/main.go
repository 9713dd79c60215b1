package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"siamvisa-backoffice/internal/adapters/http/middleware"
	"siamvisa-backoffice/internal/adapters/http/routes"
	"siamvisa-backoffice/internal/adapters/persistence/models"
	"siamvisa-backoffice/internal/adapters/persistence/repositories"
	"siamvisa-backoffice/internal/config"
	"siamvisa-backoffice/internal/core/services"
	"siamvisa-backoffice/internal/pkg/storage"

	"github.com/gofiber/fiber/v2"

	_ "siamvisa-backoffice/docs" // Swagger docs
)

// @title SiamVisa Back Office API
// @version 1.0
// @description Back-office API for visa and property consultancy case management
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@siamvisa.local

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase(db)

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed the bootstrap admin account
	if err := config.NewSeeder(db, cfg).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed database: %v", err)
	}

	// Object storage for profile images and property documents
	uploader, err := storage.NewS3(context.Background(), storage.Config{
		Region:    cfg.Storage.Region,
		Bucket:    cfg.Storage.Bucket,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		log.Fatalf("❌ Failed to initialize object storage: %v", err)
	}

	// Nightly client age refresh (02:30)
	ageRefresh := services.NewAgeRefreshService(repositories.NewClientRepository(db))
	if err := ageRefresh.Start(); err != nil {
		log.Fatalf("❌ Failed to start age refresh service: %v", err)
	}
	defer ageRefresh.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "SiamVisa Back Office API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)
	app.Use(middleware.Metrics())

	// Setup routes (pass db, uploader and cfg for dependency injection)
	routes.Setup(app, db, uploader, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
