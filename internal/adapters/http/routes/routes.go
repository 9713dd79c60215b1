package routes

import (
	"time"

	"siamvisa-backoffice/internal/adapters/http/handlers"
	"siamvisa-backoffice/internal/adapters/http/middleware"
	"siamvisa-backoffice/internal/adapters/persistence/repositories"
	"siamvisa-backoffice/internal/config"
	"siamvisa-backoffice/internal/core/services"
	"siamvisa-backoffice/internal/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, uploader storage.Uploader, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	clientRepo := repositories.NewClientRepository(db)
	visaRepo := repositories.NewVisaRepository(db)
	propertyRepo := repositories.NewPropertyRepository(db)

	// Initialize services
	notifier := services.NewLogNotifier()
	authService := services.NewAuthService(userRepo, notifier, uploader, cfg)
	userService := services.NewUserService(userRepo)
	clientService := services.NewClientService(clientRepo, propertyRepo, uploader)
	visaService := services.NewVisaService(visaRepo, clientRepo)
	propertyService := services.NewPropertyService(propertyRepo, clientRepo, uploader)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	metaHandler := handlers.NewMetaHandler()
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	clientHandler := handlers.NewClientHandler(clientService, visaService, propertyService)
	visaHandler := handlers.NewVisaHandler(visaService)
	propertyHandler := handlers.NewPropertyHandler(propertyService)

	// Health check, metrics, swagger
	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", middleware.MetricsHandler())
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Vocabularies (public, cacheable)
	apiV1.Get("/meta/vocabularies", middleware.CacheControl(1*time.Hour), metaHandler.Vocabularies)

	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.AdminOnly())
	setupUserRoutes(userRoutes, userHandler)

	clientRoutes := apiV1.Group("/clients")
	clientRoutes.Use(middleware.AuthMiddleware(cfg))
	clientRoutes.Use(middleware.AdminOnly())
	setupClientRoutes(clientRoutes, clientHandler)

	visaRoutes := apiV1.Group("/visas")
	visaRoutes.Use(middleware.AuthMiddleware(cfg))
	visaRoutes.Use(middleware.AdminOnly())
	setupVisaRoutes(visaRoutes, visaHandler)

	propertyRoutes := apiV1.Group("/properties")
	propertyRoutes.Use(middleware.AuthMiddleware(cfg))
	propertyRoutes.Use(middleware.AdminOnly())
	setupPropertyRoutes(propertyRoutes, propertyHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes, rate limited against brute force
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.Refresh)
	router.Get("/verify", handler.VerifyEmail)
	router.Post("/resend-verification", middleware.StrictRateLimiter(), handler.ResendVerification)
	router.Post("/forgot-password", middleware.StrictRateLimiter(), handler.ForgotPassword)
	router.Post("/reset-password", middleware.StrictRateLimiter(), handler.ResetPassword)

	// Protected routes
	router.Post("/logout", middleware.AuthMiddleware(cfg), handler.Logout)
	router.Post("/change-password", middleware.AuthMiddleware(cfg), handler.ChangePassword)
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Put("/me", middleware.AuthMiddleware(cfg), handler.UpdateProfile)
	router.Put("/me/profile-image", middleware.AuthMiddleware(cfg), handler.UpdateProfileImage)
}

// setupUserRoutes configures user administration routes (admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Put("/:id", handler.Update)
	router.Patch("/:id/toggle-status", handler.ToggleStatus)
	router.Delete("/:id", handler.Delete)
}

// setupClientRoutes configures client routes
func setupClientRoutes(router fiber.Router, handler *handlers.ClientHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/stats", handler.Stats)
	router.Get("/:id", handler.Get)
	router.Put("/:id", handler.Update)
	router.Patch("/:id/toggle-status", handler.ToggleStatus)
	router.Delete("/:id", handler.Delete)
	router.Get("/:id/visas", handler.ListVisas)
	router.Get("/:id/properties", handler.ListProperties)
}

// setupVisaRoutes configures visa routes
func setupVisaRoutes(router fiber.Router, handler *handlers.VisaHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/stats", handler.Stats)
	router.Get("/:id", handler.Get)
	router.Put("/:id", handler.Update)
	router.Patch("/:id/toggle-status", handler.ToggleStatus)
	router.Delete("/:id", handler.Delete)
}

// setupPropertyRoutes configures property routes
func setupPropertyRoutes(router fiber.Router, handler *handlers.PropertyHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/stats", handler.Stats)
	router.Get("/:id", handler.Get)
	router.Put("/:id", handler.Update)
	router.Patch("/:id/toggle-status", handler.ToggleStatus)
	router.Delete("/:id", handler.Delete)
	router.Put("/:id/documents/:field", handler.UploadDocument)
	router.Delete("/:id/documents/:field", handler.DeleteDocument)
}
