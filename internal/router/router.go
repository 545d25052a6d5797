package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/musblossom/backend/internal/handlers"
	"github.com/musblossom/backend/internal/middleware"
	"github.com/musblossom/backend/internal/models"
	"github.com/musblossom/backend/internal/repositories"
	"github.com/musblossom/backend/internal/services"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Info("Global middleware configured")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Follow{},
		&models.PostLike{},
		&models.Comment{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Info("Auto-migrations completed for all models")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories and services ---
	userRepo := repositories.NewPostgresUserRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	engagement := services.NewEngagementService(db)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())

	userHandler := handlers.NewUserHandler(userRepo, engagement)
	userHandler.RegisterUserRoutes(api)

	followHandler := handlers.NewFollowHandler(engagement)
	followHandler.RegisterFollowRoutes(api)

	likeHandler := handlers.NewLikeHandler(engagement)
	likeHandler.RegisterLikeRoutes(api)

	commentHandler := handlers.NewCommentHandler(engagement, commentRepo)
	commentHandler.RegisterCommentRoutes(api)

	log.Info("All routes configured")
}
