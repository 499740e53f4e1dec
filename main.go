package main

import (
	"openform/config"
	"openform/handlers"
	"openform/logger"
	"openform/middleware"
	"openform/models"
	"openform/routes"
	"openform/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger.Init()
	defer logger.Log.Sync()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.Form{},
		&models.Field{},
		&models.Submission{},
	)
	if err != nil {
		logger.Log.Fatal("failed to migrate database", zap.Error(err))
	}

	// Initialize Redis-backed definition cache
	redisClient := config.InitRedis(cfg)
	cache := services.NewDefinitionCache(redisClient)

	// Initialize services
	formService := services.NewFormService(db, cache)
	fieldService := services.NewFieldService(db, cache)
	submissionService := services.NewSubmissionService(db)

	// Initialize handlers
	formHandler := handlers.NewFormHandler(formService)
	fieldHandler := handlers.NewFieldHandler(fieldService)
	publicHandler := handlers.NewPublicHandler(formService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, formHandler, fieldHandler, publicHandler, submissionHandler, cfg.AdminToken)

	// Start server
	logger.Log.Info("server starting", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("failed to start server", zap.Error(err))
	}
}
