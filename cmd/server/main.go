package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"task-management-system/internal/config"
	"task-management-system/internal/constants"
	"task-management-system/internal/database"
	"task-management-system/internal/handlers"
	"task-management-system/internal/middleware"
	"task-management-system/internal/repository"
	"task-management-system/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.WithError(err).Fatal("failed to migrate database")
	}
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(db); err != nil {
			logger.WithError(err).Warn("failed to create helper indexes")
		}
	}

	if cfg.SeedOnStart {
		if err := database.Seed(db, logger); err != nil {
			logger.WithError(err).Fatal("failed to seed database")
		}
	}

	orgRepo := repository.NewOrganizationRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	permissionService := services.NewPermissionService(roleRepo, orgRepo)
	auditService := services.NewAuditService(auditRepo, permissionService, logger)
	authService := services.NewAuthService(userRepo, roleRepo, cfg.JWTSecret,
		time.Duration(cfg.JWTExpirationSeconds)*time.Second)
	taskService := services.NewTaskService(taskRepo, roleRepo, orgRepo, permissionService, auditService, logger)

	if cfg.FixOrdersOnStart {
		fixed, err := taskService.FixDuplicateOrders()
		if err != nil {
			logger.WithError(err).Fatal("failed to repair task orders")
		}
		logger.WithField("columns", fixed).Info("task order repair finished")
	}

	authHandler := handlers.NewAuthHandler(authService, auditService)
	taskHandler := handlers.NewTaskHandler(taskService)
	auditHandler := handlers.NewAuditHandler(auditService)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/profile", middleware.RequireAuth(authService, userRepo), authHandler.Profile)
	}

	tasks := api.Group("/tasks")
	tasks.Use(middleware.RequireAuth(authService, userRepo))
	{
		tasks.GET("",
			middleware.RequirePermissions(permissionService, constants.PermissionTaskRead),
			taskHandler.List)
		tasks.POST("",
			middleware.RequirePermissions(permissionService, constants.PermissionTaskCreate),
			taskHandler.Create)
		tasks.GET("/:id",
			middleware.ResolveTaskOrganization(taskRepo),
			middleware.RequirePermissions(permissionService, constants.PermissionTaskRead),
			taskHandler.Get)
		tasks.PUT("/:id",
			middleware.ResolveTaskOrganization(taskRepo),
			middleware.RequirePermissions(permissionService, constants.PermissionTaskUpdate),
			taskHandler.Update)
		tasks.DELETE("/:id",
			middleware.ResolveTaskOrganization(taskRepo),
			middleware.RequirePermissions(permissionService, constants.PermissionTaskDelete),
			taskHandler.Delete)
		tasks.PATCH("/:id/reorder",
			middleware.ResolveTaskOrganization(taskRepo),
			middleware.RequirePermissions(permissionService, constants.PermissionTaskUpdate),
			taskHandler.Reorder)
	}

	audit := api.Group("/audit-log")
	audit.Use(middleware.RequireAuth(authService, userRepo))
	{
		audit.GET("",
			middleware.RequirePermissions(permissionService, constants.PermissionAuditRead),
			auditHandler.List)
	}

	logger.WithField("port", cfg.Port).Info("starting server")
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
