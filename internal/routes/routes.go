package routes

import (
	"context"
	"log"

	"verity/internal/config"
	"verity/internal/handlers"
	"verity/internal/middleware"
	"verity/internal/models"
	"verity/internal/repositories"
	"verity/internal/services/appeal"
	"verity/internal/services/audit"
	"verity/internal/services/auth"
	"verity/internal/services/notification"
	"verity/internal/services/tenant"
	"verity/internal/services/verification"
	"verity/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// Services bundles the constructed service layer so cmd/server can reuse
// it for background work.
type Services struct {
	Verification *verification.Service
}

// SetupRoutes wires repositories, services and handlers onto the app.
func SetupRoutes(app *fiber.App, cfg *config.Config) *Services {
	db := repositories.DB

	tenantRepo := repositories.NewTenantRepository(db)
	userRepo := repositories.NewUserRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	appealRepo := repositories.NewAppealRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	store, err := storage.NewS3Store(context.Background(), cfg.S3Bucket, cfg.S3Region)
	var objectStore storage.ObjectStore = store
	if err != nil {
		log.Printf("⚠️ S3 unavailable, falling back to in-memory store: %v", err)
		objectStore = storage.NewMemoryStore()
	}

	var sender notification.EmailSender = notification.ConsoleSender{}
	if !cfg.EmailSandbox {
		sesSender, err := notification.NewSESSender(context.Background(), cfg.S3Region, cfg.EmailFrom)
		if err != nil {
			log.Printf("⚠️ SES unavailable, notifications will be logged only: %v", err)
		} else {
			sender = sesSender
		}
	}

	auditSvc := audit.NewService(auditRepo)
	authSvc := auth.NewService(userRepo, cfg.JWTSecret, cfg.RefreshSecret)
	tenantSvc := tenant.NewService(db, tenantRepo, userRepo, docRepo, auditSvc, repositories.CacheService)
	verificationSvc := verification.NewService(db, tenantRepo, docRepo, auditSvc, objectStore, repositories.CacheService)
	notificationSvc := notification.NewService(db, notificationRepo, tenantRepo, auditSvc, sender)
	appealSvc := appeal.NewService(db, appealRepo, tenantRepo, auditSvc, notificationSvc, repositories.CacheService)

	authHandler := handlers.NewAuthHandler(authSvc)
	tenantHandler := handlers.NewTenantHandler(tenantSvc)
	documentHandler := handlers.NewDocumentHandler(verificationSvc)
	appealHandler := handlers.NewAppealHandler(appealSvc)
	adminHandler := handlers.NewAdminHandler(tenantSvc, verificationSvc, notificationSvc)
	auditHandler := handlers.NewAuditHandler(auditSvc)
	notificationHandler := handlers.NewNotificationHandler(notificationSvc)

	app.Get("/health", handlers.Health)

	api := app.Group("/api")
	api.Post("/register", tenantHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.Refresh)

	authed := api.Group("", middleware.AuthMiddleware(cfg.JWTSecret, userRepo))
	authed.Post("/logout", authHandler.Logout)
	authed.Post("/change-password",
		middleware.RequirePermission(models.PermissionChangePassword),
		authHandler.ChangePassword)

	tenantGroup := authed.Group("/tenant")
	tenantGroup.Get("/feature-access", tenantHandler.FeatureAccess)

	verificationGroup := tenantGroup.Group("/verification")
	verificationGroup.Get("/status",
		middleware.RequirePermission(models.PermissionVerificationRead),
		tenantHandler.VerificationStatus)
	verificationGroup.Post("/documents",
		middleware.RequirePermission(models.PermissionVerificationWrite),
		documentHandler.Upload)
	verificationGroup.Delete("/documents/:documentId",
		middleware.RequirePermission(models.PermissionVerificationWrite),
		documentHandler.Delete)
	verificationGroup.Get("/appeal",
		middleware.RequirePermission(models.PermissionVerificationRead),
		appealHandler.Latest)
	verificationGroup.Post("/appeal",
		middleware.RequirePermission(models.PermissionAppealWrite),
		appealHandler.Submit)

	admin := authed.Group("/admin", middleware.RequireAdmin())
	adminVerification := admin.Group("/verification")
	adminVerification.Get("",
		middleware.RequirePermission(models.PermissionReadAdmin),
		adminHandler.Queue)
	adminVerification.Patch("/:tenantId",
		middleware.RequirePermission(models.PermissionWriteAdmin),
		adminHandler.Review)
	adminVerification.Get("/appeals",
		middleware.RequirePermission(models.PermissionReadAdmin),
		appealHandler.List)
	adminVerification.Patch("/appeals/:appealId",
		middleware.RequirePermission(models.PermissionWriteAdmin),
		appealHandler.Review)
	adminVerification.Get("/audit",
		middleware.RequirePermission(models.PermissionAuditRead),
		auditHandler.Search)
	adminVerification.Post("/audit",
		middleware.RequirePermission(models.PermissionAuditWrite),
		auditHandler.Append)
	adminVerification.Get("/notifications",
		middleware.RequirePermission(models.PermissionReadAdmin),
		notificationHandler.List)
	adminVerification.Post("/notifications",
		middleware.RequirePermission(models.PermissionNotificationSend),
		notificationHandler.Send)
	adminVerification.Get("/reminders",
		middleware.RequirePermission(models.PermissionReadAdmin),
		notificationHandler.Reminders)
	adminVerification.Post("/reminders",
		middleware.RequirePermission(models.PermissionNotificationSend),
		notificationHandler.SendReminders)

	return &Services{Verification: verificationSvc}
}
