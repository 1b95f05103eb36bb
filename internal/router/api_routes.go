package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"okr-dashboard/internal/config"
	"okr-dashboard/internal/handler"
	"okr-dashboard/internal/middleware"
	"okr-dashboard/internal/repository"
	"okr-dashboard/internal/service"
	"okr-dashboard/internal/utils"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redisClient *redis.Client,
	cfg *config.Config,
) {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	areaRepo := repository.NewAreaRepository(db)
	initiativeRepo := repository.NewInitiativeRepository(db)
	importRepo := repository.NewImportRepository(db)
	kpiRepo := repository.NewKPIRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg)
	excelService := service.NewExcelService()
	kpiService := service.NewKPIService(kpiRepo, initiativeRepo, areaRepo, utils.GetLogger())

	// Initialize Asynq client (optional - only if Redis is available)
	var asynqClient *asynq.Client
	if redisClient != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	areaHandler := handler.NewAreaHandler(areaRepo)
	initiativeHandler := handler.NewInitiativeHandler(initiativeRepo, areaRepo, excelService, asynqClient, cfg)
	importHandler := handler.NewImportHandler(importRepo, areaRepo, excelService, asynqClient, redisClient, cfg)
	kpiHandler := handler.NewKPIHandler(kpiService)

	// Public routes
	auth := router.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	// Auth routes
	protected.Get("/auth/me", authHandler.Me)

	// KPI routes
	kpi := protected.Group("/kpi")
	kpi.Get("/summary", kpiHandler.GetSummary)
	kpi.Get("/areas", kpiHandler.GetAreaMetrics)
	kpi.Get("/strategic", kpiHandler.GetStrategicMetrics)

	// Area routes
	areas := protected.Group("/areas")
	areas.Get("/", areaHandler.List)
	areas.Get("/:id", areaHandler.Get)
	areas.Post("/", middleware.AdminOnly(), areaHandler.Create)
	areas.Put("/:id", middleware.AdminOnly(), areaHandler.Update)
	areas.Delete("/:id", middleware.AdminOnly(), areaHandler.Delete)

	// Initiative routes
	initiatives := protected.Group("/initiatives")
	initiatives.Get("/", initiativeHandler.List)
	initiatives.Get("/export", initiativeHandler.Export)
	initiatives.Get("/:id", initiativeHandler.Get)
	initiatives.Post("/", initiativeHandler.Create)
	initiatives.Put("/:id", initiativeHandler.Update)
	initiatives.Delete("/:id", initiativeHandler.Delete)
	initiatives.Post("/:id/activities", initiativeHandler.CreateActivity)
	initiatives.Put("/:id/activities/:activityId", initiativeHandler.UpdateActivity)
	initiatives.Delete("/:id/activities/:activityId", initiativeHandler.DeleteActivity)

	// Import routes
	imports := protected.Group("/imports")
	imports.Post("/", importHandler.UploadFile)
	imports.Get("/", importHandler.GetSessions)
	imports.Get("/template", importHandler.DownloadTemplate)
	imports.Get("/:id", importHandler.GetSessionDetail)
	imports.Post("/:id/process", importHandler.ProcessSession)
	imports.Get("/:id/error-report", importHandler.DownloadErrorReport)
}
