package router

import (
	"oabpe-web/internal/config"
	"oabpe-web/internal/handler"
	"oabpe-web/internal/middleware"
	"oabpe-web/internal/repository"
	"oabpe-web/internal/service"
	"oabpe-web/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// SetupAPIRoutes registers the import API. The returned func releases the
// task queue client and must be called on shutdown.
func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redis *redis.Client,
	cfg *config.Config,
) (func() error, error) {
	closeQueue := func() error { return nil }

	// Import summaries and background jobs need Redis
	var statusRepo *repository.ImportStatusRepository
	var enqueuer handler.TaskEnqueuer
	if redis != nil {
		statusRepo = repository.NewImportStatusRepository(redis, cfg.ReportTTL)
		client := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
		enqueuer = client
		closeQueue = client.Close
	}

	// Initialize services
	excelService := service.NewExcelService()
	importService, err := service.NewImportService(db, statusRepo, excelService, cfg, utils.GetLogger())
	if err != nil {
		closeQueue()
		return nil, err
	}

	// Initialize handlers
	importHandler := handler.NewImportHandler(importService, enqueuer, cfg)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	imports := protected.Group("/imports")
	imports.Get("/domains", importHandler.ListDomains)
	imports.Get("/jobs/:id", importHandler.GetJob)
	imports.Get("/reports/:id", importHandler.GetReport)
	imports.Get("/error-report/:filename", importHandler.DownloadErrorReport)
	imports.Get("/:domain/template", importHandler.DownloadTemplate)
	imports.Post("/:domain", importHandler.Import)
	imports.Post("/:domain/async", importHandler.ImportAsync)

	return closeQueue, nil
}
