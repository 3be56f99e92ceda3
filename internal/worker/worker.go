package worker

import (
	"context"

	"oabpe-web/internal/config"
	"oabpe-web/internal/repository"
	"oabpe-web/internal/service"
	"oabpe-web/internal/utils"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func NewServer(cfg *config.Config) *asynq.Server {
	log := utils.GetLogger()

	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		},
		asynq.Config{
			Concurrency: cfg.WorkerConcurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.WithError(err).WithField("task", task.Type()).Error("task failed")
			}),
			Logger: log,
		},
	)
}

func RegisterHandlers(mux *asynq.ServeMux, db *sqlx.DB, redis *redis.Client, cfg *config.Config) error {
	statusRepo := repository.NewImportStatusRepository(redis, cfg.ReportTTL)
	importService, err := service.NewImportService(db, statusRepo, service.NewExcelService(), cfg, utils.GetLogger())
	if err != nil {
		return err
	}

	importHandler := NewImportTaskHandler(importService, utils.GetLogger())
	mux.HandleFunc(TypeImportFile, importHandler.Handle)
	return nil
}
