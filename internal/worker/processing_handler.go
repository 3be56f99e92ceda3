package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"oabpe-web/internal/importer"
	"oabpe-web/internal/models"
	"oabpe-web/internal/service"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

type importRunner interface {
	Import(ctx context.Context, domain, filename string, src io.Reader, identity importer.Identity) (*models.ImportSummary, error)
	UpdateJob(ctx context.Context, jobID, status, importID, errMsg string) error
}

type ImportTaskHandler struct {
	imports importRunner
	log     *logrus.Logger
	// finalAttempt reports whether asynq will not run the task again.
	finalAttempt func(ctx context.Context) bool
}

func NewImportTaskHandler(imports importRunner, log *logrus.Logger) *ImportTaskHandler {
	return &ImportTaskHandler{imports: imports, log: log, finalAttempt: isFinalAttempt}
}

func isFinalAttempt(ctx context.Context) bool {
	retried, ok := asynq.GetRetryCount(ctx)
	if !ok {
		return true
	}
	maxRetry, ok := asynq.GetMaxRetry(ctx)
	if !ok {
		return true
	}
	return retried >= maxRetry
}

func (h *ImportTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload ImportTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log := h.log.WithFields(logrus.Fields{
		"job_id": payload.JobID,
		"domain": payload.Domain,
		"file":   payload.Filename,
	})
	log.Info("starting import job")
	h.setStatus(ctx, log, payload.JobID, models.JobStatusProcessing, "", "")

	file, err := os.Open(payload.FilePath)
	if err != nil {
		h.setStatus(ctx, log, payload.JobID, models.JobStatusFailed, "", "uploaded file is no longer available")
		return fmt.Errorf("failed to open %s: %v: %w", payload.FilePath, err, asynq.SkipRetry)
	}

	summary, err := h.imports.Import(ctx, payload.Domain, payload.Filename, file, payload.Identity)
	file.Close()
	if err != nil {
		h.setStatus(ctx, log, payload.JobID, models.JobStatusFailed, "", err.Error())
		// Only a failed write can succeed on a later attempt
		retry := errors.Is(err, service.ErrPersistence)
		if retry && !h.finalAttempt(ctx) {
			return err
		}
		removeUpload(log, payload.FilePath)
		if retry {
			return err
		}
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	h.setStatus(ctx, log, payload.JobID, models.JobStatusCompleted, summary.ImportID, "")
	removeUpload(log, payload.FilePath)

	log.WithFields(logrus.Fields{
		"import_id": summary.ImportID,
		"imported":  summary.ImportedCount,
		"failed":    summary.ErrorCount,
	}).Info("import job completed")
	return nil
}

func (h *ImportTaskHandler) setStatus(ctx context.Context, log logrus.FieldLogger, jobID, status, importID, errMsg string) {
	if err := h.imports.UpdateJob(ctx, jobID, status, importID, errMsg); err != nil {
		log.WithError(err).WithField("status", status).Warn("failed to update job status")
	}
}

func removeUpload(log logrus.FieldLogger, path string) {
	if err := os.Remove(path); err != nil {
		log.WithError(err).Warn("failed to remove uploaded file")
	}
}
