package handler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"oabpe-web/internal/config"
	"oabpe-web/internal/importer"
	"oabpe-web/internal/middleware"
	"oabpe-web/internal/models"
	"oabpe-web/internal/repository"
	"oabpe-web/internal/service"
	"oabpe-web/internal/utils"
	"oabpe-web/internal/worker"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

const (
	reportPrefix = "import_errors_"
	reportSuffix = ".xlsx"
)

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type ImportHandler struct {
	importService *service.ImportService
	enqueuer      TaskEnqueuer
	cfg           *config.Config
	log           *logrus.Logger
}

// NewImportHandler wires the import endpoints. enqueuer may be nil when
// background jobs are disabled.
func NewImportHandler(importService *service.ImportService, enqueuer TaskEnqueuer, cfg *config.Config) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		enqueuer:      enqueuer,
		cfg:           cfg,
		log:           utils.GetLogger(),
	}
}

func (h *ImportHandler) Import(c *fiber.Ctx) error {
	domain := c.Params("domain")

	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}
	if file.Size > int64(h.cfg.UploadMaxSize) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size exceeds maximum limit", nil)
	}

	src, err := file.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read uploaded file", err)
	}
	defer src.Close()

	summary, err := h.importService.Import(c.UserContext(), domain, file.Filename, src, middleware.IdentityFromContext(c))
	if err != nil {
		status, message := errorStatus(err)
		return utils.ErrorResponse(c, status, message, err)
	}

	message := fmt.Sprintf("Import completed: %d imported, %d errors", summary.ImportedCount, summary.ErrorCount)
	return utils.CreatedResponse(c, message, summary)
}

func (h *ImportHandler) ImportAsync(c *fiber.Ctx) error {
	if h.enqueuer == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Background imports are not available", nil)
	}

	domain := c.Params("domain")
	if _, err := h.importService.Domain(domain); err != nil {
		status, message := errorStatus(err)
		return utils.ErrorResponse(c, status, message, err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}
	if file.Size > int64(h.cfg.UploadMaxSize) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size exceeds maximum limit", nil)
	}
	if _, err := importer.FormatFromFilename(file.Filename); err != nil {
		status, message := errorStatus(err)
		return utils.ErrorResponse(c, status, message, err)
	}

	if err := os.MkdirAll(h.cfg.UploadPath, 0o755); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save file", err)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	filePath := filepath.Join(h.cfg.UploadPath, fmt.Sprintf("IMPORT-%s%s", uuid.New().String()[:8], ext))
	if err := c.SaveFile(file, filePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save file", err)
	}

	ctx := c.UserContext()
	identity := middleware.IdentityFromContext(c)

	job, err := h.importService.CreateJob(ctx, domain, file.Filename, filePath, identity)
	if err != nil {
		os.Remove(filePath)
		status, message := errorStatus(err)
		return utils.ErrorResponse(c, status, message, err)
	}

	task, err := worker.NewImportTask(worker.ImportTaskPayload{
		JobID:    job.ID,
		Domain:   domain,
		Filename: file.Filename,
		FilePath: filePath,
		Identity: identity,
	})
	if err == nil {
		_, err = h.enqueuer.EnqueueContext(ctx, task)
	}
	if err != nil {
		if uerr := h.importService.UpdateJob(ctx, job.ID, models.JobStatusFailed, "", "failed to enqueue job"); uerr != nil {
			h.log.WithError(uerr).WithField("job_id", job.ID).Warn("failed to mark unqueued job as failed")
		}
		os.Remove(filePath)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to queue import", err)
	}

	return utils.AcceptedResponse(c, "Import queued", job)
}

func (h *ImportHandler) GetJob(c *fiber.Ctx) error {
	job, err := h.importService.Job(c.UserContext(), c.Params("id"))
	if err != nil {
		status, message := errorStatus(err)
		return utils.ErrorResponse(c, status, message, err)
	}
	if !canAccess(c, job.UserID) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Import job not found", nil)
	}

	return utils.SuccessResponse(c, "Import job retrieved successfully", job)
}

func (h *ImportHandler) GetReport(c *fiber.Ctx) error {
	summary, err := h.importService.Summary(c.UserContext(), c.Params("id"))
	if err != nil {
		status, message := errorStatus(err)
		return utils.ErrorResponse(c, status, message, err)
	}
	if !canAccess(c, summary.UserID) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Import report not found", nil)
	}

	return utils.SuccessResponse(c, "Import report retrieved successfully", summary)
}

// DownloadErrorReport downloads an error report file
func (h *ImportHandler) DownloadErrorReport(c *fiber.Ctx) error {
	filename := c.Params("filename")
	if filename == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Filename is required", nil)
	}

	// Validate filename to prevent directory traversal
	if !isValidFilename(filename) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid filename", nil)
	}

	if !h.canDownloadReport(c, filename) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Error report file not found", nil)
	}

	filePath := h.importService.ReportFile(filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Error report file not found", err)
	}

	return c.Download(filePath, filename)
}

func (h *ImportHandler) DownloadTemplate(c *fiber.Ctx) error {
	templatePath, err := h.importService.GenerateTemplate(c.Params("domain"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownDomain) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Unknown import domain", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
	}

	return c.Download(templatePath, filepath.Base(templatePath))
}

func (h *ImportHandler) ListDomains(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, "Import domains retrieved successfully", h.importService.Domains())
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrUnknownDomain):
		return fiber.StatusBadRequest, "Unknown import domain"
	case errors.Is(err, importer.ErrUnsupportedFormat):
		return fiber.StatusBadRequest, "Only CSV and Excel (.xlsx) files are allowed"
	case errors.Is(err, importer.ErrMissingHeaders):
		return fiber.StatusBadRequest, "File is missing required headers"
	case errors.Is(err, importer.ErrMalformedFile):
		return fiber.StatusBadRequest, "File could not be read"
	case errors.Is(err, repository.ErrNotFound):
		return fiber.StatusNotFound, "Not found"
	case errors.Is(err, service.ErrStatusUnavailable):
		return fiber.StatusServiceUnavailable, "Import status is not available"
	case errors.Is(err, service.ErrPersistence):
		return fiber.StatusInternalServerError, "Failed to save imported records"
	default:
		return fiber.StatusInternalServerError, "Failed to import file"
	}
}

// canDownloadReport checks the report against the stored summary of its
// import. Without a status store only admins can download reports.
func (h *ImportHandler) canDownloadReport(c *fiber.Ctx, filename string) bool {
	importID := strings.TrimSuffix(strings.TrimPrefix(filename, reportPrefix), reportSuffix)
	summary, err := h.importService.Summary(c.UserContext(), importID)
	if err != nil {
		return errors.Is(err, service.ErrStatusUnavailable) && middleware.IdentityFromContext(c).Role == "admin"
	}
	return summary.ErrorReportPath == filename && canAccess(c, summary.UserID)
}

// canAccess lets admins see every import and users only their own.
func canAccess(c *fiber.Ctx, ownerID int) bool {
	identity := middleware.IdentityFromContext(c)
	return identity.Role == "admin" || identity.UserID == ownerID
}

// isValidFilename validates filename to prevent directory traversal
func isValidFilename(filename string) bool {
	if len(filename) == 0 || len(filename) > 255 {
		return false
	}

	dangerousChars := []string{"..", "/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	for _, char := range dangerousChars {
		if strings.Contains(filename, char) {
			return false
		}
	}

	return strings.HasPrefix(filename, reportPrefix) && strings.HasSuffix(filename, reportSuffix)
}
