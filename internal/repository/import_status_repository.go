package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"oabpe-web/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	summaryKeyFormat = "import:summary:%s"
	jobKeyFormat     = "import:job:%s"
)

// ImportStatusRepository keeps import summaries and background job state in
// redis for ttl.
type ImportStatusRepository struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewImportStatusRepository(client *redis.Client, ttl time.Duration) *ImportStatusRepository {
	return &ImportStatusRepository{redis: client, ttl: ttl}
}

func (r *ImportStatusRepository) SaveSummary(ctx context.Context, summary *models.ImportSummary) error {
	return r.set(ctx, fmt.Sprintf(summaryKeyFormat, summary.ImportID), summary)
}

func (r *ImportStatusRepository) GetSummary(ctx context.Context, importID string) (*models.ImportSummary, error) {
	var summary models.ImportSummary
	if err := r.get(ctx, fmt.Sprintf(summaryKeyFormat, importID), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *ImportStatusRepository) SaveJob(ctx context.Context, job *models.ImportJob) error {
	job.UpdatedAt = time.Now()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = job.UpdatedAt
	}
	return r.set(ctx, fmt.Sprintf(jobKeyFormat, job.ID), job)
}

func (r *ImportStatusRepository) GetJob(ctx context.Context, jobID string) (*models.ImportJob, error) {
	var job models.ImportJob
	if err := r.get(ctx, fmt.Sprintf(jobKeyFormat, jobID), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateJobStatus loads the job, applies status and error message, and stores it again.
func (r *ImportStatusRepository) UpdateJobStatus(ctx context.Context, jobID, status, importID, errMsg string) error {
	job, err := r.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	job.Status = status
	if importID != "" {
		job.ImportID = importID
	}
	job.Error = errMsg
	return r.SaveJob(ctx, job)
}

func (r *ImportStatusRepository) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return r.redis.Set(ctx, key, data, r.ttl).Err()
}

func (r *ImportStatusRepository) get(ctx context.Context, key string, dest interface{}) error {
	data, err := r.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}
