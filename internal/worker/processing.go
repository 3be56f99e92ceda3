package worker

import (
	"encoding/json"
	"time"

	"oabpe-web/internal/importer"

	"github.com/hibiken/asynq"
)

const TypeImportFile = "import:file"

// ImportTaskPayload carries everything a worker needs to replay an upload;
// the file itself stays on shared storage at FilePath.
type ImportTaskPayload struct {
	JobID    string            `json:"job_id"`
	Domain   string            `json:"domain"`
	Filename string            `json:"filename"`
	FilePath string            `json:"file_path"`
	Identity importer.Identity `json:"identity"`
}

func NewImportTask(payload ImportTaskPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeImportFile, data,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Timeout(30*time.Minute),
	), nil
}
