package models

import "time"

// ImportRowError represents a rejected row of an import file
type ImportRowError struct {
	Line   int               `json:"line"`
	Stage  string            `json:"stage"`
	Error  string            `json:"error"`
	Values map[string]string `json:"values,omitempty"`
}

// ImportSummary represents the outcome of one import with per-row diagnostics
type ImportSummary struct {
	ImportID        string           `json:"import_id"`
	Domain          string           `json:"domain"`
	Filename        string           `json:"filename"`
	UserID          int              `json:"user_id"`
	TotalRows       int              `json:"total_rows"`
	ImportedCount   int              `json:"imported_count"`
	BlankCount      int              `json:"blank_count"`
	ErrorCount      int              `json:"error_count"`
	Errors          []ImportRowError `json:"errors"`
	ErrorReportPath string           `json:"error_report_path,omitempty"`
	ImportTime      time.Time        `json:"import_time"`
}

const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// ImportJob tracks an import running in the background worker
type ImportJob struct {
	ID        string    `json:"id"`
	Domain    string    `json:"domain"`
	Filename  string    `json:"filename"`
	FilePath  string    `json:"file_path"`
	UserID    int       `json:"user_id"`
	Status    string    `json:"status"`
	ImportID  string    `json:"import_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
