package app

import (
	"context"
	"time"
)

const (
	ImportJobQueued    = "queued"
	ImportJobRunning   = "running"
	ImportJobSucceeded = "succeeded"
	ImportJobFailed    = "failed"
)

// ImportJob is the message put on the job queue. The file itself is staged
// in object storage under ObjectKey.
type ImportJob struct {
	ID          string    `json:"id"`
	ObjectKey   string    `json:"object_key"`
	Filename    string    `json:"filename"`
	UseAI       bool      `json:"use_ai"`
	Owner       string    `json:"owner,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

type ImportJobCompleted struct {
	JobID      string      `json:"job_id"`
	Status     string      `json:"status"`
	Stats      ImportStats `json:"stats"`
	Error      string      `json:"error,omitempty"`
	FinishedAt time.Time   `json:"finished_at"`
}

type ImportRun struct {
	ID         string
	Filename   string
	Owner      string
	Status     string
	Stats      ImportStats
	Mapping    ColumnMapping
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

type JobQueue interface {
	EnqueueJob(ctx context.Context, job ImportJob) error
	PublishCompleted(ctx context.Context, event ImportJobCompleted) error
}

type FileStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

type ImportRunRepository interface {
	CreateRun(ctx context.Context, run *ImportRun) error
	UpdateRun(ctx context.Context, run *ImportRun) error
	// SaveLeads replaces whatever leads the run stored before.
	SaveLeads(ctx context.Context, runID string, leads []LeadCandidate) error
	GetRun(ctx context.Context, id string) (*ImportRun, error)
}

type CrmClient interface {
	CreateLeads(ctx context.Context, jobID string, leads []LeadCandidate) (int, error)
	MarkJobSuccess(ctx context.Context, jobID string, stats ImportStats) error
	MarkJobFailed(ctx context.Context, jobID string, message string) error
}

type ImportJobService interface {
	Enqueue(ctx context.Context, file []byte, filename string, useAI bool, owner string) (*ImportJob, error)
	Process(ctx context.Context, job ImportJob) error
	// Abandon closes a job as failed after its last attempt returned cause.
	Abandon(ctx context.Context, job ImportJob, cause error) error
	GetRun(ctx context.Context, id string) (*ImportRun, error)
}
