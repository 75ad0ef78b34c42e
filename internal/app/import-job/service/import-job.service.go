package import_job_service

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/nebula-marketing/lead-importer/domain/app"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

type ImportJobService struct {
	importer app.LeadImporterService
	storage  app.FileStorage
	queue    app.JobQueue
	runs     app.ImportRunRepository
	index    app.LeadIndex
	crm      app.CrmClient
	log      *slog.Logger
	now      func() time.Time
}

var _ app.ImportJobService = &ImportJobService{}

// New wires the job pipeline. index and crm may be nil; the matching steps
// are then skipped.
func New(
	importer app.LeadImporterService,
	storage app.FileStorage,
	queue app.JobQueue,
	runs app.ImportRunRepository,
	index app.LeadIndex,
	crm app.CrmClient,
	log *slog.Logger,
) *ImportJobService {
	return &ImportJobService{
		importer: importer,
		storage:  storage,
		queue:    queue,
		runs:     runs,
		index:    index,
		crm:      crm,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func objectKey(jobID, filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return path.Join("uploads", jobID, name)
}

func contentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".csv":
		return "text/csv"
	case ".tsv":
		return "text/tab-separated-values"
	default:
		return "application/octet-stream"
	}
}

// Enqueue stages the file, records a queued run and publishes the job.
func (s *ImportJobService) Enqueue(ctx context.Context, file []byte, filename string, useAI bool, owner string) (*app.ImportJob, error) {
	job := app.ImportJob{
		ID:          uuid.NewString(),
		Filename:    filename,
		UseAI:       useAI,
		Owner:       owner,
		RequestedAt: s.now(),
	}
	job.ObjectKey = objectKey(job.ID, filename)

	if err := s.storage.Put(ctx, job.ObjectKey, file, contentType(filename)); err != nil {
		return nil, eris.Wrapf(err, "stage file of job %s", job.ID)
	}

	run := &app.ImportRun{
		ID:        job.ID,
		Filename:  filename,
		Owner:     owner,
		Status:    app.ImportJobQueued,
		StartedAt: job.RequestedAt,
	}
	if err := s.runs.CreateRun(ctx, run); err != nil {
		s.discardFile(ctx, job.ObjectKey)
		return nil, eris.Wrapf(err, "record job %s", job.ID)
	}

	if err := s.queue.EnqueueJob(ctx, job); err != nil {
		s.discardFile(ctx, job.ObjectKey)
		run.Status = app.ImportJobFailed
		run.Error = "could not enqueue job"
		finished := s.now()
		run.FinishedAt = &finished
		if uerr := s.runs.UpdateRun(ctx, run); uerr != nil {
			s.log.Error("failed to mark unqueued job as failed", "job_id", job.ID, "error", uerr)
		}
		return nil, eris.Wrapf(err, "enqueue job %s", job.ID)
	}

	s.log.Info("import job enqueued", "job_id", job.ID, "filename", filename, "bytes", len(file), "use_ai", useAI)
	return &job, nil
}

func (s *ImportJobService) GetRun(ctx context.Context, id string) (*app.ImportRun, error) {
	return s.runs.GetRun(ctx, id)
}

// stepError is a failed job step that may succeed on another attempt. Reason
// is what the run records when the job is finally given up.
type stepError struct {
	reason string
	err    error
}

func (e *stepError) Error() string { return e.reason + ": " + e.err.Error() }

func (e *stepError) Unwrap() error { return e.err }

// Process runs one queued job to completion. A file that cannot be parsed
// fails the job and returns nil. Other failures leave the run open for another
// attempt and are returned; the caller either redelivers the job or calls
// Abandon. Each step may run again on redelivery.
func (s *ImportJobService) Process(ctx context.Context, job app.ImportJob) error {
	log := s.log.With("job_id", job.ID, "filename", job.Filename)

	run := &app.ImportRun{
		ID:        job.ID,
		Filename:  job.Filename,
		Owner:     job.Owner,
		Status:    app.ImportJobRunning,
		StartedAt: s.now(),
	}
	if err := s.runs.UpdateRun(ctx, run); err != nil {
		return &stepError{reason: "could not record job start", err: eris.Wrapf(err, "mark job %s running", job.ID)}
	}

	data, err := s.storage.Get(ctx, job.ObjectKey)
	if err != nil {
		return s.retryLater(ctx, log, run, "staged file is unavailable", eris.Wrapf(err, "load staged file of job %s", job.ID))
	}

	res, err := s.importer.ImportLeads(ctx, data, job.Filename, app.ImportOptions{UseAI: job.UseAI})
	if err != nil {
		var parseErr *app.ParseError
		if errors.As(err, &parseErr) {
			s.fail(ctx, log, run, parseErr.Reason)
			s.discardFile(ctx, job.ObjectKey)
			return nil
		}
		return s.retryLater(ctx, log, run, "import failed", eris.Wrapf(err, "import job %s", job.ID))
	}

	run.Stats = res.Stats
	run.Mapping = res.ColumnMappings

	if err := s.runs.SaveLeads(ctx, run.ID, res.Leads); err != nil {
		return s.retryLater(ctx, log, run, "could not store leads", err)
	}

	if s.index != nil {
		if err := s.index.IndexLeads(ctx, run.ID, res.Leads); err != nil {
			log.Warn("lead indexing failed, search will miss this run", "error", err)
		}
	}

	if s.crm != nil && len(res.Leads) > 0 {
		stored, err := s.crm.CreateLeads(ctx, run.ID, res.Leads)
		if err != nil {
			return s.retryLater(ctx, log, run, "could not push leads to the CRM", err)
		}
		log.Info("leads pushed to crm", "sent", len(res.Leads), "stored", stored)
	}

	run.Status = app.ImportJobSucceeded
	run.Error = ""
	finished := s.now()
	run.FinishedAt = &finished
	if err := s.runs.UpdateRun(ctx, run); err != nil {
		return &stepError{reason: "could not record job success", err: eris.Wrapf(err, "mark job %s succeeded", job.ID)}
	}

	if s.crm != nil {
		if err := s.crm.MarkJobSuccess(ctx, run.ID, run.Stats); err != nil {
			log.Warn("crm did not accept job success", "error", err)
		}
	}
	s.publishCompleted(ctx, log, run)
	s.discardFile(ctx, job.ObjectKey)

	log.Info("import job finished",
		"imported", run.Stats.Imported,
		"skipped", run.Stats.Skipped,
		"duplicates", run.Stats.Duplicates,
		"elapsed", finished.Sub(run.StartedAt))
	return nil
}

// Abandon gives up on a job whose last attempt failed with cause. The run is
// marked failed, the CRM and completion listeners are told, and the staged
// file is removed.
func (s *ImportJobService) Abandon(ctx context.Context, job app.ImportJob, cause error) error {
	log := s.log.With("job_id", job.ID, "filename", job.Filename)

	reason := "import failed"
	var step *stepError
	if errors.As(cause, &step) {
		reason = step.reason
	}

	run, err := s.runs.GetRun(ctx, job.ID)
	if err != nil {
		if !errors.Is(err, app.ErrImportRunNotFound) {
			return eris.Wrapf(err, "load run of abandoned job %s", job.ID)
		}
		run = &app.ImportRun{ID: job.ID, Filename: job.Filename, Owner: job.Owner, StartedAt: s.now()}
	}

	s.fail(ctx, log, run, reason)
	s.discardFile(ctx, job.ObjectKey)
	return nil
}

// retryLater records why an attempt stopped without closing the run.
func (s *ImportJobService) retryLater(ctx context.Context, log *slog.Logger, run *app.ImportRun, reason string, err error) error {
	log.Warn("import job attempt failed", "reason", reason, "error", err)

	run.Error = reason
	if uerr := s.runs.UpdateRun(ctx, run); uerr != nil {
		log.Error("failed to record job attempt", "error", uerr)
	}
	return &stepError{reason: reason, err: err}
}

func (s *ImportJobService) fail(ctx context.Context, log *slog.Logger, run *app.ImportRun, reason string) {
	run.Status = app.ImportJobFailed
	run.Error = reason
	finished := s.now()
	run.FinishedAt = &finished

	log.Warn("import job failed", "reason", reason)

	if err := s.runs.UpdateRun(ctx, run); err != nil {
		log.Error("failed to record job failure", "error", err)
	}
	if s.crm != nil {
		if err := s.crm.MarkJobFailed(ctx, run.ID, reason); err != nil {
			log.Warn("crm did not accept job failure", "error", err)
		}
	}
	s.publishCompleted(ctx, log, run)
}

func (s *ImportJobService) publishCompleted(ctx context.Context, log *slog.Logger, run *app.ImportRun) {
	event := app.ImportJobCompleted{
		JobID:      run.ID,
		Status:     run.Status,
		Stats:      run.Stats,
		Error:      run.Error,
		FinishedAt: s.now(),
	}
	if run.FinishedAt != nil {
		event.FinishedAt = *run.FinishedAt
	}
	if err := s.queue.PublishCompleted(ctx, event); err != nil {
		log.Warn("completion event not published", "error", err)
	}
}

func (s *ImportJobService) discardFile(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.log.Warn("staged file not removed", "key", key, "error", err)
	}
}
