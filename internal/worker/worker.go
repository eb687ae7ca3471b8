package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/uninorte/feria-gamer/internal/mailer"
	"github.com/uninorte/feria-gamer/internal/models"
	"github.com/uninorte/feria-gamer/internal/queue"
	"gorm.io/gorm"
)

// Worker delivers mail jobs from the queue
type Worker struct {
	db          *gorm.DB
	queue       queue.Queue
	mailer      mailer.Mailer
	logger      *slog.Logger
	maxWorkers  int
	maxAttempts int
	semaphore   chan struct{}
	wg          sync.WaitGroup
	now         func() time.Time
}

// New creates a new worker instance
func New(db *gorm.DB, q queue.Queue, m mailer.Mailer, logger *slog.Logger, maxWorkers, maxAttempts int) *Worker {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Worker{
		db:          db,
		queue:       q,
		mailer:      m,
		logger:      logger,
		maxWorkers:  maxWorkers,
		maxAttempts: maxAttempts,
		semaphore:   make(chan struct{}, maxWorkers),
		now:         time.Now,
	}
}

// Recover re-enqueues jobs left pending or running by a previous process.
// The memory queue loses its buffer on restart, the database does not.
func (w *Worker) Recover(ctx context.Context) (int, error) {
	var jobs []models.MailJob
	err := w.db.WithContext(ctx).
		Where("status IN ?", []models.MailJobStatus{models.MailJobPending, models.MailJobRunning}).
		Order("created_at").
		Find(&jobs).Error
	if err != nil {
		return 0, fmt.Errorf("load unfinished jobs: %w", err)
	}

	for i := range jobs {
		job := &jobs[i]
		if job.Status == models.MailJobRunning {
			job.Status = models.MailJobPending
			if err := w.db.WithContext(ctx).Model(job).Update("status", models.MailJobPending).Error; err != nil {
				return i, err
			}
		}
		if err := w.queue.Enqueue(ctx, job); err != nil {
			return i, fmt.Errorf("re-enqueue job %s: %w", job.ID, err)
		}
	}
	if len(jobs) > 0 {
		w.logger.Info("Re-enqueued unfinished mail jobs", "count", len(jobs))
	}
	return len(jobs), nil
}

// Start begins processing jobs from the queue and blocks until ctx is done
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Worker started", "max_concurrent_jobs", w.maxWorkers, "max_attempts", w.maxAttempts)

	for {
		select {
		case <-ctx.Done():
			return w.shutdown(ctx)
		default:
		}

		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return w.shutdown(ctx)
			}
			// DeadlineExceeded means the poll found nothing
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			if errors.Is(err, queue.ErrQueueClosed) {
				w.wg.Wait()
				w.logger.Info("Queue closed, worker stopped")
				return nil
			}
			w.logger.Error("Failed to dequeue job", "error", err)
			time.Sleep(time.Second)
			continue
		}

		select {
		case w.semaphore <- struct{}{}:
			w.wg.Add(1)
			go func(j *models.MailJob) {
				defer w.wg.Done()
				defer func() { <-w.semaphore }()

				w.processJob(ctx, j)
			}(job)
		case <-ctx.Done():
			w.logger.Info("Context cancelled while waiting for worker slot")
			return w.shutdown(ctx)
		}
	}
}

func (w *Worker) shutdown(ctx context.Context) error {
	w.logger.Info("Worker shutting down, waiting for jobs to complete")
	w.wg.Wait()
	w.logger.Info("All jobs completed, worker stopped")
	return ctx.Err()
}

func (w *Worker) processJob(ctx context.Context, job *models.MailJob) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Panic recovered in processJob", "job_id", job.ID, "panic", r)
			w.finish(job, models.MailJobFailed, fmt.Sprintf("job panicked: %v", r))
		}
	}()

	w.logger.Info("Processing job", "job_id", job.ID, "type", job.Type, "to", job.Destinatario)

	started := w.now()
	job.Status = models.MailJobRunning
	job.StartedAt = &started
	job.Attempts++
	if err := w.db.Model(job).Updates(map[string]interface{}{
		"status":     job.Status,
		"started_at": started,
		"attempts":   job.Attempts,
	}).Error; err != nil {
		w.logger.Error("Failed to mark job running", "job_id", job.ID, "error", err)
	}

	err := w.mailer.Send(ctx, mailer.Message{
		To:      job.Destinatario,
		Subject: job.Asunto,
		Body:    job.Cuerpo,
	})
	if err == nil {
		w.logger.Info("Job completed", "job_id", job.ID)
		w.finish(job, models.MailJobCompleted, "")
		return
	}

	if job.Attempts < w.maxAttempts && ctx.Err() == nil {
		w.logger.Warn("Job attempt failed, retrying", "job_id", job.ID, "attempt", job.Attempts, "error", err)
		job.Status = models.MailJobPending
		job.Error = err.Error()
		if uerr := w.db.Model(job).Updates(map[string]interface{}{"status": job.Status, "error": job.Error}).Error; uerr != nil {
			w.logger.Error("Failed to record job retry", "job_id", job.ID, "error", uerr)
		}
		qerr := w.queue.Enqueue(ctx, job)
		if qerr == nil {
			return
		}
		err = fmt.Errorf("%v; re-enqueue failed: %w", err, qerr)
	}

	w.logger.Error("Job failed", "job_id", job.ID, "attempts", job.Attempts, "error", err)
	w.finish(job, models.MailJobFailed, err.Error())
}

func (w *Worker) finish(job *models.MailJob, status models.MailJobStatus, errMsg string) {
	completed := w.now()
	job.Status = status
	job.Error = errMsg
	job.CompletedAt = &completed
	if err := w.db.Model(job).Updates(map[string]interface{}{
		"status":       status,
		"error":        errMsg,
		"completed_at": completed,
	}).Error; err != nil {
		w.logger.Error("Failed to persist job result", "job_id", job.ID, "error", err)
	}
}
