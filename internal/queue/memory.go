package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/uninorte/feria-gamer/internal/models"
)

// enqueueTimeout bounds how long Enqueue waits on a full buffer
const enqueueTimeout = 5 * time.Second

// MemoryQueue implements an in-process job queue backed by a buffered channel
type MemoryQueue struct {
	jobChan chan *models.MailJob
	mu      sync.RWMutex
	closed  bool
}

// NewMemoryQueue creates a new in-memory queue
func NewMemoryQueue(bufferSize int) *MemoryQueue {
	if bufferSize <= 0 {
		bufferSize = 100
	}

	slog.Info("Initialized in-memory mail queue", "buffer_size", bufferSize)
	return &MemoryQueue{
		jobChan: make(chan *models.MailJob, bufferSize),
	}
}

// Enqueue adds a job to the queue
func (q *MemoryQueue) Enqueue(ctx context.Context, job *models.MailJob) error {
	if job.ID == uuid.Nil {
		return fmt.Errorf("job must have an ID")
	}

	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobChan <- job:
		slog.Debug("Mail job enqueued", "job_id", job.ID, "type", job.Type)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(enqueueTimeout):
		return fmt.Errorf("queue is full, could not enqueue job %s", job.ID)
	}
}

// Dequeue retrieves the next job from the queue
func (q *MemoryQueue) Dequeue(ctx context.Context) (*models.MailJob, error) {
	select {
	case job, ok := <-q.jobChan:
		if !ok {
			return nil, ErrQueueClosed
		}
		slog.Debug("Mail job dequeued", "job_id", job.ID, "type", job.Type)
		return job, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len returns the number of buffered jobs
func (q *MemoryQueue) Len() int {
	return len(q.jobChan)
}

// Close closes the queue. Jobs already buffered can still be dequeued.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.jobChan)
	slog.Info("Memory queue closed")
	return nil
}
