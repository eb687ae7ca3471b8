package queue

import (
	"context"
	"errors"

	"github.com/uninorte/feria-gamer/internal/models"
)

// ErrQueueClosed is returned by Enqueue after Close
var ErrQueueClosed = errors.New("queue closed")

// Queue transports mail jobs from the API to the worker. The database row
// is the source of truth for job state; the queue only carries work.
type Queue interface {
	// Enqueue adds a persisted job to the queue
	Enqueue(ctx context.Context, job *models.MailJob) error

	// Dequeue blocks until a job is available. It returns
	// context.DeadlineExceeded when a poll times out with nothing to do.
	Dequeue(ctx context.Context) (*models.MailJob, error)

	// Close closes the queue and releases resources
	Close() error
}
