package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/uninorte/feria-gamer/internal/models"
	"github.com/valkey-io/valkey-go"
	"gorm.io/gorm"
)

// DefaultValkeyKey is the list holding pending mail job ids
const DefaultValkeyKey = "feria:mail_jobs"

// ValkeyQueue implements a distributed job queue using Valkey.
// Valkey carries job ids only; the database row is the source of truth.
type ValkeyQueue struct {
	client valkey.Client
	db     *gorm.DB
	key    string
}

type valkeyEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// NewValkeyQueue creates a new Valkey-backed queue
func NewValkeyQueue(addr string, db *gorm.DB) (*ValkeyQueue, error) {
	if db == nil {
		return nil, fmt.Errorf("database instance is required for Valkey queue")
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Valkey: %w", err)
	}

	slog.Info("Initialized Valkey mail queue", "address", addr, "queue_key", DefaultValkeyKey)
	return &ValkeyQueue{client: client, db: db, key: DefaultValkeyKey}, nil
}

// Enqueue pushes the job id onto the Valkey list. The job row must already
// be saved.
func (q *ValkeyQueue) Enqueue(ctx context.Context, job *models.MailJob) error {
	if job.ID == uuid.Nil {
		return fmt.Errorf("job must have an ID")
	}

	data, err := json.Marshal(valkeyEnvelope{ID: job.ID.String(), Type: string(job.Type)})
	if err != nil {
		return fmt.Errorf("failed to marshal job data: %w", err)
	}

	cmd := q.client.B().Rpush().Key(q.key).Element(string(data)).Build()
	if err := q.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to push job to Valkey: %w", err)
	}

	slog.Debug("Mail job enqueued", "job_id", job.ID, "type", job.Type, "queue_key", q.key)
	return nil
}

// Dequeue blocks on BLPOP for up to five seconds and loads the job row
func (q *ValkeyQueue) Dequeue(ctx context.Context) (*models.MailJob, error) {
	cmd := q.client.B().Blpop().Key(q.key).Timeout(5).Build()
	values, err := q.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// BLPOP timed out with an empty list
		if valkey.IsValkeyNil(err) {
			return nil, context.DeadlineExceeded
		}
		return nil, fmt.Errorf("failed to pop job from Valkey: %w", err)
	}
	if len(values) < 2 {
		return nil, fmt.Errorf("invalid BLPOP result: expected 2 values, got %d", len(values))
	}

	var env valkeyEnvelope
	if err := json.Unmarshal([]byte(values[1]), &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job data: %w", err)
	}
	jobID, err := uuid.Parse(env.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse job ID: %w", err)
	}

	var job models.MailJob
	if err := q.db.WithContext(ctx).First(&job, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Warn("Dropping queued id with no job row", "job_id", jobID)
			return nil, context.DeadlineExceeded
		}
		return nil, fmt.Errorf("failed to fetch job from database: %w", err)
	}

	slog.Debug("Mail job dequeued", "job_id", job.ID, "type", job.Type)
	return &job, nil
}

// Close closes the Valkey connection
func (q *ValkeyQueue) Close() error {
	q.client.Close()
	slog.Info("Valkey queue closed")
	return nil
}
