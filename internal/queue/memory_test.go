package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uninorte/feria-gamer/internal/models"
)

func newJob(to string) *models.MailJob {
	return &models.MailJob{
		ID:           uuid.New(),
		Type:         models.MailJobTeamInvitation,
		Status:       models.MailJobPending,
		Destinatario: to,
	}
}

func TestMemoryQueue_FIFO(t *testing.T) {
	q := NewMemoryQueue(4)
	ctx := context.Background()

	first, second := newJob("a@uninorte.edu.co"), newJob("b@uninorte.edu.co")
	require.NoError(t, q.Enqueue(ctx, first))
	require.NoError(t, q.Enqueue(ctx, second))
	assert.Equal(t, 2, q.Len())

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	got, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestMemoryQueue_RejectsJobWithoutID(t *testing.T) {
	q := NewMemoryQueue(1)
	err := q.Enqueue(context.Background(), &models.MailJob{})
	assert.Error(t, err)
}

func TestMemoryQueue_DequeueHonorsContext(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryQueue_EnqueueOnFullBufferHonorsContext(t *testing.T) {
	q := NewMemoryQueue(1)
	require.NoError(t, q.Enqueue(context.Background(), newJob("a@uninorte.edu.co")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := q.Enqueue(ctx, newJob("b@uninorte.edu.co"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryQueue_Close(t *testing.T) {
	q := NewMemoryQueue(2)
	ctx := context.Background()
	job := newJob("a@uninorte.edu.co")
	require.NoError(t, q.Enqueue(ctx, job))

	require.NoError(t, q.Close())
	require.NoError(t, q.Close())

	err := q.Enqueue(ctx, newJob("b@uninorte.edu.co"))
	assert.True(t, errors.Is(err, ErrQueueClosed))

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)

	_, err = q.Dequeue(ctx)
	assert.ErrorIs(t, err, ErrQueueClosed)
}
