package queue

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uninorte/feria-gamer/internal/config"
	"github.com/uninorte/feria-gamer/internal/db"
	"github.com/uninorte/feria-gamer/internal/models"
)

// Runs only against a live server, e.g. FERIA_TEST_VALKEY_ADDR=localhost:6379
func TestValkeyQueue_RoundTrip(t *testing.T) {
	addr := os.Getenv("FERIA_TEST_VALKEY_ADDR")
	if addr == "" {
		t.Skip("FERIA_TEST_VALKEY_ADDR not set")
	}

	database, err := db.New(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))

	q, err := NewValkeyQueue(addr, database)
	require.NoError(t, err)
	q.key = "feria:test:" + t.Name()
	t.Cleanup(func() { q.Close() })

	job := newJob("a@uninorte.edu.co")
	job.Asunto = "Invitación"
	require.NoError(t, database.Create(job).Error)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, q.Enqueue(ctx, job))

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, "a@uninorte.edu.co", got.Destinatario)
	assert.Equal(t, models.MailJobPending, got.Status)
}
