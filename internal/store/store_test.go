package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lodestone/internal/entity"
)

// newTestStore opens a store on a fresh temp-dir database.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "lodestone.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testTask(id, title string) entity.Task {
	at := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	return entity.Task{
		Meta: entity.Meta{
			SchemaVersion: entity.SchemaVersion,
			EntityType:    entity.EntityTask,
			ID:            id,
			CreatedAt:     at,
			UpdatedAt:     at,
		},
		Title:      title,
		Status:     entity.StatusPending,
		Energy:     entity.EnergyMedium,
		Importance: entity.ImportanceOptional,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
}

func testAuditEntry(id string, action entity.AuditAction) entity.AuditEntry {
	return entity.AuditEntry{
		ID:         id,
		Timestamp:  time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC),
		Action:     action,
		EntityType: entity.EntityTask,
		EntityID:   "task-1",
		Details:    map[string]string{"title": "x"},
	}
}

func TestOpenAppliesPragmas(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lodestone.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.PutTask(context.Background(), testTask("task-1", "first")))
	require.NoError(t, s1.Close())

	// Reopen: schema application must be safe and data durable.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	tasks, err := s2.Tasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "first", tasks[0].Title)
}

func TestIsInitialized(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok, err := s.IsInitialized(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "fresh store has no tasks")

	require.NoError(t, s.PutTask(ctx, testTask("task-1", "seed me")))

	ok, err = s.IsInitialized(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPreferencesSingleton(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, found, err := s.Preferences(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	p := entity.DefaultPreferences()
	p.Theme = "light"
	require.NoError(t, s.PutPreferences(ctx, p))

	p.Theme = "dark"
	require.NoError(t, s.PutPreferences(ctx, p))

	got, found, err := s.Preferences(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "dark", got.Theme, "second put overwrites, no second row")
}

func TestTaskLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, found, err := s.Task(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.PutTask(ctx, testTask("task-1", "present")))
	got, found, err := s.Task(ctx, "task-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "present", got.Title)
}
