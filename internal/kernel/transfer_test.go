package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lodestone/internal/entity"
	"github.com/roach88/lodestone/internal/portable"
)

func TestExportAllIsSortedAndAudited(t *testing.T) {
	k, ctx := newTestKernel(t)

	// Create out of lexicographic order; export must still sort by id.
	for _, title := range []string{"zeta", "alpha", "mid"} {
		_, err := k.CreateTask(ctx, TaskDraft{Title: title})
		require.NoError(t, err)
	}

	doc, err := k.ExportAll(ctx)
	require.NoError(t, err)

	require.Len(t, doc.Tasks, 3)
	for i := 1; i < len(doc.Tasks); i++ {
		assert.Less(t, doc.Tasks[i-1].Meta.ID, doc.Tasks[i].Meta.ID)
	}
	for i := 1; i < len(doc.Audit); i++ {
		assert.False(t, doc.Audit[i].Timestamp.Before(doc.Audit[i-1].Timestamp))
	}

	// The export's own entry lands after the document was assembled.
	assert.Len(t, doc.Audit, 3, "document excludes the kernel_exported entry")
	entry := lastAudit(t, ctx, k)
	assert.Equal(t, entity.ActionExported, entry.Action)
	assert.Equal(t, "kernel", entry.EntityID)
	assert.Equal(t, "3", entry.Details["tasks"])
}

func TestExportIsDeterministic(t *testing.T) {
	k, ctx := newTestKernel(t)

	_, err := k.CreateTask(ctx, TaskDraft{Title: "stable", Tags: []string{"a", "b"}})
	require.NoError(t, err)

	first, err := k.ExportAll(ctx)
	require.NoError(t, err)
	second, err := k.ExportAll(ctx)
	require.NoError(t, err)

	// Collections are byte-stable; only the audit tail differs, by the
	// kernel_exported entry the first export appended.
	firstBytes, err := portable.Encode(&portable.Document{Version: first.Version, Tasks: first.Tasks, Edges: first.Edges, Routines: first.Routines})
	require.NoError(t, err)
	secondBytes, err := portable.Encode(&portable.Document{Version: second.Version, Tasks: second.Tasks, Edges: second.Edges, Routines: second.Routines})
	require.NoError(t, err)
	assert.Equal(t, firstBytes, secondBytes)
	assert.Len(t, second.Audit, len(first.Audit)+1)
}

func TestImportRevertsToExportedState(t *testing.T) {
	k, ctx := newTestKernel(t)

	task, err := k.CreateTask(ctx, TaskDraft{Title: "keep me", MicroSteps: []string{"step"}})
	require.NoError(t, err)
	other, err := k.CreateTask(ctx, TaskDraft{Title: "victim"})
	require.NoError(t, err)
	_, err = k.AddEdge(ctx, task.Meta.ID, other.Meta.ID, entity.EdgeBlocks)
	require.NoError(t, err)

	doc, err := k.ExportAll(ctx)
	require.NoError(t, err)
	data, err := portable.Encode(doc)
	require.NoError(t, err)

	// Diverge from the snapshot.
	_, err = k.CompleteTask(ctx, task.Meta.ID)
	require.NoError(t, err)
	require.NoError(t, k.RemoveTask(ctx, other.Meta.ID))
	_, err = k.CreateTask(ctx, TaskDraft{Title: "intruder"})
	require.NoError(t, err)

	res, err := k.ImportAll(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Tasks)
	assert.Equal(t, 1, res.Edges)
	assert.Empty(t, res.IntegrityWarnings)

	snap := k.Snapshot()
	require.Len(t, snap.Tasks, 2)
	assert.Equal(t, entity.StatusPending, snap.Tasks[task.Meta.ID].Status)
	assert.Nil(t, snap.Tasks[task.Meta.ID].CompletedAt)
	assert.Contains(t, snap.Tasks, other.Meta.ID)
	require.Len(t, snap.Edges, 1)
}

func TestImportKeepsAuditAdditive(t *testing.T) {
	k, ctx := newTestKernel(t)

	_, err := k.CreateTask(ctx, TaskDraft{Title: "history"})
	require.NoError(t, err)

	doc, err := k.ExportAll(ctx)
	require.NoError(t, err)
	data, err := portable.Encode(doc)
	require.NoError(t, err)

	before := auditLen(t, ctx, k) // create + export
	_, err = k.ImportAll(ctx, data)
	require.NoError(t, err)

	// The document's audit array is ignored; one kernel_imported entry is
	// appended on top of what was already there.
	assert.Equal(t, before+1, auditLen(t, ctx, k))
	entry := lastAudit(t, ctx, k)
	assert.Equal(t, entity.ActionImported, entry.Action)
	assert.Equal(t, "1", entry.Details["tasks"])
}

func TestImportMalformedFailsClosed(t *testing.T) {
	k, ctx := newTestKernel(t)

	_, err := k.CreateTask(ctx, TaskDraft{Title: "untouched"})
	require.NoError(t, err)
	beforeSnap := k.Snapshot()
	beforeAudit := auditLen(t, ctx, k)

	cases := map[string][]byte{
		"truncated":   []byte(`{"version": "1", "tasks": [`),
		"not json":    []byte("plainly not json"),
		"trailing":    []byte(`{"version":"1","tasks":[],"edges":[],"routines":[],"audit":[],"preferences":null} {"again":true}`),
		"wrong shape": []byte(`{"version":"1","tasks":[{"title":17}],"edges":[],"routines":[],"audit":[],"preferences":null}`),
	}
	for name, data := range cases {
		_, err := k.ImportAll(ctx, data)
		assert.True(t, IsParse(err), "%s: %v", name, err)
	}

	assert.Equal(t, beforeSnap.Tasks, k.Snapshot().Tasks)
	assert.Equal(t, beforeAudit, auditLen(t, ctx, k))
}

func TestImportSchemaViolationRejected(t *testing.T) {
	k, ctx := newTestKernel(t)

	_, err := k.CreateTask(ctx, TaskDraft{Title: "seed"})
	require.NoError(t, err)
	doc, err := k.ExportAll(ctx)
	require.NoError(t, err)

	doc.Tasks[0].Status = "paused" // not a known status
	data, err := portable.Encode(doc)
	require.NoError(t, err)

	_, err = k.ImportAll(ctx, data)
	assert.True(t, IsParse(err))
}

func TestImportTamperedHashWarnsButImports(t *testing.T) {
	k, ctx := newTestKernel(t)

	task, err := k.CreateTask(ctx, TaskDraft{Title: "original title"})
	require.NoError(t, err)
	doc, err := k.ExportAll(ctx)
	require.NoError(t, err)

	// Edit the entity without restamping: hash no longer matches.
	doc.Tasks[0].Title = "tampered title"
	data, err := portable.Encode(doc)
	require.NoError(t, err)

	res, err := k.ImportAll(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, []string{task.Meta.ID}, res.IntegrityWarnings)

	// Trusted with a warning: the tampered copy is what got imported.
	assert.Equal(t, "tampered title", k.Snapshot().Tasks[task.Meta.ID].Title)
	assert.Equal(t, "1", lastAudit(t, ctx, k).Details["integrityWarnings"])
}

func TestVerifyIntegrity(t *testing.T) {
	k, ctx := newTestKernel(t)

	clean, err := k.CreateTask(ctx, TaskDraft{Title: "clean"})
	require.NoError(t, err)
	dirty, err := k.CreateTask(ctx, TaskDraft{Title: "dirty"})
	require.NoError(t, err)

	issues, err := k.VerifyIntegrity(ctx)
	require.NoError(t, err)
	assert.Empty(t, issues)

	// Corrupt the stored copy behind the kernel's back.
	dirty.Title = "silently changed"
	require.NoError(t, k.store.PutTask(ctx, dirty))

	issues, err = k.VerifyIntegrity(ctx)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, dirty.Meta.ID, issues[0].ID)
	assert.Equal(t, entity.EntityTask, issues[0].EntityType)
	assert.NotEqual(t, clean.Meta.ID, issues[0].ID)

	// Verification is read-only.
	assert.Equal(t, entity.ActionTaskCreated, lastAudit(t, ctx, k).Action)
}
