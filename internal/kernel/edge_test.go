package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lodestone/internal/entity"
)

func TestAddEdge(t *testing.T) {
	k, ctx := newTestKernel(t)

	a, err := k.CreateTask(ctx, TaskDraft{Title: "a"})
	require.NoError(t, err)
	b, err := k.CreateTask(ctx, TaskDraft{Title: "b"})
	require.NoError(t, err)

	edge, err := k.AddEdge(ctx, a.Meta.ID, b.Meta.ID, entity.EdgeDependsOn)
	require.NoError(t, err)

	assert.NotEmpty(t, edge.ID)
	assert.Equal(t, a.Meta.ID, edge.Source)
	assert.Equal(t, b.Meta.ID, edge.Target)

	entry := lastAudit(t, ctx, k)
	assert.Equal(t, entity.ActionEdgeAdded, entry.Action)
	assert.Equal(t, string(entity.EdgeDependsOn), entry.Details["type"])
}

func TestAddEdgeAllowsDanglingAndParallel(t *testing.T) {
	k, ctx := newTestKernel(t)

	// Endpoints need not exist, and the same pair may be linked twice.
	first, err := k.AddEdge(ctx, "ghost-1", "ghost-2", entity.EdgeRelatedTo)
	require.NoError(t, err)
	second, err := k.AddEdge(ctx, "ghost-1", "ghost-2", entity.EdgeRelatedTo)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, k.Snapshot().Edges, 2)
}

func TestAddEdgeValidation(t *testing.T) {
	k, ctx := newTestKernel(t)

	_, err := k.AddEdge(ctx, "", "t", entity.EdgeBlocks)
	assert.True(t, IsValidation(err))
	_, err = k.AddEdge(ctx, "s", "", entity.EdgeBlocks)
	assert.True(t, IsValidation(err))
	_, err = k.AddEdge(ctx, "s", "t", "points_at")
	assert.True(t, IsValidation(err))
}

func TestRemoveEdge(t *testing.T) {
	k, ctx := newTestKernel(t)

	edge, err := k.AddEdge(ctx, "s", "t", entity.EdgeScheduledAfter)
	require.NoError(t, err)
	require.NoError(t, k.RemoveEdge(ctx, edge.ID))

	assert.Empty(t, k.Snapshot().Edges)
	entry := lastAudit(t, ctx, k)
	assert.Equal(t, entity.ActionEdgeRemoved, entry.Action)
	assert.Equal(t, "s", entry.Details["source"])

	assert.True(t, IsNotFound(k.RemoveEdge(ctx, edge.ID)))
}
