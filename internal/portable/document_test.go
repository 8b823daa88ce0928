package portable

import (
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lodestone/internal/entity"
)

// fixtureDocument builds a small fixed document. The task hash is real:
// StampTask recomputes it, so the golden file also pins the hash rule.
func fixtureDocument(t *testing.T) *Document {
	t.Helper()
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	task := entity.Task{
		Meta: entity.Meta{
			SchemaVersion: entity.SchemaVersion,
			EntityType:    entity.EntityTask,
			ID:            "task-1",
			CreatedAt:     at,
			UpdatedAt:     at,
		},
		Title:      "Water the plants",
		Status:     entity.StatusPending,
		Energy:     entity.EnergyLow,
		Importance: entity.ImportanceOptional,
		MicroSteps: []entity.MicroStep{},
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	require.NoError(t, entity.StampTask(&task))

	return &Document{
		Version: Version,
		Tasks:   []entity.Task{task},
		Edges: []entity.Edge{
			{ID: "edge-1", Source: "task-1", Target: "task-2", Type: entity.EdgeBlocks},
		},
		Routines: []entity.Routine{},
		Audit: []entity.AuditEntry{
			{
				ID:         "audit-1",
				Timestamp:  at.Add(time.Second),
				Action:     entity.ActionTaskCreated,
				EntityType: entity.EntityTask,
				EntityID:   "task-1",
				Details:    map[string]string{"title": "Water the plants"},
			},
		},
	}
}

func TestEncodeGolden(t *testing.T) {
	data, err := Encode(fixtureDocument(t))
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "export_document", data)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc := fixtureDocument(t)
	data, err := Encode(doc)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, doc.Version, got.Version)
	assert.Equal(t, doc.Tasks, got.Tasks)
	assert.Equal(t, doc.Edges, got.Edges)
	assert.Equal(t, doc.Audit, got.Audit)
	assert.Nil(t, got.Preferences)
}

func TestEncodeNeverEmitsNullCollections(t *testing.T) {
	data, err := Encode(&Document{Version: Version})
	require.NoError(t, err)

	assert.Contains(t, string(data), `"tasks": []`)
	assert.Contains(t, string(data), `"edges": []`)
	assert.Contains(t, string(data), `"routines": []`)
	assert.Contains(t, string(data), `"audit": []`)
	assert.Contains(t, string(data), `"preferences": null`)
}

func TestEncodeDoesNotEscapeHTML(t *testing.T) {
	doc := fixtureDocument(t)
	doc.Tasks[0].Description = `fish & chips <tonight>`
	data, err := Encode(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fish & chips <tonight>")
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	_, err := Decode([]byte(`{"version":"1","tasks":[],"edges":[],"routines":[],"audit":[],"preferences":null} 42`))
	assert.Error(t, err)
}

func TestDecodeToleratesMissingOptionalFields(t *testing.T) {
	doc, err := Decode([]byte(`{"version":"1","tasks":[],"edges":[],"routines":[]}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Audit)
	assert.Nil(t, doc.Preferences)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "backup"+FileExtension, Filename("backup"))
	assert.Equal(t, "backup"+FileExtension, Filename("backup"+FileExtension))
}
