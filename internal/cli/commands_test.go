package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addTask creates a task through the CLI and returns its id, parsed from
// the "created <id>  <title>" line.
func addTask(t *testing.T, db string, args ...string) string {
	t.Helper()
	out, _, err := execCommand(t, db, append([]string{"add"}, args...)...)
	require.NoError(t, err)
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 2, "unexpected add output: %q", out)
	return fields[1]
}

func TestAddAndList(t *testing.T) {
	db := testDB(t)
	addTask(t, db, "Buy milk", "--importance", "someday")
	addTask(t, db, "Write report", "--energy", "high", "--tag", "work")

	out, _, err := execCommand(t, db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "Write report")

	out, _, err = execCommand(t, db, "list", "--tag", "work")
	require.NoError(t, err)
	assert.NotContains(t, out, "Buy milk")
	assert.Contains(t, out, "Write report")
}

func TestListStatusFilter(t *testing.T) {
	db := testDB(t)
	id := addTask(t, db, "done soon")
	addTask(t, db, "still open")

	_, _, err := execCommand(t, db, "complete", id)
	require.NoError(t, err)

	out, _, err := execCommand(t, db, "list", "--status", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "done soon")
	assert.NotContains(t, out, "still open")

	_, _, err = execCommand(t, db, "list", "--status", "bogus")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestShowTask(t *testing.T) {
	db := testDB(t)
	id := addTask(t, db, "Pack for trip", "--step", "passport", "--step", "socks", "--due", "2026-09-01")

	out, _, err := execCommand(t, db, "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Pack for trip")
	assert.Contains(t, out, "passport")
	assert.Contains(t, out, "2026-09-01")
	assert.Contains(t, out, "hash:")

	_, _, err = execCommand(t, db, "show", "missing-id")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestUpdateTask(t *testing.T) {
	db := testDB(t)
	id := addTask(t, db, "draft title")

	out, _, err := execCommand(t, db, "update", id, "--title", "final title", "--energy", "high")
	require.NoError(t, err)
	assert.Contains(t, out, "final title")

	out, _, err = execCommand(t, db, "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "final title")
	assert.Contains(t, out, "high")
}

func TestCompleteAndDefer(t *testing.T) {
	db := testDB(t)
	id := addTask(t, db, "finish me")

	out, _, err := execCommand(t, db, "complete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "completed")

	// Completed tasks cannot be deferred: operation failure, exit 1.
	out, _, err = execCommand(t, db, "defer", id)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "VALIDATION")
}

func TestRemoveTaskCascades(t *testing.T) {
	db := testDB(t)
	a := addTask(t, db, "upstream")
	b := addTask(t, db, "downstream")

	out, _, err := execCommand(t, db, "link", a, b, "--type", "blocks")
	require.NoError(t, err)
	assert.Contains(t, out, "blocks")

	_, _, err = execCommand(t, db, "rm", a)
	require.NoError(t, err)

	out, _, err = execCommand(t, db, "show", b)
	require.NoError(t, err)
	assert.NotContains(t, out, "edges:", "cascade should have removed the edge")
}

func TestUnlinkMissingEdge(t *testing.T) {
	db := testDB(t)
	out, _, err := execCommand(t, db, "unlink", "no-such-edge")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "NOT_FOUND")
}

func TestRoutineLifecycle(t *testing.T) {
	db := testDB(t)

	out, _, err := execCommand(t, db, "routine", "add", "Morning pages", "--time", "morning")
	require.NoError(t, err)
	id := strings.Fields(out)[2]

	out, _, err = execCommand(t, db, "routine", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Morning pages")
	assert.Contains(t, out, "morning")

	_, _, err = execCommand(t, db, "routine", "rm", id)
	require.NoError(t, err)

	out, _, err = execCommand(t, db, "routine", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Morning pages")
}

func TestPrefsSetAndGet(t *testing.T) {
	db := testDB(t)

	_, _, err := execCommand(t, db, "prefs", "set", "--theme", "dark", "--max-visible", "7")
	require.NoError(t, err)

	out, _, err := execCommand(t, db, "prefs", "get")
	require.NoError(t, err)
	assert.Contains(t, out, "dark")
	assert.Contains(t, out, "7")

	out, _, err = execCommand(t, db, "prefs", "set", "--max-visible", "50")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "VALIDATION")
}

func TestAuditCommand(t *testing.T) {
	db := testDB(t)
	id := addTask(t, db, "tracked")
	_, _, err := execCommand(t, db, "complete", id)
	require.NoError(t, err)

	out, _, err := execCommand(t, db, "audit")
	require.NoError(t, err)
	assert.Contains(t, out, "task_created")
	assert.Contains(t, out, "task_completed")

	out, _, err = execCommand(t, db, "audit", "--limit", "1")
	require.NoError(t, err)
	assert.NotContains(t, out, "task_created")
	assert.Contains(t, out, "task_completed")
}

func TestExportImportRoundTrip(t *testing.T) {
	db := testDB(t)
	id := addTask(t, db, "survives the round trip")

	file := filepath.Join(t.TempDir(), "backup")
	out, _, err := execCommand(t, db, "export", file)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 1 tasks")
	_, statErr := os.Stat(file + ".lds.json")
	require.NoError(t, statErr)

	// Diverge, then restore from the snapshot.
	_, _, err = execCommand(t, db, "rm", id)
	require.NoError(t, err)

	out, _, err = execCommand(t, db, "import", file+".lds.json")
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 tasks")

	out, _, err = execCommand(t, db, "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "survives the round trip")
}

func TestImportMalformedFile(t *testing.T) {
	db := testDB(t)
	bad := filepath.Join(t.TempDir(), "bad.lds.json")
	require.NoError(t, os.WriteFile(bad, []byte("not a document"), 0o644))

	out, _, err := execCommand(t, db, "import", bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "PARSE")
}

func TestVerifyCleanDatabase(t *testing.T) {
	db := testDB(t)
	addTask(t, db, "intact")

	out, _, err := execCommand(t, db, "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
}

func TestSeedCommand(t *testing.T) {
	db := testDB(t)

	out, _, err := execCommand(t, db, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded")

	out, _, err = execCommand(t, db, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to do")
}

func TestJSONOutputEnvelope(t *testing.T) {
	db := testDB(t)

	out, _, err := execCommand(t, db, "--format", "json", "add", "machine readable")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "machine readable", data["title"])
}

func TestJSONErrorEnvelope(t *testing.T) {
	db := testDB(t)

	out, _, err := execCommand(t, db, "--format", "json", "complete", "ghost")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}
