package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relay-run/relay/internal/flowerr"
)

func TestWriteFileAtomicCreatesParents(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Train", "Train_ab12cd34ef", "model.json")

	require.NoError(t, WriteFileAtomic(path, []byte(`{"score":0.97}`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"score":0.97}`, string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExistsAndRemove(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "artifact.json")

	ok, err := Exists(path)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, WriteFileAtomic(path, []byte("x")))
	ok, err = Exists(path)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, RemoveFile(path))
	ok, err = Exists(path)
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing twice is fine.
	require.NoError(t, RemoveFile(path))
}

func TestExistsRejectsDirectories(t *testing.T) {
	root := t.TempDir()
	ok, err := Exists(root)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWorkspaceLayout(t *testing.T) {
	w := New(t.TempDir())

	path := w.ArtifactPath("Train", "Train_ab12cd34ef", "model.json")
	assert.Equal(t, filepath.Join(w.Root(), "Train", "Train_ab12cd34ef", "model.json"), path)
}

func TestFamiliesAndArtifacts(t *testing.T) {
	w := New(t.TempDir())

	require.NoError(t, WriteFileAtomic(w.ArtifactPath("Ingest", "Ingest_0011223344", "rows.csv"), []byte("a,b\n")))
	require.NoError(t, WriteFileAtomic(w.ArtifactPath("Train", "Train_ab12cd34ef", "model.json"), []byte("{}")))
	require.NoError(t, WriteFileAtomic(w.ArtifactPath("Train", "Train_ab12cd34ef", "metrics.json"), []byte("{}")))
	require.NoError(t, WriteFileAtomic(w.ArtifactPath("Train", "Train_ff00ff00ff", "model.json"), []byte("{}")))

	families, err := w.Families()
	require.NoError(t, err)
	require.Len(t, families, 2)

	assert.Equal(t, "Ingest", families[0].Name)
	assert.Equal(t, 1, families[0].Tasks)
	assert.Equal(t, 1, families[0].Artifacts)

	assert.Equal(t, "Train", families[1].Name)
	assert.Equal(t, 2, families[1].Tasks)
	assert.Equal(t, 3, families[1].Artifacts)
	assert.Greater(t, families[1].Bytes, int64(0))

	artifacts, err := w.Artifacts("Train")
	require.NoError(t, err)
	require.Len(t, artifacts, 3)
	assert.Equal(t, "metrics.json", artifacts[0].Name)
	assert.Equal(t, "model.json", artifacts[1].Name)
	assert.Equal(t, "Train_ff00ff00ff", artifacts[2].TaskID)

	missing, err := w.Artifacts("Nope")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestFamiliesSkipsInternalDir(t *testing.T) {
	w := New(t.TempDir())
	require.NoError(t, WriteFileAtomic(w.ArtifactPath("Train", "Train_ab12cd34ef", "model.json"), []byte("{}")))
	require.NoError(t, w.SaveRun(&RunRecord{ID: "r1", StartedAt: time.Now()}))

	families, err := w.Families()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "Train", families[0].Name)
}

func TestRemoveTaskPrunesEmptyFamily(t *testing.T) {
	w := New(t.TempDir())
	require.NoError(t, WriteFileAtomic(w.ArtifactPath("Train", "Train_ab12cd34ef", "model.json"), []byte("{}")))
	require.NoError(t, WriteFileAtomic(w.ArtifactPath("Train", "Train_ab12cd34ef", "metrics.json"), []byte("{}")))

	removed, err := w.RemoveTask("Train", "Train_ab12cd34ef")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = os.Stat(filepath.Join(w.Root(), "Train"))
	assert.True(t, os.IsNotExist(err))

	removed, err = w.RemoveTask("Train", "Train_ab12cd34ef")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRemoveFamily(t *testing.T) {
	w := New(t.TempDir())
	require.NoError(t, WriteFileAtomic(w.ArtifactPath("Train", "a", "x.json"), []byte("{}")))
	require.NoError(t, WriteFileAtomic(w.ArtifactPath("Train", "b", "y.json"), []byte("{}")))

	removed, err := w.RemoveFamily("Train")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	families, err := w.Families()
	require.NoError(t, err)
	assert.Empty(t, families)
}

func TestRunHistoryRoundTrip(t *testing.T) {
	w := New(t.TempDir())

	first := &RunRecord{
		ID:        NewRunID(time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)),
		StartedAt: time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC),
		Elapsed:   1500 * time.Millisecond,
		Workers:   2,
		Requested: []string{"Train_ab12cd34ef"},
		Success:   true,
		Completed: 3,
		UpToDate:  1,
		Tasks: []TaskRecord{
			{ID: "Train_ab12cd34ef", Family: "Train", Display: "Train(model=xgb)", Status: "done", Attempts: 1},
		},
	}
	second := &RunRecord{
		ID:        NewRunID(time.Date(2026, 8, 23, 11, 0, 0, 0, time.UTC)),
		StartedAt: time.Date(2026, 8, 23, 11, 0, 0, 0, time.UTC),
		Success:   false,
		Failed:    1,
	}

	require.NoError(t, w.SaveRun(first))
	require.NoError(t, w.SaveRun(second))

	runs, err := w.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	// Newest first.
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, first.ID, runs[1].ID)

	got, err := w.GetRun(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Requested, got.Requested)
	assert.Equal(t, 3, got.Completed)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "Train(model=xgb)", got.Tasks[0].Display)
}

func TestGetRunMissing(t *testing.T) {
	w := New(t.TempDir())

	_, err := w.GetRun("nope")
	require.Error(t, err)

	var flowErr *flowerr.FlowError
	require.ErrorAs(t, err, &flowErr)
	assert.Equal(t, flowerr.ErrorCategoryHistory, flowErr.Category)
}

func TestListRunsSkipsCorruptReports(t *testing.T) {
	w := New(t.TempDir())
	require.NoError(t, w.SaveRun(&RunRecord{ID: "good", StartedAt: time.Now()}))
	require.NoError(t, WriteFileAtomic(filepath.Join(w.Root(), ".relay", "runs", "bad.json"), []byte("{broken")))

	runs, err := w.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "good", runs[0].ID)
}

func TestNewRunIDIsSortableAndDistinct(t *testing.T) {
	ts := time.Date(2026, 8, 23, 12, 30, 45, 0, time.UTC)
	id := NewRunID(ts)
	assert.Contains(t, id, "20260823T123045Z-")

	seen := map[string]bool{}
	for i := 0; i < 32; i++ {
		seen[NewRunID(ts)] = true
	}
	assert.Greater(t, len(seen), 1)
}
