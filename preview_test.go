package relay

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewMarksPendingAndComplete(t *testing.T) {
	setupWorkspace(t)
	ingest, _, _, train := diamond()

	out, err := PreviewTask(context.Background(), train)
	require.NoError(t, err)
	assert.Contains(t, out, "Train() [PENDING]")
	assert.Contains(t, out, "Ingest() [PENDING]")

	_, err = RunTask(context.Background(), ingest)
	require.NoError(t, err)

	out, err = PreviewTask(context.Background(), train)
	require.NoError(t, err)
	assert.Contains(t, out, "Train() [PENDING]")
	assert.Contains(t, out, "Ingest() [COMPLETE]")
}

func TestPreviewShape(t *testing.T) {
	setupWorkspace(t)
	_, _, _, train := diamond()

	out, err := PreviewTask(context.Background(), train)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5, "diamond renders the shared dependency under both branches")
	assert.Equal(t, "Train() [PENDING]", lines[0])
	assert.Equal(t, "├─ Featurize() [PENDING]", lines[1])
	assert.Equal(t, "│  └─ Ingest() [PENDING]", lines[2])
	assert.Equal(t, "└─ Stats() [PENDING]", lines[3])
	assert.Equal(t, "   └─ Ingest() [PENDING]", lines[4])
}

func TestPreviewMaxDepthClipsBranches(t *testing.T) {
	setupWorkspace(t)
	_, _, _, train := diamond()

	out, err := PreviewTask(context.Background(), train, WithMaxDepth(1))
	require.NoError(t, err)
	assert.Contains(t, out, "Train() [PENDING]")
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, "Featurize")

	out, err = PreviewTask(context.Background(), train, WithMaxDepth(2))
	require.NoError(t, err)
	assert.Contains(t, out, "Featurize")
	assert.NotContains(t, out, "Ingest")
}

func TestPreviewMultipleRoots(t *testing.T) {
	setupWorkspace(t)
	a := &stubTask{name: "Alpha"}
	b := &stubTask{name: "Beta"}

	out, err := Preview(context.Background(), []Task{a, b})
	require.NoError(t, err)
	assert.Contains(t, out, "Alpha() [PENDING]")
	assert.Contains(t, out, "Beta() [PENDING]")
}

func TestPreviewParamsInDisplay(t *testing.T) {
	setupWorkspace(t)
	task := &stubTask{name: "Train", params: Params{"model": "xgboost"}}

	out, err := PreviewTask(context.Background(), task)
	require.NoError(t, err)
	assert.Contains(t, out, "Train(model=xgboost) [PENDING]")
}

func TestPreviewDetectsCycles(t *testing.T) {
	setupWorkspace(t)
	a := &stubTask{name: "Alpha"}
	b := &stubTask{name: "Beta", deps: []Task{a}}
	a.deps = []Task{b}

	_, err := PreviewTask(context.Background(), a)
	var ce *CycleError
	require.ErrorAs(t, err, &ce)
}
