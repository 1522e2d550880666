package relay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeDiamond(t *testing.T) (ingest, featurize, stats, train *stubTask) {
	t.Helper()
	ingest, featurize, stats, train = diamond()
	_, err := RunTask(context.Background(), train)
	require.NoError(t, err)
	return ingest, featurize, stats, train
}

func assertComplete(t *testing.T, task Task, want bool) {
	t.Helper()
	done, err := Complete(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, want, done, "completeness of %s", DisplayOf(task))
}

func TestResetRemovesOnlyTheTask(t *testing.T) {
	setupWorkspace(t)
	ingest, featurize, _, train := completeDiamond(t)

	require.NoError(t, Reset(context.Background(), featurize))

	assertComplete(t, featurize, false)
	assertComplete(t, ingest, true)
	assertComplete(t, train, true)
}

func TestResetIncompleteTaskIsNoOp(t *testing.T) {
	setupWorkspace(t)
	task := &stubTask{name: "Fresh"}
	assert.NoError(t, Reset(context.Background(), task))
}

func TestResetConfirmVeto(t *testing.T) {
	setupWorkspace(t)
	_, featurize, _, _ := completeDiamond(t)

	err := Reset(context.Background(), featurize, WithConfirm(func([]string) bool { return false }))
	require.ErrorIs(t, err, ErrDeclined)
	assertComplete(t, featurize, true)
}

func TestInvalidateDownstream(t *testing.T) {
	setupWorkspace(t)
	ingest, featurize, stats, train := completeDiamond(t)

	ids, err := InvalidateDownstream(context.Background(), featurize, train)
	require.NoError(t, err)
	assert.Equal(t, []string{IDOf(featurize), IDOf(train)}, ids)

	assertComplete(t, featurize, false)
	assertComplete(t, train, false)
	assertComplete(t, ingest, true)
	assertComplete(t, stats, true)
}

func TestInvalidateDownstreamNeedsAnchor(t *testing.T) {
	setupWorkspace(t)
	_, featurize, _, _ := completeDiamond(t)

	_, err := InvalidateDownstream(context.Background(), featurize, nil)
	assert.Error(t, err)
}

func TestInvalidateDownstreamTaskOutsideFlow(t *testing.T) {
	setupWorkspace(t)
	_, _, _, train := completeDiamond(t)
	stranger := &stubTask{name: "Stranger"}

	_, err := InvalidateDownstream(context.Background(), stranger, train)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not upstream of")
}

func TestInvalidateUpstream(t *testing.T) {
	setupWorkspace(t)
	ingest, featurize, stats, train := completeDiamond(t)

	ids, err := InvalidateUpstream(context.Background(), featurize)
	require.NoError(t, err)
	assert.Equal(t, []string{IDOf(ingest), IDOf(featurize)}, ids)

	assertComplete(t, ingest, false)
	assertComplete(t, featurize, false)
	assertComplete(t, stats, true)
	assertComplete(t, train, true)
}

func TestInvalidateDryRun(t *testing.T) {
	setupWorkspace(t)
	_, featurize, _, train := completeDiamond(t)

	ids, err := InvalidateDownstream(context.Background(), featurize, train, WithDryRun())
	require.NoError(t, err)
	assert.Equal(t, []string{IDOf(featurize), IDOf(train)}, ids)

	assertComplete(t, featurize, true)
	assertComplete(t, train, true)
}

func TestInvalidateConfirmSeesDisplays(t *testing.T) {
	setupWorkspace(t)
	_, featurize, _, train := completeDiamond(t)

	var asked []string
	_, err := InvalidateDownstream(context.Background(), featurize, train,
		WithConfirm(func(tasks []string) bool {
			asked = tasks
			return true
		}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Featurize()", "Train()"}, asked)
	assertComplete(t, featurize, false)
}

func TestInvalidateSkipsIncompleteTasks(t *testing.T) {
	setupWorkspace(t)
	ingest, featurize, _, train := completeDiamond(t)
	require.NoError(t, Reset(context.Background(), featurize))

	ids, err := InvalidateUpstream(context.Background(), train)
	require.NoError(t, err)
	assert.NotContains(t, ids, IDOf(featurize), "already incomplete tasks are not re-listed")
	assert.Contains(t, ids, IDOf(ingest))
	assert.Contains(t, ids, IDOf(train))
}
