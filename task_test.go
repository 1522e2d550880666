package relay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// typedFixture exercises the reflected family name fallback.
type typedFixture struct{}

func (typedFixture) Run(ctx context.Context) error { return nil }
func (typedFixture) Output() Target                { return nil }

type namedFixture struct{ name string }

func (f *namedFixture) Run(ctx context.Context) error { return nil }
func (f *namedFixture) Output() Target                { return nil }
func (f *namedFixture) Family() string                { return f.name }

func TestFamilyOfUsesTypeName(t *testing.T) {
	assert.Equal(t, "typedFixture", FamilyOf(typedFixture{}))
	assert.Equal(t, "typedFixture", FamilyOf(&typedFixture{}))
}

func TestFamilyOfPrefersNamed(t *testing.T) {
	assert.Equal(t, "Ingest", FamilyOf(&namedFixture{name: "Ingest"}))
	assert.Equal(t, "namedFixture", FamilyOf(&namedFixture{}), "empty override falls back to the type name")
}

func TestIDOfIsParamKeyed(t *testing.T) {
	a := &stubTask{name: "Train", params: Params{"model": "xgboost"}}
	b := &stubTask{name: "Train", params: Params{"model": "xgboost"}}
	c := &stubTask{name: "Train", params: Params{"model": "lightgbm"}}

	assert.Equal(t, IDOf(a), IDOf(b), "equal family and params share one id")
	assert.NotEqual(t, IDOf(a), IDOf(c))
	assert.Contains(t, IDOf(a), "Train_")
	assert.Len(t, IDOf(a), len("Train_")+10)
}

func TestDisplayOf(t *testing.T) {
	task := &stubTask{name: "Train", params: Params{"model": "xgboost", "epochs": 20}}
	assert.Equal(t, "Train(epochs=20, model=xgboost)", DisplayOf(task))
	assert.Equal(t, "Ingest()", DisplayOf(&stubTask{name: "Ingest"}))
}

func TestCompleteRequiresAnOutput(t *testing.T) {
	_, err := Complete(context.Background(), typedFixture{})
	require.ErrorIs(t, err, ErrNoOutput)
}

func TestCompleteReflectsArtifact(t *testing.T) {
	setupWorkspace(t)
	task := &stubTask{name: "Ingest"}

	done, err := Complete(context.Background(), task)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, task.Output().(*JSONTarget).Save(context.Background(), map[string]int{"rows": 3}))

	done, err = Complete(context.Background(), task)
	require.NoError(t, err)
	assert.True(t, done)
}
