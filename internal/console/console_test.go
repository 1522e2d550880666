package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxRenderContainsContent(t *testing.T) {
	out := NewBox(SuccessMessage, "Run complete").
		AddLine("4 tasks executed").
		AddBullet("Train_ab12cd34ef").
		AddKeyValue("Elapsed", "1.2s").
		Render()

	assert.Contains(t, out, "Run complete")
	assert.Contains(t, out, "4 tasks executed")
	assert.Contains(t, out, "• Train_ab12cd34ef")
	assert.Contains(t, out, "Elapsed: 1.2s")
	assert.Contains(t, out, topLeft)
	assert.Contains(t, out, bottomRight)
}

func TestBoxConvenienceHelpers(t *testing.T) {
	assert.Contains(t, Info("heads up"), "heads up")
	assert.Contains(t, Warning("careful"), "careful")
	assert.Contains(t, Error("broken"), "broken")
	assert.Contains(t, Question("sure?"), "sure?")
	assert.Contains(t, Success("done"), "done")
}

func TestTableAlignment(t *testing.T) {
	table := NewTable("FAMILY", "ARTIFACTS")
	table.AddRow("Ingest", "1")
	table.AddRow("Featurize", "2")
	// Wrong arity rows are dropped.
	table.AddRow("orphan")

	assert.Equal(t, 2, table.Len())

	out := table.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	for _, line := range lines[1:] {
		assert.Equal(t, len([]rune(lines[1])), len([]rune(line)))
	}
	assert.Contains(t, out, "FAMILY")
	assert.Contains(t, out, "Featurize")
}

func TestConfirmAutoApprove(t *testing.T) {
	ok, err := Confirm(strings.NewReader(""), true, "remove artifacts", "Train")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConfirmReadsAnswer(t *testing.T) {
	ok, err := Confirm(strings.NewReader("yes\n"), false, "remove artifacts", "Train")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Confirm(strings.NewReader("no\n"), false, "remove artifacts", "Train")
	require.NoError(t, err)
	assert.False(t, ok)

	// EOF without input counts as a decline.
	ok, err = Confirm(strings.NewReader(""), false, "remove artifacts", "Train")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirmItems(t *testing.T) {
	ok, err := ConfirmItems(strings.NewReader("y\n"), false, "invalidate", []string{"a", "b"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReportBuilder(t *testing.T) {
	report := NewReportBuilder().
		WithSeparator("-").
		WithWidth(10).
		Header("Execution Summary").
		Section("Completed").
		AddBullet("Ingest_0011223344").
		AddKeyValue("Elapsed", "430ms").
		AddNumbered(1, "first").
		AddIndented("nested", 2).
		AddEmptyLine().
		AddSeparator().
		Build()

	assert.Contains(t, report, "Execution Summary\n----------")
	assert.Contains(t, report, "\nCompleted")
	assert.Contains(t, report, "• Ingest_0011223344")
	assert.Contains(t, report, "Elapsed: 430ms")
	assert.Contains(t, report, "1. first")
	assert.Contains(t, report, "    nested")
}
