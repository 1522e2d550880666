package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relay-run/relay/internal/store"
)

func sampleRecord() *store.RunRecord {
	return &store.RunRecord{
		ID:        "20260823T101500Z-0a1",
		StartedAt: time.Date(2026, 8, 23, 10, 15, 0, 0, time.UTC),
		Elapsed:   1530 * time.Millisecond,
		Workers:   2,
		Requested: []string{"Train_1a2b3c4d5e"},
		UpToDate:  1,
		Completed: 1,
		Failed:    1,
		Skipped:   1,
		Tasks: []store.TaskRecord{
			{ID: "Ingest_a", Family: "Ingest", Display: "Ingest()", Status: "UP-TO-DATE"},
			{ID: "Featurize_b", Family: "Featurize", Display: "Featurize()", Status: "DONE", Attempts: 1, Elapsed: 40 * time.Millisecond},
			{ID: "Stats_c", Family: "Stats", Display: "Stats()", Status: "FAILED", Attempts: 2, Error: "task Stats() failed: boom\ngoroutine 1 [running]:"},
			{ID: "Train_d", Family: "Train", Display: "Train()", Status: "SKIPPED", Error: "skipped: upstream task Stats() failed"},
		},
	}
}

func TestRenderSummaryFailure(t *testing.T) {
	out := RenderSummary(sampleRecord())

	assert.Contains(t, out, "Execution Summary")
	assert.Contains(t, out, "20260823T101500Z-0a1")
	assert.Contains(t, out, "1.53s")
	assert.Contains(t, out, "Scheduled 4 task(s) of which:")
	assert.Contains(t, out, "1 already up to date")
	assert.Contains(t, out, "1 ran successfully")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "1 skipped because an upstream task failed")
	assert.Contains(t, out, "Failures")
	assert.Contains(t, out, "task Stats() failed: boom")
	assert.NotContains(t, out, "goroutine", "only the first error line is shown")
	assert.Contains(t, out, "The flow run FAILED")
}

func TestRenderSummarySuccess(t *testing.T) {
	rec := sampleRecord()
	rec.Success = true
	rec.Failed = 0
	rec.Skipped = 0
	rec.Completed = 3
	rec.Tasks[2].Status = "DONE"
	rec.Tasks[2].Error = ""
	rec.Tasks[3].Status = "DONE"
	rec.Tasks[3].Error = ""

	out := RenderSummary(rec)
	assert.Contains(t, out, "The flow run succeeded")
	assert.NotContains(t, out, "Failures")
}

func TestRenderSummaryCollapsesLongLists(t *testing.T) {
	rec := &store.RunRecord{ID: "r", Workers: 1, Success: true}
	for i := 0; i < 12; i++ {
		rec.Completed++
		rec.Tasks = append(rec.Tasks, store.TaskRecord{
			ID:      string(rune('a' + i)),
			Display: "Task" + string(rune('A'+i)) + "()",
			Status:  "DONE",
		})
	}

	out := RenderSummary(rec)
	assert.Contains(t, out, "12 ran successfully")
	assert.Contains(t, out, "and 4 more")
	assert.NotContains(t, out, "TaskL()")
}

func TestRenderTree(t *testing.T) {
	roots := []*TreeNode{{
		Display: "Train()",
		Status:  "PENDING",
		Children: []*TreeNode{
			{
				Display:  "Featurize()",
				Status:   "PENDING",
				Children: []*TreeNode{{Display: "Ingest()", Status: "COMPLETE"}},
			},
			{Display: "Stats()", Status: "PENDING"},
		},
	}}

	out := RenderTree(roots)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Train() [PENDING]", lines[0])
	assert.Equal(t, "├─ Featurize() [PENDING]", lines[1])
	assert.Equal(t, "│  └─ Ingest() [COMPLETE]", lines[2])
	assert.Equal(t, "└─ Stats() [PENDING]", lines[3])
}

func TestRenderTreeClipped(t *testing.T) {
	out := RenderTree([]*TreeNode{{Display: "Train()", Status: "PENDING", Clipped: true}})
	assert.Contains(t, out, "└─ ...")
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "1.53s", FormatElapsed(1530*time.Millisecond))
	assert.Equal(t, "250ms", FormatElapsed(250*time.Millisecond))
	assert.Equal(t, "0s", FormatElapsed(0))
	assert.Equal(t, "750µs", FormatElapsed(750*time.Microsecond))
}
