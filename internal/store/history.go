package store

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/relay-run/relay/internal/flowerr"
)

// RunRecord is the persisted report of one engine run.
type RunRecord struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`
	Workers   int           `json:"workers"`
	Requested []string      `json:"requested"`
	Success   bool          `json:"success"`

	UpToDate  int `json:"up_to_date"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`

	Tasks []TaskRecord `json:"tasks"`
}

// TaskRecord is the per-task slice of a run report.
type TaskRecord struct {
	ID       string        `json:"id"`
	Family   string        `json:"family"`
	Display  string        `json:"display"`
	Status   string        `json:"status"`
	Attempts int           `json:"attempts,omitempty"`
	Elapsed  time.Duration `json:"elapsed,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// NewRunID builds a sortable run identifier from the start time plus a
// short random suffix to keep same-second runs distinct.
func NewRunID(started time.Time) string {
	return fmt.Sprintf("%s-%03x", started.UTC().Format("20060102T150405Z"), rand.Intn(0xFFF))
}

func (w *Workspace) runsDir() string {
	return filepath.Join(w.root, internalDir, "runs")
}

func (w *Workspace) runPath(id string) string {
	return filepath.Join(w.runsDir(), id+".json")
}

// SaveRun persists a run report under .relay/runs.
func (w *Workspace) SaveRun(rec *RunRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run report: %w", err)
	}
	if err := WriteFileAtomic(w.runPath(rec.ID), data); err != nil {
		return flowerr.NewStoreWriteError(w.runPath(rec.ID), err)
	}
	return nil
}

// ListRuns returns the recorded runs, newest first. Files that do not
// parse as run reports are skipped.
func (w *Workspace) ListRuns() ([]*RunRecord, error) {
	entries, err := os.ReadDir(w.runsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading run history: %w", err)
	}

	var runs []*RunRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(w.runsDir(), entry.Name()))
		if err != nil {
			return nil, flowerr.NewStoreReadError(filepath.Join(w.runsDir(), entry.Name()), err)
		}
		var rec RunRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		runs = append(runs, &rec)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}

// GetRun loads one run report by id.
func (w *Workspace) GetRun(id string) (*RunRecord, error) {
	data, err := os.ReadFile(w.runPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, flowerr.NewHistoryNotFoundError(id)
		}
		return nil, flowerr.NewStoreReadError(w.runPath(id), err)
	}

	var rec RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parsing run report %s: %w", id, err)
	}
	return &rec, nil
}
