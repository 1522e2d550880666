package relay

import (
	"errors"
	"time"

	"github.com/relay-run/relay/internal/store"
)

// Status classifies a task's outcome within one run.
type Status int

const (
	// StatusPending marks a task that has not run yet. Previews use it
	// for incomplete tasks; a finished run never reports it.
	StatusPending Status = iota

	// StatusUpToDate marks a task whose output already existed, so it was
	// not run.
	StatusUpToDate

	// StatusDone marks a task that ran and wrote its output.
	StatusDone

	// StatusFailed marks a task whose Run returned an error, panicked, or
	// finished without its output existing.
	StatusFailed

	// StatusSkipped marks a task that was not attempted because something
	// upstream of it failed.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusUpToDate:
		return "UP-TO-DATE"
	case StatusDone:
		return "DONE"
	case StatusFailed:
		return "FAILED"
	case StatusSkipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// TaskResult is the outcome of one task within a run.
type TaskResult struct {
	ID        string
	Family    string
	Display   string
	Status    Status
	Attempts  int
	StartedAt time.Time
	Elapsed   time.Duration

	// Err is the failure cause for StatusFailed, or the upstream
	// explanation for StatusSkipped.
	Err error
}

// Summary is the aggregate outcome of one Run call.
type Summary struct {
	RunID     string
	StartedAt time.Time
	Elapsed   time.Duration
	Workers   int
	Requested []string

	results map[string]*TaskResult
	order   []string
}

// Results lists every task outcome in dependency order.
func (s *Summary) Results() []*TaskResult {
	out := make([]*TaskResult, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.results[id])
	}
	return out
}

// Result returns the outcome for one task id.
func (s *Summary) Result(id string) (*TaskResult, bool) {
	r, ok := s.results[id]
	return r, ok
}

// Count returns how many tasks finished with the given status.
func (s *Summary) Count(status Status) int {
	n := 0
	for _, r := range s.results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Failed lists the failed task outcomes in dependency order.
func (s *Summary) Failed() []*TaskResult {
	var out []*TaskResult
	for _, id := range s.order {
		if r := s.results[id]; r.Status == StatusFailed {
			out = append(out, r)
		}
	}
	return out
}

// OK reports whether the run finished with no failed and no skipped
// tasks.
func (s *Summary) OK() bool {
	return s.Count(StatusFailed) == 0 && s.Count(StatusSkipped) == 0
}

// record projects the summary into its persisted form. Panic stacks are
// folded into the error text so run history keeps the full trace.
func (s *Summary) record() *store.RunRecord {
	rec := &store.RunRecord{
		ID:        s.RunID,
		StartedAt: s.StartedAt,
		Elapsed:   s.Elapsed,
		Workers:   s.Workers,
		Requested: append([]string(nil), s.Requested...),
		Success:   s.OK(),
		UpToDate:  s.Count(StatusUpToDate),
		Completed: s.Count(StatusDone),
		Failed:    s.Count(StatusFailed),
		Skipped:   s.Count(StatusSkipped),
	}
	for _, r := range s.Results() {
		tr := store.TaskRecord{
			ID:       r.ID,
			Family:   r.Family,
			Display:  r.Display,
			Status:   r.Status.String(),
			Attempts: r.Attempts,
			Elapsed:  r.Elapsed,
		}
		if r.Err != nil {
			tr.Error = r.Err.Error()
			var pe *TaskPanicError
			if errors.As(r.Err, &pe) && len(pe.Stack) > 0 {
				tr.Error += "\n" + string(pe.Stack)
			}
		}
		rec.Tasks = append(rec.Tasks, tr)
	}
	return rec
}
