package relay

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRunFailed is wrapped by the error returned from Run when at least
	// one task failed. Per-task causes are carried in the Summary.
	ErrRunFailed = errors.New("relay: flow run failed")

	// ErrOutputMissing is wrapped by a task failure when Run returned nil
	// but the declared output still does not exist.
	ErrOutputMissing = errors.New("relay: task finished without writing its output")

	// ErrDeclined is returned when a confirmation hook rejects a
	// destructive operation before any artifact was removed.
	ErrDeclined = errors.New("relay: operation declined")

	// ErrNoOutput is returned when an operation needs an output target but
	// the task's Output method returned nil.
	ErrNoOutput = errors.New("relay: task declares no output")
)

// CycleError reports a dependency cycle found while resolving the task
// graph. Path holds task ids in dependency order, first and last equal.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "relay: dependency cycle detected: " + strings.Join(e.Path, " -> ")
}

// TaskPanicError wraps a panic recovered from a task's Run method. The engine
// converts panics into ordinary task failures so one task cannot take down
// the whole process.
type TaskPanicError struct {
	TaskID string
	Value  any
	Stack  []byte
}

func (e *TaskPanicError) Error() string {
	return fmt.Sprintf("relay: panic in task %s: %v", e.TaskID, e.Value)
}
