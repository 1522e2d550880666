package relay

import (
	"context"
	"reflect"
)

// Task is one unit of work in a flow. Run produces the artifact that
// Output points at; the engine never calls Run when that artifact already
// exists.
//
// Tasks opt into richer behavior by implementing the small optional
// interfaces below. A bare Task has no dependencies, no params, one
// retry-free attempt and default priority.
type Task interface {
	// Run computes the task's output. It must write the artifact behind
	// Output before returning nil.
	Run(ctx context.Context) error

	// Output returns the target whose existence marks the task complete.
	Output() Target
}

// Requirer declares upstream tasks that must be complete before Run is
// called.
type Requirer interface {
	Requires() []Task
}

// Parameterized exposes the parameter values that shape this task
// instance's identity.
type Parameterized interface {
	Params() Params
}

// Named overrides the task family, which otherwise defaults to the Go
// type name.
type Named interface {
	Family() string
}

// Retryable asks the engine to re-run a failed attempt up to Retries
// additional times before recording the failure.
type Retryable interface {
	Retries() int
}

// Prioritized biases scheduling among tasks that are ready at the same
// time. Higher runs earlier.
type Prioritized interface {
	Priority() int
}

// FamilyOf returns the task's family name, either from Named or derived
// from the concrete type.
func FamilyOf(t Task) string {
	if n, ok := t.(Named); ok {
		if name := n.Family(); name != "" {
			return name
		}
	}
	rt := reflect.TypeOf(t)
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil || rt.Name() == "" {
		return "Task"
	}
	return rt.Name()
}

// ParamsOf returns the task's params, never nil.
func ParamsOf(t Task) Params {
	if p, ok := t.(Parameterized); ok && p.Params() != nil {
		return p.Params()
	}
	return Params{}
}

// IDOf returns the task id, "<family>_<digest>". Tasks of one family with
// equal params map to the same id and share artifacts.
func IDOf(t Task) string {
	return FamilyOf(t) + "_" + ParamsOf(t).Hash()
}

// DisplayOf returns a human readable "<family>(<params>)" form used in
// previews, logs and summaries.
func DisplayOf(t Task) string {
	return FamilyOf(t) + "(" + ParamsOf(t).String() + ")"
}

// Complete reports whether the task's output artifact exists.
func Complete(ctx context.Context, t Task) (bool, error) {
	out := t.Output()
	if out == nil {
		return false, ErrNoOutput
	}
	return out.Exists(ctx)
}

func requiresOf(t Task) []Task {
	if r, ok := t.(Requirer); ok {
		return r.Requires()
	}
	return nil
}

func retriesOf(t Task) int {
	if r, ok := t.(Retryable); ok && r.Retries() > 0 {
		return r.Retries()
	}
	return 0
}

func priorityOf(t Task) int {
	if p, ok := t.(Prioritized); ok {
		return p.Priority()
	}
	return 0
}
