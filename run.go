package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/relay-run/relay/internal/logger"
	"github.com/relay-run/relay/internal/report"
	"github.com/relay-run/relay/internal/store"
)

// runConfig collects per-call Run options on top of the global settings.
type runConfig struct {
	workers       int
	taskTimeout   time.Duration
	force         []Task
	forceAll      bool
	forceUpstream bool
	confirm       func(tasks []string) bool
	quiet         bool
}

// RunOption adjusts a single Run call.
type RunOption func(*runConfig)

// WithWorkers overrides the number of concurrent task slots for this run.
func WithWorkers(n int) RunOption {
	return func(cfg *runConfig) {
		if n > 0 {
			cfg.workers = n
		}
	}
}

// WithTaskTimeout bounds each task attempt. Zero means no limit.
func WithTaskTimeout(d time.Duration) RunOption {
	return func(cfg *runConfig) { cfg.taskTimeout = d }
}

// WithForce invalidates the given tasks and everything downstream of them
// inside the resolved graph before planning, so they run again.
func WithForce(tasks ...Task) RunOption {
	return func(cfg *runConfig) { cfg.force = append(cfg.force, tasks...) }
}

// WithForceAll invalidates every task in the resolved graph before
// planning.
func WithForceAll() RunOption {
	return func(cfg *runConfig) { cfg.forceAll = true }
}

// WithForceUpstream widens forcing to the upstream closure of the forced
// tasks, or of the requested tasks when nothing is forced explicitly.
func WithForceUpstream() RunOption {
	return func(cfg *runConfig) { cfg.forceUpstream = true }
}

// WithForceConfirm installs a hook consulted before forced artifacts are
// removed. It receives the tasks about to be invalidated, human readable;
// returning false aborts the run with ErrDeclined.
func WithForceConfirm(fn func(tasks []string) bool) RunOption {
	return func(cfg *runConfig) { cfg.confirm = fn }
}

// WithQuiet silences per-task progress output and the printed summary for
// this run. The Summary value is still returned and recorded.
func WithQuiet() RunOption {
	return func(cfg *runConfig) { cfg.quiet = true }
}

// RunTask runs a single task and its incomplete requirements.
func RunTask(ctx context.Context, t Task, opts ...RunOption) (*Summary, error) {
	return Run(ctx, []Task{t}, opts...)
}

// Run resolves the requested tasks' dependency graph, figures out which
// tasks are incomplete, and executes exactly those in dependency order.
// It returns a Summary describing every considered task; the error wraps
// ErrRunFailed when at least one task failed or could not run.
func Run(ctx context.Context, tasks []Task, opts ...RunOption) (*Summary, error) {
	cfg := runConfig{workers: Workers()}
	for _, opt := range opts {
		opt(&cfg)
	}

	fg, err := resolve(tasks)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	runID := store.NewRunID(started)

	forced, err := forcedIDs(fg, &cfg)
	if err != nil {
		return nil, err
	}

	scanOrder := scanScope(fg, forced)
	complete, err := completionScan(ctx, fg, scanOrder)
	if err != nil {
		return nil, err
	}

	if err := applyForce(ctx, fg, &cfg, forced, complete); err != nil {
		return nil, err
	}

	plan := make(map[string]bool)
	for _, id := range scanOrder {
		if !complete[id] {
			plan[id] = true
		}
	}

	summary := &Summary{
		RunID:     runID,
		StartedAt: started,
		Workers:   cfg.workers,
		Requested: append([]string(nil), fg.requested...),
		results:   make(map[string]*TaskResult, len(scanOrder)),
		order:     scanOrder,
	}
	for _, id := range scanOrder {
		if complete[id] {
			n := fg.nodes[id]
			summary.results[id] = &TaskResult{ID: n.id, Family: n.family, Display: n.display, Status: StatusUpToDate}
		}
	}

	if len(plan) == 0 {
		if !cfg.quiet {
			logger.User.Info("Nothing to run, all tasks are up to date")
		}
		summary.Elapsed = time.Since(started)
		finishRun(summary, &cfg)
		return summary, nil
	}

	if !cfg.quiet {
		logger.User.Startingf("Run %s: executing %d of %d task(s) with %d worker(s)",
			runID, len(plan), len(scanOrder), cfg.workers)
	}
	logger.Op.Infof("Run %s planned: %d to execute, %d up to date", runID, len(plan), len(scanOrder)-len(plan))

	for id, res := range newExecutor(fg, &cfg, plan).execute(ctx) {
		summary.results[id] = res
	}
	summary.Elapsed = time.Since(started)

	finishRun(summary, &cfg)
	return summary, runError(summary)
}

// scanScope returns the task ids whose completion the run considers, in
// dependency order. With dependency checking disabled only the requested
// and explicitly forced tasks are scanned; the rest of upstream is taken
// on trust.
func scanScope(fg *flowGraph, forced []string) []string {
	if CheckDependencies() {
		return append([]string(nil), fg.order...)
	}
	set := make(map[string]bool, len(fg.requested)+len(forced))
	for _, id := range fg.requested {
		set[id] = true
	}
	for _, id := range forced {
		set[id] = true
	}
	order := make([]string, 0, len(set))
	for _, id := range fg.order {
		if set[id] {
			order = append(order, id)
		}
	}
	return order
}

func completionScan(ctx context.Context, fg *flowGraph, ids []string) (map[string]bool, error) {
	complete := make(map[string]bool, len(ids))
	for _, id := range ids {
		n := fg.nodes[id]
		ok, err := Complete(ctx, n.task)
		if err != nil {
			return nil, fmt.Errorf("relay: checking completion of %s: %w", n.display, err)
		}
		complete[id] = ok
	}
	return complete, nil
}

// applyForce removes the artifacts of forced tasks so they plan as
// incomplete. The confirm hook, when set, sees what would be removed and
// can abort the run.
func applyForce(ctx context.Context, fg *flowGraph, cfg *runConfig, forced []string, complete map[string]bool) error {
	if len(forced) == 0 {
		return nil
	}

	var doomed []string
	for _, id := range forced {
		if complete[id] {
			doomed = append(doomed, id)
		}
	}
	if len(doomed) == 0 {
		return nil
	}

	if cfg.confirm != nil {
		displays := make([]string, 0, len(doomed))
		for _, id := range doomed {
			displays = append(displays, fg.displayOf(id))
		}
		if !cfg.confirm(displays) {
			return fmt.Errorf("forced invalidation of %d task(s): %w", len(doomed), ErrDeclined)
		}
	}

	for _, id := range doomed {
		n := fg.nodes[id]
		if err := removeOutputs(ctx, n); err != nil {
			return fmt.Errorf("relay: invalidating %s: %w", n.display, err)
		}
		complete[id] = false
		if !cfg.quiet {
			logger.User.Deletef("Invalidated %s", n.display)
		}
	}
	logger.Op.Infof("Forced invalidation removed %d task output(s)", len(doomed))
	return nil
}

// forcedIDs resolves the force options into a topologically ordered id
// set, already widened downstream (and upstream when requested).
func forcedIDs(fg *flowGraph, cfg *runConfig) ([]string, error) {
	var seeds []string
	switch {
	case cfg.forceAll:
		return append([]string(nil), fg.order...), nil
	case len(cfg.force) > 0:
		for _, t := range cfg.force {
			if t == nil {
				return nil, errors.New("relay: nil task forced")
			}
			id := IDOf(t)
			if _, ok := fg.nodes[id]; !ok {
				return nil, fmt.Errorf("relay: forced task %s is not part of the flow", DisplayOf(t))
			}
			seeds = append(seeds, id)
		}
	case cfg.forceUpstream:
		seeds = append(seeds, fg.requested...)
	default:
		return nil, nil
	}

	if cfg.forceUpstream {
		seeds = fg.upstream(seeds...)
	}
	forcedSet := make(map[string]bool)
	for _, id := range fg.downstream(seeds...) {
		forcedSet[id] = true
	}
	ordered := make([]string, 0, len(forcedSet))
	for _, id := range fg.order {
		if forcedSet[id] {
			ordered = append(ordered, id)
		}
	}
	return ordered, nil
}

// finishRun persists the run record and prints the summary when the
// execution summary setting is on.
func finishRun(summary *Summary, cfg *runConfig) {
	rec := summary.record()
	if err := workspace().SaveRun(rec); err != nil {
		logger.Op.Warnf("Could not save run report %s: %v", summary.RunID, err)
	}
	if ExecutionSummary() && !cfg.quiet {
		fmt.Println(report.RenderSummary(rec))
	}
}

// runError builds the aggregate error for a finished run: nil when
// everything succeeded, otherwise ErrRunFailed wrapped around the first
// root cause in dependency order.
func runError(s *Summary) error {
	failed := s.Count(StatusFailed)
	skipped := s.Count(StatusSkipped)
	if failed == 0 && skipped == 0 {
		return nil
	}
	if failed > 0 {
		first := s.Failed()[0]
		return fmt.Errorf("%w: %d task(s) failed, %d skipped; first failure: %w", ErrRunFailed, failed, skipped, first.Err)
	}
	var firstSkip *TaskResult
	for _, id := range s.order {
		if r := s.results[id]; r.Status == StatusSkipped {
			firstSkip = r
			break
		}
	}
	return fmt.Errorf("%w: %d task(s) did not run: %w", ErrRunFailed, skipped, firstSkip.Err)
}
