package relay

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/btree"
	"github.com/googleapis/gax-go/v2"

	"github.com/relay-run/relay/internal/logger"
	"github.com/relay-run/relay/internal/report"
)

// Retry pacing for tasks that declare Retries.
const (
	retryInitial    = 500 * time.Millisecond
	retryMax        = 8 * time.Second
	retryMultiplier = 2.0
)

const progressInterval = 10 * time.Second

// readyItem orders runnable tasks: higher priority first, then shallower
// depth, then id for a stable tie-break.
type readyItem struct {
	id       string
	priority int
	depth    int
}

func lessReady(a, b readyItem) bool {
	if a.priority != b.priority {
		return a.priority > b.priority
	}
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	return a.id < b.id
}

// completion is one worker's report back to the dispatch loop.
type completion struct {
	id       string
	err      error
	attempts int
	started  time.Time
	elapsed  time.Duration
}

// executor runs the planned subset of a flow graph. A single dispatch loop
// owns all bookkeeping; workers only run tasks and report completions, so
// results need no locking.
type executor struct {
	fg      *flowGraph
	cfg     *runConfig
	plan    map[string]bool
	pending map[string]int
	ready   *btree.BTreeG[readyItem]
	results map[string]*TaskResult
	workers chan struct{}
	done    chan completion

	inFlight  int
	cancelled bool
}

func newExecutor(fg *flowGraph, cfg *runConfig, plan map[string]bool) *executor {
	e := &executor{
		fg:      fg,
		cfg:     cfg,
		plan:    plan,
		pending: make(map[string]int, len(plan)),
		ready:   btree.NewG(2, lessReady),
		results: make(map[string]*TaskResult, len(plan)),
		workers: make(chan struct{}, cfg.workers),
		done:    make(chan completion, cfg.workers),
	}
	for id := range plan {
		n := 0
		for _, dep := range fg.nodes[id].deps {
			if plan[dep] {
				n++
			}
		}
		e.pending[id] = n
		if n == 0 {
			e.push(id)
		}
	}
	return e
}

func (e *executor) push(id string) {
	n := e.fg.nodes[id]
	e.ready.ReplaceOrInsert(readyItem{id: id, priority: n.priority, depth: e.fg.depth[id]})
}

// execute drives the plan to completion and returns per-task results for
// every planned node.
func (e *executor) execute(ctx context.Context) map[string]*TaskResult {
	total := len(e.plan)
	finished := 0
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	ctxDone := ctx.Done()

	for finished < total {
		if !e.cancelled {
			e.dispatch(ctx)
		}
		if e.inFlight == 0 && (e.cancelled || e.ready.Len() == 0) {
			finished += e.finishRemaining(ctx)
			continue
		}
		select {
		case c := <-e.done:
			finished += e.finishNode(&c)
		case <-ticker.C:
			e.logProgress(finished, total)
		case <-ctxDone:
			e.cancelled = true
			ctxDone = nil
			logger.Op.Warnf("Run cancelled, waiting for %d task(s) in flight", e.inFlight)
		}
	}
	return e.results
}

// dispatch moves ready tasks onto free worker slots, best first.
func (e *executor) dispatch(ctx context.Context) {
	for e.ready.Len() > 0 {
		select {
		case e.workers <- struct{}{}:
		default:
			return
		}
		item, _ := e.ready.DeleteMin()
		n := e.fg.nodes[item.id]
		e.inFlight++
		if !e.cfg.quiet {
			logger.User.Startingf("Running %s", n.display)
		}
		logger.Op.Debugf("Dispatching task %s (priority %d, depth %d)", n.id, item.priority, item.depth)
		go e.executeNode(ctx, n)
	}
}

// executeNode runs one task on a worker slot, retrying failed attempts for
// tasks that declare Retries.
func (e *executor) executeNode(ctx context.Context, n *node) {
	defer func() { <-e.workers }()
	started := time.Now()
	backoff := gax.Backoff{Initial: retryInitial, Max: retryMax, Multiplier: retryMultiplier}
	var err error
	attempts := 0
	for {
		attempts++
		err = e.runOnce(ctx, n)
		if err == nil || attempts > n.retries || ctx.Err() != nil {
			break
		}
		logger.Op.Warnf("Task %s attempt %d/%d failed, retrying: %v", n.id, attempts, n.retries+1, err)
		if sleepErr := gax.Sleep(ctx, backoff.Pause()); sleepErr != nil {
			break
		}
	}
	e.done <- completion{id: n.id, err: err, attempts: attempts, started: started, elapsed: time.Since(started)}
}

// runOnce performs a single attempt: run the task, convert panics into
// errors, then require the declared output to exist.
func (e *executor) runOnce(ctx context.Context, n *node) (err error) {
	runCtx := ctx
	if e.cfg.taskTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.cfg.taskTimeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = &TaskPanicError{TaskID: n.id, Value: r, Stack: debug.Stack()}
		}
	}()
	if runErr := n.task.Run(runCtx); runErr != nil {
		return fmt.Errorf("task %s failed: %w", n.display, runErr)
	}
	out := n.task.Output()
	if out == nil {
		return fmt.Errorf("task %s: %w", n.display, ErrNoOutput)
	}
	exists, existsErr := out.Exists(ctx)
	if existsErr != nil {
		return fmt.Errorf("task %s: checking output: %w", n.display, existsErr)
	}
	if !exists {
		return fmt.Errorf("task %s: %w", n.display, ErrOutputMissing)
	}
	return nil
}

// finishNode records one completion and unlocks or skips its dependents.
// Returns how many tasks reached a final state.
func (e *executor) finishNode(c *completion) int {
	e.inFlight--
	n := e.fg.nodes[c.id]
	res := &TaskResult{
		ID:        n.id,
		Family:    n.family,
		Display:   n.display,
		Attempts:  c.attempts,
		StartedAt: c.started,
		Elapsed:   c.elapsed,
	}
	if c.err != nil {
		res.Status = StatusFailed
		res.Err = c.err
		e.results[c.id] = res
		e.logFailure(n, c.err)
		return 1 + e.skipDependents(n)
	}
	res.Status = StatusDone
	e.results[c.id] = res
	if !e.cfg.quiet {
		logger.User.Successf("Completed %s (%s)", n.display, report.FormatElapsed(c.elapsed))
	}
	logger.Op.Debugf("Task %s finished in %s after %d attempt(s)", n.id, c.elapsed, c.attempts)
	for _, depID := range e.fg.topo.Dependents(c.id) {
		if !e.plan[depID] {
			continue
		}
		if _, done := e.results[depID]; done {
			continue
		}
		e.pending[depID]--
		if e.pending[depID] == 0 {
			e.push(depID)
		}
	}
	return 1
}

func (e *executor) logFailure(n *node, err error) {
	if !e.cfg.quiet {
		cause := errors.Unwrap(err)
		if cause == nil {
			cause = err
		}
		logger.User.Errorf("Failed %s: %v", n.display, cause)
	}
	var pe *TaskPanicError
	if errors.As(err, &pe) && len(pe.Stack) > 0 {
		logger.Op.Errorf("Task %s panicked: %v\n%s", n.id, pe.Value, pe.Stack)
	} else {
		logger.Op.Errorf("Task %s failed: %v", n.id, err)
	}
}

// skipDependents marks every planned task downstream of a failure as
// skipped. Returns the number of tasks marked.
func (e *executor) skipDependents(failed *node) int {
	count := 0
	queue := []string{failed.id}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, depID := range e.fg.topo.Dependents(id) {
			if !e.plan[depID] {
				continue
			}
			if _, done := e.results[depID]; done {
				continue
			}
			n := e.fg.nodes[depID]
			e.results[depID] = &TaskResult{
				ID:      n.id,
				Family:  n.family,
				Display: n.display,
				Status:  StatusSkipped,
				Err:     fmt.Errorf("skipped: upstream task %s failed", failed.display),
			}
			if !e.cfg.quiet {
				logger.User.Skipf("Skipped %s (upstream failure)", n.display)
			}
			count++
			queue = append(queue, depID)
		}
	}
	return count
}

// finishRemaining closes out planned tasks that will never start, either
// because the run was cancelled or because nothing can unblock them.
func (e *executor) finishRemaining(ctx context.Context) int {
	cause := ctx.Err()
	if cause == nil {
		cause = errors.New("task was never unblocked")
	}
	count := 0
	for _, id := range e.fg.order {
		if !e.plan[id] {
			continue
		}
		if _, done := e.results[id]; done {
			continue
		}
		n := e.fg.nodes[id]
		e.results[id] = &TaskResult{
			ID:      n.id,
			Family:  n.family,
			Display: n.display,
			Status:  StatusSkipped,
			Err:     fmt.Errorf("skipped: %w", cause),
		}
		if !e.cfg.quiet {
			logger.User.Skipf("Skipped %s (%v)", n.display, cause)
		}
		count++
	}
	return count
}

func (e *executor) logProgress(finished, total int) {
	logger.Op.Infof("Progress: %d/%d task(s) finished, %d running, %d ready", finished, total, e.inFlight, e.ready.Len())
}
