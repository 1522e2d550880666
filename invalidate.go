package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/relay-run/relay/internal/logger"
)

type invalidateConfig struct {
	dryRun  bool
	confirm func(tasks []string) bool
}

// InvalidateOption adjusts Reset, InvalidateDownstream and
// InvalidateUpstream.
type InvalidateOption func(*invalidateConfig)

// WithDryRun reports which tasks would be invalidated without removing
// anything. The confirm hook is not consulted.
func WithDryRun() InvalidateOption {
	return func(cfg *invalidateConfig) { cfg.dryRun = true }
}

// WithConfirm installs a hook consulted before artifacts are removed. It
// receives the affected tasks, human readable; returning false aborts
// with ErrDeclined.
func WithConfirm(fn func(tasks []string) bool) InvalidateOption {
	return func(cfg *invalidateConfig) { cfg.confirm = fn }
}

// Reset removes the task's persisted output so its next run recomputes
// it. Downstream tasks keep their artifacts; use InvalidateDownstream to
// cascade.
func Reset(ctx context.Context, t Task, opts ...InvalidateOption) error {
	fg, err := resolve([]Task{t})
	if err != nil {
		return err
	}
	_, err = invalidate(ctx, fg, []string{IDOf(t)}, opts)
	return err
}

// InvalidateDownstream removes the artifacts of task t and of every task
// between t and within, so the next run of within recomputes that slice of
// the flow. within anchors the graph in which downstream edges are known.
// The affected task ids are returned in dependency order, also for dry
// runs.
func InvalidateDownstream(ctx context.Context, t, within Task, opts ...InvalidateOption) ([]string, error) {
	if within == nil {
		return nil, errors.New("relay: InvalidateDownstream needs the flow task the invalidation is scoped to")
	}
	fg, err := resolve([]Task{within})
	if err != nil {
		return nil, err
	}
	id := IDOf(t)
	if _, ok := fg.nodes[id]; !ok {
		return nil, fmt.Errorf("relay: task %s is not upstream of %s", DisplayOf(t), DisplayOf(within))
	}
	return invalidate(ctx, fg, fg.downstream(id), opts)
}

// InvalidateUpstream removes the artifacts of task t and of everything it
// requires, transitively. The affected task ids are returned in
// dependency order, also for dry runs.
func InvalidateUpstream(ctx context.Context, t Task, opts ...InvalidateOption) ([]string, error) {
	fg, err := resolve([]Task{t})
	if err != nil {
		return nil, err
	}
	return invalidate(ctx, fg, fg.upstream(IDOf(t)), opts)
}

// invalidate removes the artifacts of the given ids that are currently
// complete, in dependency order.
func invalidate(ctx context.Context, fg *flowGraph, ids []string, opts []InvalidateOption) ([]string, error) {
	cfg := invalidateConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	inSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		inSet[id] = true
	}
	var doomed []string
	for _, id := range fg.order {
		if !inSet[id] {
			continue
		}
		ok, err := Complete(ctx, fg.nodes[id].task)
		if err != nil {
			return nil, fmt.Errorf("relay: checking completion of %s: %w", fg.displayOf(id), err)
		}
		if ok {
			doomed = append(doomed, id)
		}
	}
	if len(doomed) == 0 {
		return nil, nil
	}
	if cfg.dryRun {
		return doomed, nil
	}

	if cfg.confirm != nil {
		displays := make([]string, 0, len(doomed))
		for _, id := range doomed {
			displays = append(displays, fg.displayOf(id))
		}
		if !cfg.confirm(displays) {
			return nil, fmt.Errorf("invalidation of %d task(s): %w", len(doomed), ErrDeclined)
		}
	}

	for _, id := range doomed {
		n := fg.nodes[id]
		if err := removeOutputs(ctx, n); err != nil {
			return nil, fmt.Errorf("relay: invalidating %s: %w", n.display, err)
		}
		logger.User.Deletef("Invalidated %s", n.display)
	}
	logger.Op.Infof("Invalidated %d task output(s)", len(doomed))
	return doomed, nil
}

// removeOutputs deletes the task's declared output through the target,
// then sweeps the task's artifact directory for any extra files written
// next to it.
func removeOutputs(ctx context.Context, n *node) error {
	if out := n.task.Output(); out != nil {
		if err := out.Remove(ctx); err != nil {
			return err
		}
	}
	if _, err := workspace().RemoveTask(n.family, n.id); err != nil {
		return err
	}
	return nil
}
