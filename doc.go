// Package relay provides artifact-gated task orchestration: tasks declare
// the tasks they require and the output they persist, and the engine runs
// exactly the incomplete part of the dependency graph, in dependency order,
// with bounded concurrency.
//
// A task is complete when its output artifact exists, so pipelines resume
// where they left off across process restarts. Forcing, resetting and
// invalidation operate on the same artifacts, which keeps the completion
// check the single source of truth.
package relay
