package taskbatch

import "context"

// A TaskID identifies one scheduled occurrence of a Task within a single
// Scheduler run. It is assigned by the scheduler, never by callers, and is
// monotonic within a run so that it can double as a stable map key for the
// run's result and deduplication bookkeeping.
type TaskID uint64

// A TaskKey is a task's optional deduplication identifier. The zero value,
// NoDedup, means the task does not participate in deduplication. A present
// TaskKey of "" is legal and distinct from NoDedup: Dedup("") dedups
// against other Dedup("") tasks sharing the same handler and batch key,
// while NoDedup never coalesces with anything.
type TaskKey struct {
	Value   string
	Present bool
}

// NoDedup is the TaskKey of a task that never coalesces with another.
var NoDedup = TaskKey{}

// Dedup returns a TaskKey that coalesces with any other task sharing the
// same (handler, batch key, value) triple within one scheduler run.
func Dedup(value string) TaskKey {
	return TaskKey{Value: value, Present: true}
}

// A Task describes one unit of deferred work. Its batching keys classify
// it for the scheduler: tasks sharing a handler and batch key are
// dispatched together; tasks additionally sharing a TaskKey are coalesced
// into a single execution.
//
// Task values must be treated as immutable once constructed and are scoped
// to a single Scheduler run; nothing in this package shares a Task across
// runs.
type Task interface {
	// BatchingKeys reports the handler id, the handler-specific batch
	// bucket, and an optional deduplication key.
	BatchingKeys() (handler string, batchKey string, taskKey TaskKey)
}

// A Handler knows how to execute a batch of tasks that share a handler id
// and batch key. ExecuteBatch receives every task_id scheduled into this
// batch call and must write a result for each of them into results before
// returning.
//
// ExecuteBatch must not panic to signal a business-level failure for one
// of its tasks; it should store that failure as the task's result instead
// (for example, as an error value). A panic here is treated as a true
// exception and propagates out of Scheduler.Execute untouched, aborting
// the run.
type Handler interface {
	ExecuteBatch(ctx context.Context, batchKey string, tasks map[TaskID]Task, results map[TaskID]any)
}
