package taskbatch

import "errors"

// Sentinel errors for the engine's error taxonomy. All are precondition or
// structural failures the scheduler itself detects; handler-level business
// failures are never converted to one of these — a Handler encodes those in
// its results, per the Task/Handler contract.
var (
	// ErrDirectDispatch is returned by ExecuteTask when called with a
	// *MultiTask, which has no single result of its own to hand back;
	// call (*MultiTask).Execute instead.
	ErrDirectDispatch = errors.New("taskbatch: a multi-task has no single result; call MultiTask.Execute")

	// ErrHandlerNotFound is returned when a task names a handler id that
	// has no Handler registered for it. The scheduler checks this as it
	// schedules each task, before that task's phase is dispatched.
	ErrHandlerNotFound = errors.New("taskbatch: no handler registered for this id")

	// ErrDuplicateCallerKey is returned by MultiTask.Add when the caller
	// key is already present in the MultiTask.
	ErrDuplicateCallerKey = errors.New("taskbatch: caller key already present in multi-task")

	// ErrSequenceBaseUnsupported is returned when a SequenceTask's base
	// task is itself a *MultiTask or *SequenceTask. Scheduling a multi as
	// a sequence base is ambiguous (see the package's design notes on
	// what the progression would even receive as "the base's result");
	// scheduling a sequence as a sequence base is unneeded, since
	// progression functions already compose by returning another
	// SequenceTask. Both are rejected rather than given an implicit,
	// surprising semantics.
	ErrSequenceBaseUnsupported = errors.New("taskbatch: a sequence task's base must be a leaf task")

	// ErrTooManyPhases is returned when a Scheduler constructed with
	// WithMaxPhases runs past that many phases without terminating,
	// guarding against a progression function that never returns
	// nothing or a non-sequence leaf.
	ErrTooManyPhases = errors.New("taskbatch: scheduler run exceeded its phase limit")
)
