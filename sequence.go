package taskbatch

// A ProgressionFunc is the continuation attached to a SequenceTask. Given
// the base task's settled result, it returns the next task to run, or a nil
// Task to end the sequence there (the sequence's overall result is then
// nil). It may also fail outright; see SequenceTask's doc comment for how
// that failure is treated.
type ProgressionFunc func(result any) (Task, error)

// A SequenceTask is a composite task: a base task plus a progression
// function that, given the base's result, returns either another task or
// nothing. The scheduler recognizes it by kind rather than dispatching it
// through a Handler — it is never itself registered in the handler
// registry.
//
// If a progression function returns an error, that error is treated as a
// handler-level failure scoped to this sequence's own chain: it becomes the
// chain's final result and no further task is scheduled for it. This does
// not contradict the engine's "a handler panic aborts the run" policy — a
// progression function is a plain data transform over an already-settled
// result, not a Handler, so its failures are always recoverable at the
// chain level.
type SequenceTask struct {
	base Task
	fn   ProgressionFunc
}

// Sequence constructs a SequenceTask over base with progression fn. base
// must not be a *MultiTask or another *SequenceTask; see
// ErrSequenceBaseUnsupported. A sequence chains by having fn return another
// *SequenceTask, not by nesting one in base.
func Sequence(base Task, fn ProgressionFunc) *SequenceTask {
	return &SequenceTask{base: base, fn: fn}
}

// Base returns the sequence's base task.
func (s *SequenceTask) Base() Task {
	return s.base
}

// Progress calls the sequence's progression function once with a settled
// base result and returns what it returns. It does not run the returned
// task; ExecuteTask runs a SequenceTask through a Scheduler, which applies
// progressions itself.
func (s *SequenceTask) Progress(result any) (Task, error) {
	return s.fn(result)
}

// BatchingKeys exists only so *SequenceTask satisfies Task for callers that
// type-switch generically over task trees. The scheduler always recognizes
// and special-cases *SequenceTask before calling BatchingKeys, so this is
// never used to look up a Handler; see ErrDirectDispatch.
func (s *SequenceTask) BatchingKeys() (string, string, TaskKey) {
	return "", "", NoDedup
}
