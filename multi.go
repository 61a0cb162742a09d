package taskbatch

import (
	"context"
	"fmt"
)

// A MultiTask maps caller keys — opaque labels chosen by the caller, such
// as strings or small structs — to subtasks. Caller keys are unique within
// one MultiTask and shape the result tree only; they never participate in
// batching. Subtasks may themselves be MultiTasks or SequenceTasks.
type MultiTask struct {
	order    []any
	subtasks map[any]Task
}

// NewMulti returns an empty MultiTask.
func NewMulti() *MultiTask {
	return &MultiTask{subtasks: map[any]Task{}}
}

// Add registers t under callerKey. It returns ErrDuplicateCallerKey if
// callerKey is already present.
func (m *MultiTask) Add(callerKey any, t Task) error {
	if _, exists := m.subtasks[callerKey]; exists {
		return fmt.Errorf("%w: %v", ErrDuplicateCallerKey, callerKey)
	}
	m.subtasks[callerKey] = t
	m.order = append(m.order, callerKey)
	return nil
}

// Len reports the number of direct subtasks in m.
func (m *MultiTask) Len() int {
	return len(m.order)
}

// BatchingKeys exists only so *MultiTask satisfies Task for callers that
// type-switch generically over task trees. The scheduler always recognizes
// and special-cases *MultiTask before calling BatchingKeys, so this is
// never used to look up a Handler.
func (m *MultiTask) BatchingKeys() (string, string, TaskKey) {
	return "", "", NoDedup
}

// Execute runs the scheduler over m with default options and returns the
// result tree. It is a convenience equivalent to
// NewScheduler().Execute(ctx, m); build a *Scheduler directly to customize
// logging, metrics, or the phase cap.
func (m *MultiTask) Execute(ctx context.Context) (ResultTree, error) {
	return NewScheduler().Execute(ctx, m)
}

// BatchesForDebugging reports the batches that would be dispatched in the
// first phase of executing m, without dispatching them. It is a read-only
// introspection aid, grounded on the same flattening logic Execute uses.
func (m *MultiTask) BatchesForDebugging(ctx context.Context) ([]DebugBatch, error) {
	return NewScheduler().BatchesForDebugging(ctx, m)
}
