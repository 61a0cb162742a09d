package taskbatch

import "context"

// simpleHandlerID names the baseline handler registered for SimpleTask.
const simpleHandlerID = "taskbatch.simple"

// A SimpleFunc is the thunk wrapped by a SimpleTask. Its error return is an
// idiomatic-Go concession over the spec's untyped handler contract: the
// result delivered to callers is either the value or the error, never both,
// matching Go's usual (value, error) shape instead of encoding failure as a
// magic result value.
type SimpleFunc func(ctx context.Context) (any, error)

// A SimpleTask wraps an opaque thunk with no coalescing and no
// deduplication. It is the minimum existence proof of the Task contract and
// an escape hatch for work that does not benefit from batching.
type SimpleTask struct {
	fn SimpleFunc
}

// Simple constructs a SimpleTask around fn.
func Simple(fn SimpleFunc) *SimpleTask {
	return &SimpleTask{fn: fn}
}

// BatchingKeys implements Task. Every SimpleTask shares the same handler
// and batch key, so a batch of them runs in a single ExecuteBatch call, but
// never coalesces: its TaskKey is always NoDedup.
func (t *SimpleTask) BatchingKeys() (string, string, TaskKey) {
	return simpleHandlerID, "default", NoDedup
}

// simpleHandler invokes each task's thunk independently. It does not batch
// in any real sense — it exists so SimpleTask has a Handler at all — but it
// still honors the one-ExecuteBatch-call-per-phase contract.
type simpleHandler struct{}

func (simpleHandler) ExecuteBatch(ctx context.Context, batchKey string, tasks map[TaskID]Task, results map[TaskID]any) {
	for id, t := range tasks {
		st, ok := t.(*SimpleTask)
		if !ok {
			results[id] = nil
			continue
		}
		v, err := st.fn(ctx)
		if err != nil {
			results[id] = err
			continue
		}
		results[id] = v
	}
}

func init() {
	Register(simpleHandlerID, simpleHandler{})
}
