package taskbatch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/apparentlymart/go-taskbatch"
)

func TestSequenceProgressFailureEndsChain(t *testing.T) {
	h := newRecorder(t.Name())
	wantErr := errors.New("progression failed")

	base := &keyedTask{handler: h.id, batchKey: "default", result: "ok"}
	seq := taskbatch.Sequence(base, func(result any) (taskbatch.Task, error) {
		return nil, wantErr
	})

	got, err := taskbatch.ExecuteTask(context.Background(), seq)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.ErrorIs(got.(error), wantErr))
}

func TestSequenceAccessors(t *testing.T) {
	base := taskbatch.Simple(func(ctx context.Context) (any, error) { return 1, nil })
	seq := taskbatch.Sequence(base, func(result any) (taskbatch.Task, error) { return nil, nil })

	qt.Assert(t, qt.Equals(seq.Base(), taskbatch.Task(base)))

	next, err := seq.Progress(1)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsNil(next))
}
