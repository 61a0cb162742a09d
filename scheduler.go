package taskbatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// A MetricsRecorder observes scheduler dispatch activity. It is kept as a
// narrow interface in this package, rather than importing
// github.com/prometheus/client_golang directly, so the core scheduler has
// no dependency on a specific metrics backend; the internal/metrics package
// provides the Prometheus-backed implementation the CLI wires in.
type MetricsRecorder interface {
	// ObserveBatchDispatch is called once per dispatched batch with the
	// time ExecuteBatch took to return.
	ObserveBatchDispatch(handler, batchKey string, d time.Duration)
	// ObservePhases is called once per Execute run with the number of
	// phases it took to settle.
	ObservePhases(n int)
}

// DebugBatch describes one batch that BatchesForDebugging would dispatch.
type DebugBatch struct {
	Handler  string
	BatchKey string
	Tasks    map[TaskID]Task
}

// A Scheduler flattens a MultiTask's tree of subtasks into phases of batch
// calls, dedupes by (handler, batch key, task key) across the whole run,
// and feeds settled results through SequenceTask progressions until none
// remain. A Scheduler holds no state between Execute calls; all run-local
// bookkeeping lives in the unexported run type.
type Scheduler struct {
	maxPhases int
	metrics   MetricsRecorder
	logger    *slog.Logger
}

// An Option configures a Scheduler built with NewScheduler.
type Option func(*Scheduler)

// WithMaxPhases caps the number of phases a run may take before it aborts
// with ErrTooManyPhases. The default, zero, is unbounded — appropriate
// since the spec leaves non-terminating progression chains undetected by
// design; set a cap when embedding the engine in a service that must not
// hang on a pathological task tree.
func WithMaxPhases(n int) Option {
	return func(s *Scheduler) { s.maxPhases = n }
}

// WithMetrics attaches a MetricsRecorder. Most callers reach for
// internal/metrics.NewCollector rather than implementing this directly.
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithLogger overrides the *slog.Logger used for per-batch debug logging.
// The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// NewScheduler builds a Scheduler with the given options.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs m to completion and returns a result tree shaped like m's
// caller-key structure, with every leaf replaced by its task's final
// result. A panic from a Handler's ExecuteBatch is not recovered; it
// propagates out of Execute, aborting the run.
func (s *Scheduler) Execute(ctx context.Context, m *MultiTask) (ResultTree, error) {
	r := newRun(s, ctx)
	root := r.skel.newBranch()
	r.skel.root = root
	if err := r.schedule(m, root); err != nil {
		return nil, err
	}

	for {
		if err := r.dispatchBatches(); err != nil {
			return nil, err
		}
		if len(r.pending) == 0 {
			break
		}

		r.phase++
		if s.maxPhases > 0 && r.phase >= s.maxPhases {
			return nil, fmt.Errorf("%w: reached phase %d", ErrTooManyPhases, r.phase)
		}

		pending := r.pending
		r.pending = nil
		r.batches = map[groupKey]*batchGroup{}

		for _, p := range pending {
			result := r.resultOf(p.id)

			next, err := p.fn(result)
			if err != nil {
				r.settleTerminal(r.backRefs[p.id], err)
				continue
			}
			if next == nil {
				r.settleTerminal(r.backRefs[p.id], nil)
				continue
			}
			if err := r.schedule(next, r.backRefs[p.id]); err != nil {
				return nil, err
			}
		}
	}

	if s.metrics != nil {
		s.metrics.ObservePhases(r.phase + 1)
	}

	tree := r.skel.resolve(r.skel.root, r.resultOf)
	return tree.(ResultTree), nil
}

// BatchesForDebugging runs the flattening logic over m without dispatching
// any batch, reporting what the first phase would execute.
func (s *Scheduler) BatchesForDebugging(ctx context.Context, m *MultiTask) ([]DebugBatch, error) {
	r := newRun(s, ctx)
	root := r.skel.newBranch()
	r.skel.root = root
	if err := r.schedule(m, root); err != nil {
		return nil, err
	}

	out := make([]DebugBatch, 0, len(r.batches))
	for _, grp := range r.batches {
		out = append(out, DebugBatch{Handler: grp.handler, BatchKey: grp.batchKey, Tasks: grp.tasks})
	}
	return out, nil
}

// ExecuteTask runs a single task as a convenience, equivalent to wrapping
// it in a MultiTask of size one and discarding the caller-key shaping. It
// returns ErrDirectDispatch for a *MultiTask, which has no single result of
// its own.
func ExecuteTask(ctx context.Context, t Task) (any, error) {
	if _, isMulti := t.(*MultiTask); isMulti {
		return nil, ErrDirectDispatch
	}
	m := NewMulti()
	_ = m.Add(singleTaskKey{}, t)
	tree, err := NewScheduler().Execute(ctx, m)
	if err != nil {
		return nil, err
	}
	return tree[singleTaskKey{}], nil
}

type singleTaskKey struct{}

// dedupKey identifies a deduplication bucket: tasks sharing all three
// fields are coalesced into a single execution within a run.
type dedupKey struct {
	handler  string
	batchKey string
	taskKey  string
}

// groupKey identifies a batch: tasks sharing both fields are dispatched
// together in one ExecuteBatch call.
type groupKey struct {
	handler  string
	batchKey string
}

type batchGroup struct {
	handler  string
	batchKey string
	tasks    map[TaskID]Task
}

// pendingProgression is a sequence whose base settled this phase and whose
// continuation must run before the next phase is dispatched.
type pendingProgression struct {
	fn ProgressionFunc
	id TaskID
}

// run holds all state local to one Scheduler.Execute or
// BatchesForDebugging call. None of it is shared across runs or goroutines;
// dispatch within a phase is sequential.
type run struct {
	sched *Scheduler
	ctx   context.Context
	runID string
	phase int

	nextIDVal TaskID

	dedup    map[dedupKey]TaskID
	alias    map[TaskID]TaskID // occurrence id -> the id actually carrying its result, when coalesced
	results  map[TaskID]any
	backRefs map[TaskID]int // occurrence id -> skeleton arena index
	skel     *skeleton

	batches map[groupKey]*batchGroup
	pending []pendingProgression
}

func newRun(s *Scheduler, ctx context.Context) *run {
	return &run{
		sched:    s,
		ctx:      ctx,
		runID:    uuid.NewString(),
		dedup:    map[dedupKey]TaskID{},
		alias:    map[TaskID]TaskID{},
		results:  map[TaskID]any{},
		backRefs: map[TaskID]int{},
		skel:     newSkeleton(),
		batches:  map[groupKey]*batchGroup{},
	}
}

func (r *run) nextID() TaskID {
	r.nextIDVal++
	return r.nextIDVal
}

// resultOf returns the settled result for occurrence id, following its
// alias to the id that actually executed if it coalesced with a prior
// occurrence.
func (r *run) resultOf(id TaskID) any {
	if owner, ok := r.alias[id]; ok {
		return r.results[owner]
	}
	return r.results[id]
}

// settleTerminal records a sequence's terminal outcome — an early-ending
// progression's nil, or a failing progression's error — under a fresh id of
// its own, and rewrites the arena slot at index to point at it. It never
// writes through the shared results map keyed by an existing occurrence
// id, since that id may be the dedup owner other, unrelated occurrences
// are aliased to (or may itself be aliased to one): writing there would
// either corrupt a coalesced sibling's settled value or silently be
// discarded by resultOf's alias redirection.
func (r *run) settleTerminal(index int, value any) {
	id := r.nextID()
	r.results[id] = value
	r.backRefs[id] = index
	r.skel.setLeaf(index, id)
}

// schedule places t into the arena at index, recursing into MultiTask
// subtasks and SequenceTask bases, and registering leaf tasks into this
// phase's batches. index must already exist in the arena (as the node this
// occurrence of t replaces or becomes).
func (r *run) schedule(t Task, index int) error {
	switch v := t.(type) {
	case *MultiTask:
		r.skel.makeBranch(index)
		for _, k := range v.order {
			child := r.skel.newLeaf(0)
			r.skel.addChild(index, k, child)
			if err := r.schedule(v.subtasks[k], child); err != nil {
				return err
			}
		}
		return nil
	case *SequenceTask:
		return r.scheduleSequence(v, index)
	default:
		_, err := r.scheduleLeaf(t, index)
		return err
	}
}

// scheduleSequence registers v's progression to run once its base settles,
// and schedules the base itself as a leaf. v.base must not be a *MultiTask
// or *SequenceTask — see ErrSequenceBaseUnsupported.
func (r *run) scheduleSequence(v *SequenceTask, index int) error {
	switch v.base.(type) {
	case *MultiTask, *SequenceTask:
		return fmt.Errorf("sequence base of type %T: %w", v.base, ErrSequenceBaseUnsupported)
	}
	id, err := r.scheduleLeaf(v.base, index)
	if err != nil {
		return err
	}
	r.pending = append(r.pending, pendingProgression{fn: v.fn, id: id})
	return nil
}

// scheduleLeaf schedules a non-composite task, coalescing it with a prior
// occurrence sharing the same (handler, batch key, task key) if present. It
// always allocates a fresh occurrence id and always points the arena slot
// at index to that id, recording the alias to the owning id separately when
// it coalesces — so a later rewrite of this slot (if it backs a sequence)
// and a later read of its result both resolve correctly regardless of
// which occurrence actually executes.
func (r *run) scheduleLeaf(t Task, index int) (TaskID, error) {
	id := r.nextID()
	handler, batchKey, taskKey := t.BatchingKeys()

	if _, ok := Lookup(handler); !ok {
		return 0, fmt.Errorf("%w: %q", ErrHandlerNotFound, handler)
	}

	r.backRefs[id] = index
	r.skel.setLeaf(index, id)

	if taskKey.Present {
		dk := dedupKey{handler: handler, batchKey: batchKey, taskKey: taskKey.Value}
		if owner, exists := r.dedup[dk]; exists {
			r.alias[id] = owner
			return id, nil
		}
		r.dedup[dk] = id
	}

	gk := groupKey{handler: handler, batchKey: batchKey}
	grp := r.batches[gk]
	if grp == nil {
		grp = &batchGroup{handler: handler, batchKey: batchKey, tasks: map[TaskID]Task{}}
		r.batches[gk] = grp
	}
	grp.tasks[id] = t
	return id, nil
}

// dispatchBatches calls ExecuteBatch once per batch currently pending and
// clears nothing itself — the caller owns clearing r.batches between
// phases. Order across batches is unspecified, matching the spec; this
// implementation dispatches them in Go's unspecified map iteration order.
func (r *run) dispatchBatches() error {
	for _, grp := range r.batches {
		h, ok := Lookup(grp.handler)
		if !ok {
			return fmt.Errorf("%w: %q", ErrHandlerNotFound, grp.handler)
		}

		start := time.Now()
		h.ExecuteBatch(r.ctx, grp.batchKey, grp.tasks, r.results)
		elapsed := time.Since(start)

		if r.sched.metrics != nil {
			r.sched.metrics.ObserveBatchDispatch(grp.handler, grp.batchKey, elapsed)
		}
		r.sched.logger.Debug("dispatched batch",
			"run_id", r.runID,
			"phase", r.phase,
			"handler", grp.handler,
			"batch_key", grp.batchKey,
			"size", len(grp.tasks),
			"duration", elapsed,
		)
	}
	return nil
}
