// Package scenario parses the YAML task-tree documents the taskbatch-debug
// CLI runs, and builds the corresponding taskbatch.Task tree against a
// fixed "echo" handler meant for exploration and regression fixtures
// rather than production batching.
package scenario

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/apparentlymart/go-taskbatch"
)

// EchoHandlerID is the handler id every scenario leaf is dispatched
// through. It is registered by this package's init.
const EchoHandlerID = "taskbatch.debug.echo"

// Doc is the top-level shape of a scenario file: a named set of root
// caller keys, each describing a Node.
type Doc struct {
	Tasks map[string]Node `yaml:"tasks"`
}

// Node describes one task in the scenario tree. Exactly one of Children,
// Then, or a bare leaf (Value/Error) applies; buildNode resolves them in
// that priority order.
type Node struct {
	// Children, when non-nil, makes this node a nested MultiTask grouping
	// its named children.
	Children map[string]Node `yaml:"children"`

	// Then, when non-empty, makes this node (considered without its own
	// Then) the base of a SequenceTask chained through each entry in turn;
	// the final entry's settled result is the sequence's result.
	Then []Node `yaml:"then"`

	// BatchKey groups this leaf with sibling leaves sharing a handler and
	// batch key into one ExecuteBatch call. Defaults to "default".
	BatchKey string `yaml:"batch_key"`

	// TaskKey, if set, coalesces this leaf with any other scenario leaf
	// sharing the same handler, batch key, and task key within the run.
	TaskKey *string `yaml:"task_key"`

	// Value is this leaf's settled result when Error is empty.
	Value any `yaml:"value"`

	// Error, if non-empty, makes this leaf settle as an error instead of
	// Value.
	Error string `yaml:"error"`
}

// Parse decodes a scenario document from YAML bytes.
func Parse(data []byte) (*Doc, error) {
	var doc Doc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &doc, nil
}

// Build assembles doc's tasks into a *taskbatch.MultiTask keyed by the
// scenario's top-level task names, added in sorted name order.
func (doc *Doc) Build() (*taskbatch.MultiTask, error) {
	m := taskbatch.NewMulti()
	names := make([]string, 0, len(doc.Tasks))
	for name := range doc.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		node := doc.Tasks[name]
		t, err := buildNode(node)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", name, err)
		}
		if err := m.Add(name, t); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func buildNode(n Node) (taskbatch.Task, error) {
	switch {
	case n.Children != nil:
		m := taskbatch.NewMulti()
		for name, child := range n.Children {
			ct, err := buildNode(child)
			if err != nil {
				return nil, fmt.Errorf("child %q: %w", name, err)
			}
			if err := m.Add(name, ct); err != nil {
				return nil, err
			}
		}
		return m, nil

	case len(n.Then) > 0:
		base := n
		base.Then = nil
		return buildSequence(base, n.Then)

	default:
		return buildLeaf(n), nil
	}
}

// buildSequence turns base plus a non-empty chain of continuation nodes
// into nested SequenceTasks. Each continuation node's own Value/Error is
// used verbatim; it does not see the previous step's result, since the
// scenario format describes a fixed exploration chain rather than a
// general data-dependent progression.
func buildSequence(base Node, chain []Node) (taskbatch.Task, error) {
	baseTask, err := buildNode(base)
	if err != nil {
		return nil, err
	}
	if _, ok := baseTask.(*taskbatch.MultiTask); ok {
		return nil, fmt.Errorf("a sequence base cannot be a nested group")
	}

	next := chain[0]
	rest := chain[1:]

	return taskbatch.Sequence(baseTask, func(result any) (taskbatch.Task, error) {
		if len(rest) == 0 {
			return buildNode(next)
		}
		return buildSequence(next, rest)
	}), nil
}

func buildLeaf(n Node) *echoTask {
	batchKey := n.BatchKey
	if batchKey == "" {
		batchKey = "default"
	}
	taskKey := taskbatch.NoDedup
	if n.TaskKey != nil {
		taskKey = taskbatch.Dedup(*n.TaskKey)
	}
	return &echoTask{batchKey: batchKey, taskKey: taskKey, value: n.Value, errMsg: n.Error}
}

type echoTask struct {
	batchKey string
	taskKey  taskbatch.TaskKey
	value    any
	errMsg   string
}

func (t *echoTask) BatchingKeys() (string, string, taskbatch.TaskKey) {
	return EchoHandlerID, t.batchKey, t.taskKey
}

type echoHandler struct{}

func (echoHandler) ExecuteBatch(_ context.Context, _ string, tasks map[taskbatch.TaskID]taskbatch.Task, results map[taskbatch.TaskID]any) {
	for id, task := range tasks {
		et := task.(*echoTask)
		if et.errMsg != "" {
			results[id] = fmt.Errorf("%s", et.errMsg)
			continue
		}
		results[id] = et.value
	}
}

func init() {
	taskbatch.Register(EchoHandlerID, echoHandler{})
}
