package taskbatch

// A ResultTree is the output of executing a MultiTask: a tree with the same
// caller-key shape as the input, with each leaf replaced by its task's
// final result. A ResultTree value at any position is either itself a leaf
// result or a nested ResultTree — never a bare TaskID — so callers never
// need to guess whether a value is "really" an internal identifier, per the
// reserved-character concern in the package's design notes.
type ResultTree map[any]any
