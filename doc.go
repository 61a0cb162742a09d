// Package taskbatch provides a deferred task batching and coalescing
// engine.
//
// Application code often issues many small, independent units of work —
// "look up a user by name", "fetch an item by id" — that could be served
// far more efficiently if grouped into bulk calls by whatever handles them.
// taskbatch lets callers describe such work declaratively as Task values,
// compose many of them into a MultiTask, and run the whole set through a
// Scheduler that produces the minimum number of batch calls: one call per
// distinct (handler, batch key) pair per phase, deduplicating identical
// requests across the whole run and chaining dependent steps through
// caller-supplied progression functions on SequenceTask.
//
// The package does not know what it means to fetch a user or an item; that
// is the business of a Handler, registered under a stable id via Register.
// taskbatch only knows how to flatten an arbitrary tree of tasks — multis
// nested inside multis, sequences whose second step depends on the first's
// result — into phases of batch calls, and how to reassemble the results
// into a tree shaped like the input.
package taskbatch
