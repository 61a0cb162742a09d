package taskbatch

import "sync"

// handlers is a registry of Handler values keyed by handler id, grounded on
// the same sync.Map-backed Register/Lookup pair the teacher's command
// registry uses for its task runners: handler packages call Register from
// an init function, and the scheduler looks handlers up by the id a task's
// BatchingKeys reports.
var handlers sync.Map

// Register makes h available under handlerID for any task whose
// BatchingKeys names it. Handler packages typically call Register from an
// init function. Registering a second Handler under the same id replaces
// the first.
func Register(handlerID string, h Handler) {
	handlers.Store(handlerID, h)
}

// Lookup returns the Handler registered under handlerID, if any.
func Lookup(handlerID string) (Handler, bool) {
	v, ok := handlers.Load(handlerID)
	if !ok {
		return nil, false
	}
	return v.(Handler), true
}
