// Package beacon provides a typed, in-process event registry for Go.
//
// A Beacon maps string signals to callbacks of arity 0-4 with strongly-typed
// parameters. Callbacks register either strongly (they stay until explicitly
// unhooked) or weakly, tied to an owner object: the registry holds the owner
// through a weak pointer, so once the owner is collected its callbacks
// silently stop firing and are reaped.
//
// Dispatch is synchronous: Emit runs every current subscriber on the calling
// goroutine before returning. All callbacks registered for one signal on the
// strong path must share a parameter signature; mismatched adds and removes
// are rejected.
//
// Quick example:
//
//	b := beacon.New()
//	sig := beacon.Signal("order.created")
//
//	beacon.Hook1(b, sig, func(orderID string) {
//	    // Process order...
//	})
//
//	beacon.Emit1(b, sig, "ORDER-123")
//
// See https://github.com/zoobzio/beacon for full documentation.
package beacon

// Signal represents an event name used for routing emissions to callbacks.
// Signals are compared by exact value; there is no namespacing or wildcarding.
type Signal string

// PanicHandler is called when a weak-path callback panics during dispatch.
// Receives the signal being dispatched and the recovered panic value. The
// panicking owner is dropped from the registry regardless.
type PanicHandler func(signal Signal, recovered any)

// Stats provides runtime metrics for a Beacon instance.
type Stats struct {
	// StrongCallbacks maps each signal to the number of callbacks in its
	// strong combination.
	StrongCallbacks map[Signal]int

	// WeakOwners maps each signal to the number of owner associations,
	// live or not yet swept.
	WeakOwners map[Signal]int
}
