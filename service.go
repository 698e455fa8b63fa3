package beacon

import (
	"sync"

	"github.com/rs/zerolog"
)

// Beacon is a typed event registry combining a strong table (callbacks that
// persist until unhooked) and a weak table (callbacks tied to an owner's
// lifetime). Instances are independent; create one per composition root and
// hand it to the subsystems that publish or subscribe.
type Beacon struct {
	strong       map[Signal]combiner
	weak         map[Signal]*ownerTable
	log          zerolog.Logger
	panicHandler PanicHandler
	mu           sync.Mutex
}

// New creates a new Beacon instance with optional configuration.
func New(opts ...Option) *Beacon {
	b := &Beacon{
		strong: make(map[Signal]combiner),
		weak:   make(map[Signal]*ownerTable),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Hook registers fn to run when signal is emitted with no arguments.
// All strong callbacks for one signal must share a signature; a mismatched
// add fails with ErrSignatureMismatch.
func (b *Beacon) Hook(signal Signal, fn func()) error {
	if fn == nil {
		return ErrNilCallback
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.strong[signal]
	if !ok {
		b.strong[signal] = (&combination0{}).combine(fn)
		return nil
	}
	c, ok := cur.(*combination0)
	if !ok {
		return &SignatureError{Signal: signal, Registered: cur.signature(), Provided: sigString()}
	}
	b.strong[signal] = c.combine(fn)
	return nil
}

// Hook1 registers fn to run when signal is emitted with one argument of
// type T1. Fails with ErrSignatureMismatch if the signal already holds
// callbacks of a different signature.
func Hook1[T1 any](b *Beacon, signal Signal, fn func(T1)) error {
	if fn == nil {
		return ErrNilCallback
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.strong[signal]
	if !ok {
		b.strong[signal] = (&combination1[T1]{}).combine(fn)
		return nil
	}
	c, ok := cur.(*combination1[T1])
	if !ok {
		return &SignatureError{Signal: signal, Registered: cur.signature(), Provided: sigString(typeName[T1]())}
	}
	b.strong[signal] = c.combine(fn)
	return nil
}

// Hook2 registers fn to run when signal is emitted with two arguments of
// types T1, T2.
func Hook2[T1, T2 any](b *Beacon, signal Signal, fn func(T1, T2)) error {
	if fn == nil {
		return ErrNilCallback
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.strong[signal]
	if !ok {
		b.strong[signal] = (&combination2[T1, T2]{}).combine(fn)
		return nil
	}
	c, ok := cur.(*combination2[T1, T2])
	if !ok {
		return &SignatureError{
			Signal:     signal,
			Registered: cur.signature(),
			Provided:   sigString(typeName[T1](), typeName[T2]()),
		}
	}
	b.strong[signal] = c.combine(fn)
	return nil
}

// Hook3 registers fn to run when signal is emitted with three arguments of
// types T1, T2, T3.
func Hook3[T1, T2, T3 any](b *Beacon, signal Signal, fn func(T1, T2, T3)) error {
	if fn == nil {
		return ErrNilCallback
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.strong[signal]
	if !ok {
		b.strong[signal] = (&combination3[T1, T2, T3]{}).combine(fn)
		return nil
	}
	c, ok := cur.(*combination3[T1, T2, T3])
	if !ok {
		return &SignatureError{
			Signal:     signal,
			Registered: cur.signature(),
			Provided:   sigString(typeName[T1](), typeName[T2](), typeName[T3]()),
		}
	}
	b.strong[signal] = c.combine(fn)
	return nil
}

// Hook4 registers fn to run when signal is emitted with four arguments of
// types T1, T2, T3, T4.
func Hook4[T1, T2, T3, T4 any](b *Beacon, signal Signal, fn func(T1, T2, T3, T4)) error {
	if fn == nil {
		return ErrNilCallback
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.strong[signal]
	if !ok {
		b.strong[signal] = (&combination4[T1, T2, T3, T4]{}).combine(fn)
		return nil
	}
	c, ok := cur.(*combination4[T1, T2, T3, T4])
	if !ok {
		return &SignatureError{
			Signal:     signal,
			Registered: cur.signature(),
			Provided:   sigString(typeName[T1](), typeName[T2](), typeName[T3](), typeName[T4]()),
		}
	}
	b.strong[signal] = c.combine(fn)
	return nil
}

// Unhook removes one occurrence of fn from the signal's strong combination.
// Fails with ErrUnknownSignal if the signal has no strong registration and
// with ErrSignatureMismatch if its signature differs from fn's. Removing a
// callback that was never registered is a silent no-op. The signal's entry
// is deleted once its combination empties.
func (b *Beacon) Unhook(signal Signal, fn func()) error {
	if fn == nil {
		return ErrNilCallback
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.strong[signal]
	if !ok {
		return ErrUnknownSignal
	}
	c, ok := cur.(*combination0)
	if !ok {
		return &SignatureError{Signal: signal, Registered: cur.signature(), Provided: sigString()}
	}
	b.replaceStrong(signal, c.subtract(fn))
	return nil
}

// Unhook1 removes one occurrence of fn from the signal's strong combination.
func Unhook1[T1 any](b *Beacon, signal Signal, fn func(T1)) error {
	if fn == nil {
		return ErrNilCallback
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.strong[signal]
	if !ok {
		return ErrUnknownSignal
	}
	c, ok := cur.(*combination1[T1])
	if !ok {
		return &SignatureError{Signal: signal, Registered: cur.signature(), Provided: sigString(typeName[T1]())}
	}
	b.replaceStrong(signal, c.subtract(fn))
	return nil
}

// Unhook2 removes one occurrence of fn from the signal's strong combination.
func Unhook2[T1, T2 any](b *Beacon, signal Signal, fn func(T1, T2)) error {
	if fn == nil {
		return ErrNilCallback
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.strong[signal]
	if !ok {
		return ErrUnknownSignal
	}
	c, ok := cur.(*combination2[T1, T2])
	if !ok {
		return &SignatureError{
			Signal:     signal,
			Registered: cur.signature(),
			Provided:   sigString(typeName[T1](), typeName[T2]()),
		}
	}
	b.replaceStrong(signal, c.subtract(fn))
	return nil
}

// Unhook3 removes one occurrence of fn from the signal's strong combination.
func Unhook3[T1, T2, T3 any](b *Beacon, signal Signal, fn func(T1, T2, T3)) error {
	if fn == nil {
		return ErrNilCallback
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.strong[signal]
	if !ok {
		return ErrUnknownSignal
	}
	c, ok := cur.(*combination3[T1, T2, T3])
	if !ok {
		return &SignatureError{
			Signal:     signal,
			Registered: cur.signature(),
			Provided:   sigString(typeName[T1](), typeName[T2](), typeName[T3]()),
		}
	}
	b.replaceStrong(signal, c.subtract(fn))
	return nil
}

// Unhook4 removes one occurrence of fn from the signal's strong combination.
func Unhook4[T1, T2, T3, T4 any](b *Beacon, signal Signal, fn func(T1, T2, T3, T4)) error {
	if fn == nil {
		return ErrNilCallback
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.strong[signal]
	if !ok {
		return ErrUnknownSignal
	}
	c, ok := cur.(*combination4[T1, T2, T3, T4])
	if !ok {
		return &SignatureError{
			Signal:     signal,
			Registered: cur.signature(),
			Provided:   sigString(typeName[T1](), typeName[T2](), typeName[T3](), typeName[T4]()),
		}
	}
	b.replaceStrong(signal, c.subtract(fn))
	return nil
}

// replaceStrong installs the subtracted combination, reaping the entry when
// it has emptied so the signal can later re-establish a new signature.
// Must be called while holding b.mu.
func (b *Beacon) replaceStrong(signal Signal, next combiner) {
	if next.empty() {
		delete(b.strong, signal)
		b.log.Debug().Str("signal", string(signal)).Msg("strong entry emptied, reaped")
		return
	}
	b.strong[signal] = next
}

// Clear removes every strong and weak registration. Emitting a previously
// registered signal afterwards invokes nothing and is not an error.
func (b *Beacon) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.strong = make(map[Signal]combiner)
	b.weak = make(map[Signal]*ownerTable)
	b.log.Debug().Msg("registry cleared")
}

// Stats returns runtime metrics for the Beacon instance. Provides visibility
// into strong callback counts and weak owner counts per signal.
func (b *Beacon) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := Stats{
		StrongCallbacks: make(map[Signal]int, len(b.strong)),
		WeakOwners:      make(map[Signal]int, len(b.weak)),
	}

	for signal, c := range b.strong {
		stats.StrongCallbacks[signal] = c.count()
	}

	for signal, table := range b.weak {
		stats.WeakOwners[signal] = len(table.assocs)
	}

	return stats
}
