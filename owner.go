package beacon

// WeakHook registers fn to run when signal is emitted with no arguments,
// tied to owner's lifetime. The registry holds owner weakly: once owner is
// collected the association stops firing and is reaped on the next emit or
// sweep. Repeated weak hooks for the same owner and signal combine into one
// association; a mismatched signature within that association fails with
// ErrSignatureMismatch. Associations of unrelated owners are independent and
// never checked against each other.
func WeakHook[O any](b *Beacon, signal Signal, owner *O, fn func()) error {
	if fn == nil {
		return ErrNilCallback
	}
	if owner == nil {
		return ErrNilOwner
	}
	ref := makeRef(owner)
	b.mu.Lock()
	defer b.mu.Unlock()

	a := b.ownerTableFor(signal).getOrCreate(ref, ref)
	if a.comb == nil {
		a.comb = (&combination0{}).combine(fn)
		return nil
	}
	c, ok := a.comb.(*combination0)
	if !ok {
		return &SignatureError{Signal: signal, Registered: a.comb.signature(), Provided: sigString()}
	}
	a.comb = c.combine(fn)
	return nil
}

// WeakHook1 registers fn, taking one argument of type T1, tied to owner's
// lifetime.
func WeakHook1[O, T1 any](b *Beacon, signal Signal, owner *O, fn func(T1)) error {
	if fn == nil {
		return ErrNilCallback
	}
	if owner == nil {
		return ErrNilOwner
	}
	ref := makeRef(owner)
	b.mu.Lock()
	defer b.mu.Unlock()

	a := b.ownerTableFor(signal).getOrCreate(ref, ref)
	if a.comb == nil {
		a.comb = (&combination1[T1]{}).combine(fn)
		return nil
	}
	c, ok := a.comb.(*combination1[T1])
	if !ok {
		return &SignatureError{Signal: signal, Registered: a.comb.signature(), Provided: sigString(typeName[T1]())}
	}
	a.comb = c.combine(fn)
	return nil
}

// WeakHook2 registers fn, taking two arguments of types T1, T2, tied to
// owner's lifetime.
func WeakHook2[O, T1, T2 any](b *Beacon, signal Signal, owner *O, fn func(T1, T2)) error {
	if fn == nil {
		return ErrNilCallback
	}
	if owner == nil {
		return ErrNilOwner
	}
	ref := makeRef(owner)
	b.mu.Lock()
	defer b.mu.Unlock()

	a := b.ownerTableFor(signal).getOrCreate(ref, ref)
	if a.comb == nil {
		a.comb = (&combination2[T1, T2]{}).combine(fn)
		return nil
	}
	c, ok := a.comb.(*combination2[T1, T2])
	if !ok {
		return &SignatureError{
			Signal:     signal,
			Registered: a.comb.signature(),
			Provided:   sigString(typeName[T1](), typeName[T2]()),
		}
	}
	a.comb = c.combine(fn)
	return nil
}

// WeakHook3 registers fn, taking three arguments of types T1, T2, T3, tied
// to owner's lifetime.
func WeakHook3[O, T1, T2, T3 any](b *Beacon, signal Signal, owner *O, fn func(T1, T2, T3)) error {
	if fn == nil {
		return ErrNilCallback
	}
	if owner == nil {
		return ErrNilOwner
	}
	ref := makeRef(owner)
	b.mu.Lock()
	defer b.mu.Unlock()

	a := b.ownerTableFor(signal).getOrCreate(ref, ref)
	if a.comb == nil {
		a.comb = (&combination3[T1, T2, T3]{}).combine(fn)
		return nil
	}
	c, ok := a.comb.(*combination3[T1, T2, T3])
	if !ok {
		return &SignatureError{
			Signal:     signal,
			Registered: a.comb.signature(),
			Provided:   sigString(typeName[T1](), typeName[T2](), typeName[T3]()),
		}
	}
	a.comb = c.combine(fn)
	return nil
}

// WeakHook4 registers fn, taking four arguments of types T1, T2, T3, T4,
// tied to owner's lifetime.
func WeakHook4[O, T1, T2, T3, T4 any](b *Beacon, signal Signal, owner *O, fn func(T1, T2, T3, T4)) error {
	if fn == nil {
		return ErrNilCallback
	}
	if owner == nil {
		return ErrNilOwner
	}
	ref := makeRef(owner)
	b.mu.Lock()
	defer b.mu.Unlock()

	a := b.ownerTableFor(signal).getOrCreate(ref, ref)
	if a.comb == nil {
		a.comb = (&combination4[T1, T2, T3, T4]{}).combine(fn)
		return nil
	}
	c, ok := a.comb.(*combination4[T1, T2, T3, T4])
	if !ok {
		return &SignatureError{
			Signal:     signal,
			Registered: a.comb.signature(),
			Provided:   sigString(typeName[T1](), typeName[T2](), typeName[T3](), typeName[T4]()),
		}
	}
	a.comb = c.combine(fn)
	return nil
}

// UnhookWeak removes owner's entire association for signal, covering every
// callback it registered there. Coarser than Unhook on purpose: weak
// registrations are owned collectively by the owner, not individually.
// No-op if the owner or signal is unknown.
func UnhookWeak[O any](b *Beacon, signal Signal, owner *O) {
	if owner == nil {
		return
	}
	key := makeRef(owner)
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.weak[signal]
	if !ok {
		return
	}
	t.remove(key)
	if t.empty() {
		delete(b.weak, signal)
	}
}

// ownerTableFor returns the owner table for signal, creating it on first
// use. Must be called while holding b.mu.
func (b *Beacon) ownerTableFor(signal Signal) *ownerTable {
	t, ok := b.weak[signal]
	if !ok {
		t = newOwnerTable()
		b.weak[signal] = t
	}
	return t
}

// SweepSignal removes signal's weak associations whose owner has been
// collected, returning the number removed. Deletes the signal's table once
// no associations remain. Calling with no dead owners is a no-op.
func (b *Beacon) SweepSignal(signal Signal) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sweepSignal(signal)
}

// Sweep removes dead-owner associations across every signal, returning the
// total removed. Intended for a periodic maintenance tick; emits also reap
// opportunistically, so calling this is optional.
func (b *Beacon) Sweep() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	for signal := range b.weak {
		removed += b.sweepSignal(signal)
	}
	return removed
}

// sweepSignal must be called while holding b.mu.
func (b *Beacon) sweepSignal(signal Signal) int {
	t, ok := b.weak[signal]
	if !ok {
		return 0
	}
	removed := t.sweep()
	if t.empty() {
		delete(b.weak, signal)
	}
	if removed > 0 {
		b.log.Debug().Str("signal", string(signal)).Int("removed", removed).Msg("swept dead owners")
	}
	return removed
}
