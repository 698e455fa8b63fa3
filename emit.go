package beacon

// Emit synchronously invokes every subscriber registered for signal with no
// arguments: the strong combination first, then each live weak association
// whose callbacks take no arguments. Subscribers of a different signature
// are skipped. A panic in a strong callback propagates to the caller; a
// panic in a weak callback is recovered, treated as evidence the owner is
// defunct, and the owner is dropped before the pass ends. Emit returns only
// after every callback has run.
func (b *Beacon) Emit(signal Signal) {
	strong, entries := b.snapshot(signal)
	if c, ok := strong.(*combination0); ok {
		c.invoke()
	}
	b.dispatchWeak(signal, entries, func(comb combiner) {
		if c, ok := comb.(*combination0); ok {
			c.invoke()
		}
	})
}

// Emit1 synchronously invokes every subscriber registered for signal with
// one argument of type T1. See Emit for dispatch order and panic policy.
func Emit1[T1 any](b *Beacon, signal Signal, a1 T1) {
	strong, entries := b.snapshot(signal)
	if c, ok := strong.(*combination1[T1]); ok {
		c.invoke(a1)
	}
	b.dispatchWeak(signal, entries, func(comb combiner) {
		if c, ok := comb.(*combination1[T1]); ok {
			c.invoke(a1)
		}
	})
}

// Emit2 synchronously invokes every subscriber registered for signal with
// two arguments of types T1, T2.
func Emit2[T1, T2 any](b *Beacon, signal Signal, a1 T1, a2 T2) {
	strong, entries := b.snapshot(signal)
	if c, ok := strong.(*combination2[T1, T2]); ok {
		c.invoke(a1, a2)
	}
	b.dispatchWeak(signal, entries, func(comb combiner) {
		if c, ok := comb.(*combination2[T1, T2]); ok {
			c.invoke(a1, a2)
		}
	})
}

// Emit3 synchronously invokes every subscriber registered for signal with
// three arguments of types T1, T2, T3.
func Emit3[T1, T2, T3 any](b *Beacon, signal Signal, a1 T1, a2 T2, a3 T3) {
	strong, entries := b.snapshot(signal)
	if c, ok := strong.(*combination3[T1, T2, T3]); ok {
		c.invoke(a1, a2, a3)
	}
	b.dispatchWeak(signal, entries, func(comb combiner) {
		if c, ok := comb.(*combination3[T1, T2, T3]); ok {
			c.invoke(a1, a2, a3)
		}
	})
}

// Emit4 synchronously invokes every subscriber registered for signal with
// four arguments of types T1, T2, T3, T4.
func Emit4[T1, T2, T3, T4 any](b *Beacon, signal Signal, a1 T1, a2 T2, a3 T3, a4 T4) {
	strong, entries := b.snapshot(signal)
	if c, ok := strong.(*combination4[T1, T2, T3, T4]); ok {
		c.invoke(a1, a2, a3, a4)
	}
	b.dispatchWeak(signal, entries, func(comb combiner) {
		if c, ok := comb.(*combination4[T1, T2, T3, T4]); ok {
			c.invoke(a1, a2, a3, a4)
		}
	})
}

// snapshot captures the signal's strong combination and weak entries under
// the lock so dispatch can run without holding it. Combinations are
// immutable values, so re-entrant hooks, unhooks, and emits from inside a
// callback neither deadlock nor tear the pass in flight.
func (b *Beacon) snapshot(signal Signal) (combiner, []tableEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var entries []tableEntry
	if t, ok := b.weak[signal]; ok {
		entries = t.snapshot()
	}
	return b.strong[signal], entries
}

// dispatchWeak walks the snapshotted associations in turn. Dead owners are
// marked without invoking; live owners run through invoke, and a panic marks
// the owner defunct while the pass continues. Marked owners are reaped once
// the pass completes.
func (b *Beacon) dispatchWeak(signal Signal, entries []tableEntry, invoke func(combiner)) {
	var defunct []tableEntry
	for _, e := range entries {
		if !e.ref.alive() {
			defunct = append(defunct, e)
			continue
		}
		if !b.invokeWeak(signal, e.comb, invoke) {
			defunct = append(defunct, e)
		}
	}
	b.reap(signal, defunct)
}

// invokeWeak runs invoke over one association's combination, converting a
// panic into a defunct-owner verdict. A signature mismatch inside invoke is
// a silent skip, not a verdict.
func (b *Beacon) invokeWeak(signal Signal, comb combiner, invoke func(combiner)) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			b.handlePanic(signal, r)
		}
	}()
	invoke(comb)
	return true
}

func (b *Beacon) handlePanic(signal Signal, recovered any) {
	if b.panicHandler != nil {
		b.panicHandler(signal, recovered)
		return
	}
	b.log.Warn().
		Str("signal", string(signal)).
		Any("panic", recovered).
		Msg("weak callback panicked, dropping owner")
}

// reap removes the defunct associations found during a dispatch pass. An
// association is removed only while it is still the one that was
// snapshotted, so an owner re-registered mid-dispatch survives. Deletes the
// signal's table once no associations remain.
func (b *Beacon) reap(signal Signal, defunct []tableEntry) {
	if len(defunct) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.weak[signal]
	if !ok {
		return
	}
	removed := 0
	for _, e := range defunct {
		if cur, ok := t.assocs[e.key]; ok && cur == e.assoc {
			t.remove(e.key)
			removed++
		}
	}
	if t.empty() {
		delete(b.weak, signal)
	}
	if removed > 0 {
		b.log.Debug().Str("signal", string(signal)).Int("removed", removed).Msg("reaped defunct owners")
	}
}
