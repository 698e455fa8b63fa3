package beacon

import "weak"

// liveness is the type-erased view of a weakly-held owner.
type liveness interface {
	// alive reports whether the owner is still reachable.
	alive() bool
}

// weakRef holds an owner through a weak pointer. The struct is comparable
// and identity-stable: two refs made from the same owner pointer compare
// equal, before and after the owner is collected, so the ref doubles as the
// owner's map key.
type weakRef[O any] struct {
	p weak.Pointer[O]
}

func makeRef[O any](owner *O) weakRef[O] {
	return weakRef[O]{p: weak.Make(owner)}
}

func (r weakRef[O]) alive() bool { return r.p.Value() != nil }

// association pairs a weakly-held owner with its combined callbacks for one
// signal. The combination is replaced wholesale on every change; it is never
// mutated in place.
type association struct {
	ref  liveness
	comb combiner
}

// ownerTable tracks the associations for one signal, keyed by owner
// identity. The table holds no strong reference to any owner.
type ownerTable struct {
	assocs map[any]*association
}

func newOwnerTable() *ownerTable {
	return &ownerTable{assocs: make(map[any]*association)}
}

// getOrCreate returns the association for the given owner key, inserting a
// fresh empty one if absent.
func (t *ownerTable) getOrCreate(key any, ref liveness) *association {
	if a, ok := t.assocs[key]; ok {
		return a
	}
	a := &association{ref: ref}
	t.assocs[key] = a
	return a
}

// remove deletes the owner's association if present; no-op otherwise.
func (t *ownerTable) remove(key any) {
	delete(t.assocs, key)
}

// tableEntry couples one association with its owner key and the combination
// as it stood at capture time.
type tableEntry struct {
	key   any
	assoc *association
	ref   liveness
	comb  combiner
}

// snapshot returns the table's current entries. Mutating the table after the
// call does not disturb the returned slice, so callers may iterate and
// remove entries they have already visited.
func (t *ownerTable) snapshot() []tableEntry {
	entries := make([]tableEntry, 0, len(t.assocs))
	for key, a := range t.assocs {
		entries = append(entries, tableEntry{key: key, assoc: a, ref: a.ref, comb: a.comb})
	}
	return entries
}

// empty reports whether no associations remain, dead or alive.
func (t *ownerTable) empty() bool { return len(t.assocs) == 0 }

// sweep removes associations whose owner has been collected or whose
// combination has emptied, returning the number removed.
func (t *ownerTable) sweep() int {
	removed := 0
	for key, a := range t.assocs {
		if !a.ref.alive() || a.comb == nil || a.comb.empty() {
			delete(t.assocs, key)
			removed++
		}
	}
	return removed
}
