package beacon

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitUnknownSignalIsNoOp(t *testing.T) {
	b := New()
	b.Emit("test.emit.unknown")
	Emit2(b, "test.emit.unknown", 1, "x")
}

func TestEmitStrongBeforeWeak(t *testing.T) {
	b := New()
	sig := Signal("test.emit.order")
	owner := &ownerStub{id: 1}
	var got []string

	require.NoError(t, WeakHook(b, sig, owner, func() { got = append(got, "weak") }))
	require.NoError(t, b.Hook(sig, func() { got = append(got, "strong") }))

	b.Emit(sig)

	assert.Equal(t, []string{"strong", "weak"}, got)
	runtime.KeepAlive(owner)
}

func TestEmitPassesTypedArguments(t *testing.T) {
	b := New()
	sig := Signal("test.emit.args")
	var gotA string
	var gotB int
	var gotC bool
	var gotD float64

	require.NoError(t, Hook4(b, sig, func(a string, n int, c bool, d float64) {
		gotA, gotB, gotC, gotD = a, n, c, d
	}))

	Emit4(b, sig, "x", 42, true, 1.5)

	assert.Equal(t, "x", gotA)
	assert.Equal(t, 42, gotB)
	assert.True(t, gotC)
	assert.Equal(t, 1.5, gotD)
}

func TestEmitSkipsMismatchedShapes(t *testing.T) {
	b := New()
	sig := Signal("test.emit.shape")
	owner := &ownerStub{id: 1}
	strongCalls := 0
	weakCalls := 0

	require.NoError(t, Hook1(b, sig, func(int) { strongCalls++ }))
	require.NoError(t, WeakHook1(b, sig, owner, func(string) { weakCalls++ }))

	// No subscriber takes zero arguments; nothing fires, nothing errors.
	b.Emit(sig)
	assert.Equal(t, 0, strongCalls)
	assert.Equal(t, 0, weakCalls)

	// The int shape reaches only the strong combination.
	Emit1(b, sig, 3)
	assert.Equal(t, 1, strongCalls)
	assert.Equal(t, 0, weakCalls)

	// A shape mismatch is a skip, not a defunct verdict: the owner is
	// still registered and fires on the matching shape.
	Emit1(b, sig, "three")
	assert.Equal(t, 1, weakCalls)
	runtime.KeepAlive(owner)
}

func TestEmitStrongPanicPropagates(t *testing.T) {
	b := New()
	sig := Signal("test.emit.strong.panic")

	require.NoError(t, b.Hook(sig, func() { panic("strong failure") }))

	assert.PanicsWithValue(t, "strong failure", func() { b.Emit(sig) })

	// The strong registration is untouched; strong subscribers manage
	// their own lifetime.
	assert.Equal(t, 1, b.Stats().StrongCallbacks[sig])
}

func TestEmitWeakPanicReapsOwner(t *testing.T) {
	b := New()
	sig := Signal("test.emit.weak.panic")
	failing := &ownerStub{id: 1}
	healthy := &ownerStub{id: 2}
	failures := 0
	healthyCalls := 0

	require.NoError(t, WeakHook(b, sig, failing, func() {
		failures++
		panic("defunct owner")
	}))
	require.NoError(t, WeakHook(b, sig, healthy, func() { healthyCalls++ }))

	// The panic never reaches the emitter, and the pass continues to the
	// remaining owners.
	b.Emit(sig)
	assert.Equal(t, 1, failures)
	assert.Equal(t, 1, healthyCalls)

	// The failing owner was dropped; the next emit skips it entirely.
	b.Emit(sig)
	assert.Equal(t, 1, failures)
	assert.Equal(t, 2, healthyCalls)
	assert.Equal(t, 1, b.Stats().WeakOwners[sig])
	runtime.KeepAlive(failing)
	runtime.KeepAlive(healthy)
}

func TestEmitWeakPanicInvokesPanicHandler(t *testing.T) {
	var gotSignal Signal
	var gotValue any
	b := New(WithPanicHandler(func(signal Signal, recovered any) {
		gotSignal = signal
		gotValue = recovered
	}))
	sig := Signal("test.emit.handler")
	owner := &ownerStub{id: 1}

	require.NoError(t, WeakHook(b, sig, owner, func() { panic("boom") }))

	b.Emit(sig)

	assert.Equal(t, sig, gotSignal)
	assert.Equal(t, "boom", gotValue)
	runtime.KeepAlive(owner)
}

func TestEmitReapsCollectedOwners(t *testing.T) {
	b := New()
	sig := Signal("test.emit.collected")
	live := &ownerStub{id: 1}
	calls := 0

	require.NoError(t, WeakHook(b, sig, live, func() { calls++ }))
	hookTransientOwner(t, b, sig)

	runtime.GC()
	runtime.GC()

	// Dispatch reaps the dead association as a byproduct.
	b.Emit(sig)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, b.Stats().WeakOwners[sig])
	runtime.KeepAlive(live)
}

func TestEmitLastOwnerReapDeletesSignal(t *testing.T) {
	b := New()
	sig := Signal("test.emit.reap.empty")
	owner := &ownerStub{id: 1}

	require.NoError(t, WeakHook(b, sig, owner, func() { panic("gone") }))

	b.Emit(sig)

	assert.Empty(t, b.Stats().WeakOwners)
	runtime.KeepAlive(owner)
}

func TestEmitReentrantEmit(t *testing.T) {
	b := New()
	outer := Signal("test.reentrant.outer")
	inner := Signal("test.reentrant.inner")
	var got []string

	require.NoError(t, b.Hook(inner, func() { got = append(got, "inner") }))
	require.NoError(t, b.Hook(outer, func() {
		got = append(got, "outer")
		b.Emit(inner)
	}))

	b.Emit(outer)
	assert.Equal(t, []string{"outer", "inner"}, got)
}

func TestEmitReentrantSameSignal(t *testing.T) {
	b := New()
	sig := Signal("test.reentrant.same")
	depth := 0

	require.NoError(t, b.Hook(sig, func() {
		depth++
		if depth < 3 {
			b.Emit(sig)
		}
	}))

	b.Emit(sig)
	assert.Equal(t, 3, depth)
}

func TestEmitReentrantMutation(t *testing.T) {
	b := New()
	sig := Signal("test.reentrant.mutation")
	owner := &ownerStub{id: 1}
	lateCalls := 0

	require.NoError(t, b.Hook(sig, func() {
		// Registrations made mid-dispatch take effect on the next emit.
		_ = WeakHook(b, sig, owner, func() { lateCalls++ })
	}))

	b.Emit(sig)
	assert.Equal(t, 0, lateCalls)

	b.Emit(sig)
	assert.Equal(t, 1, lateCalls)
	runtime.KeepAlive(owner)
}
