package beacon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombineInvokesInRegistrationOrder(t *testing.T) {
	var got []string
	c := &combination1[string]{}
	c = c.combine(func(s string) { got = append(got, "first:"+s) })
	c = c.combine(func(s string) { got = append(got, "second:"+s) })
	c = c.combine(func(s string) { got = append(got, "third:"+s) })

	c.invoke("x")

	assert.Equal(t, []string{"first:x", "second:x", "third:x"}, got)
}

func TestCombineDoesNotMutateOriginal(t *testing.T) {
	calls := 0
	base := (&combination0{}).combine(func() { calls++ })
	grown := base.combine(func() { calls++ })

	assert.Equal(t, 1, base.count())
	assert.Equal(t, 2, grown.count())

	base.invoke()
	assert.Equal(t, 1, calls)
}

func TestSubtractRemovesLastOccurrence(t *testing.T) {
	var got []string
	f := func() { got = append(got, "f") }
	g := func() { got = append(got, "g") }

	c := (&combination0{}).combine(f).combine(g).combine(f)
	c = c.subtract(f)

	c.invoke()

	// The trailing duplicate is removed; the leading occurrence survives.
	assert.Equal(t, []string{"f", "g"}, got)
	assert.Equal(t, 2, c.count())
}

func TestSubtractMissingIsSilentNoOp(t *testing.T) {
	// Subtracting a callback that was never combined must not error or
	// change the combination. Downstream code relies on idempotent
	// unregistration, so this stays permissive.
	f := func() {}
	stranger := func() {}

	c := (&combination0{}).combine(f)
	next := c.subtract(stranger)

	assert.Equal(t, 1, next.count())
	assert.False(t, next.empty())
}

func TestSubtractToEmpty(t *testing.T) {
	f := func(int, string) {}
	c := (&combination2[int, string]{}).combine(f)
	c = c.subtract(f)

	assert.True(t, c.empty())
	assert.Equal(t, 0, c.count())

	// Invoking an empty combination is a no-op.
	c.invoke(1, "x")
}

func TestSignatureStrings(t *testing.T) {
	type payload struct{ n int }

	assert.Equal(t, "func()", (&combination0{}).signature())
	assert.Equal(t, "func(int)", (&combination1[int]{}).signature())
	assert.Equal(t, "func(string, bool)", (&combination2[string, bool]{}).signature())
	assert.Equal(t, "func(int, int, int)", (&combination3[int, int, int]{}).signature())
	assert.Contains(t, (&combination4[int, string, bool, payload]{}).signature(), "payload")
}
