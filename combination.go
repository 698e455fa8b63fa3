package beacon

import (
	"reflect"
	"strings"
)

// combiner is the type-erased view of a callback combination held in the
// strong and weak tables. Concrete combinations are per-arity so dispatch
// recovers the typed form with a single type assertion; a failed assertion
// is exactly a signature mismatch.
type combiner interface {
	// signature returns a printable form of the combination's callback
	// signature, e.g. "func(string, int)".
	signature() string

	// empty reports whether the combination holds no callbacks.
	empty() bool

	// count returns the number of callbacks held.
	count() int
}

// funcKey returns the identity of a callback for subtraction. Go funcs are
// not comparable, so identity is the code pointer; note that distinct
// closures over the same literal share one.
func funcKey(fn any) uintptr { return reflect.ValueOf(fn).Pointer() }

// combineFns returns a fresh slice invoking all of fns in order, then fn.
// The input slice is never mutated, so combinations already snapshotted by a
// dispatch pass stay stable.
func combineFns[F any](fns []F, fn F) []F {
	out := make([]F, len(fns), len(fns)+1)
	copy(out, fns)
	return append(out, fn)
}

// subtractFns returns a fresh slice with the last occurrence of fn removed,
// preserving the order of the remainder. If fn is not present the original
// slice is returned unchanged; absence is deliberately not an error, matching
// delegate-subtraction semantics.
func subtractFns[F any](fns []F, fn F) []F {
	key := funcKey(fn)
	for i := len(fns) - 1; i >= 0; i-- {
		if funcKey(fns[i]) == key {
			out := make([]F, 0, len(fns)-1)
			out = append(out, fns[:i]...)
			out = append(out, fns[i+1:]...)
			return out
		}
	}
	return fns
}

// typeName returns the printed name of T for signature diagnostics.
func typeName[T any]() string { return reflect.TypeFor[T]().String() }

func sigString(params ...string) string {
	return "func(" + strings.Join(params, ", ") + ")"
}

// combination0 holds zero or more callbacks taking no arguments.
type combination0 struct{ fns []func() }

func (c *combination0) signature() string { return sigString() }
func (c *combination0) empty() bool       { return len(c.fns) == 0 }
func (c *combination0) count() int        { return len(c.fns) }

func (c *combination0) combine(fn func()) *combination0 {
	return &combination0{fns: combineFns(c.fns, fn)}
}

func (c *combination0) subtract(fn func()) *combination0 {
	return &combination0{fns: subtractFns(c.fns, fn)}
}

func (c *combination0) invoke() {
	for _, fn := range c.fns {
		fn()
	}
}

// combination1 holds zero or more callbacks taking one typed argument.
type combination1[T1 any] struct{ fns []func(T1) }

func (c *combination1[T1]) signature() string { return sigString(typeName[T1]()) }
func (c *combination1[T1]) empty() bool       { return len(c.fns) == 0 }
func (c *combination1[T1]) count() int        { return len(c.fns) }

func (c *combination1[T1]) combine(fn func(T1)) *combination1[T1] {
	return &combination1[T1]{fns: combineFns(c.fns, fn)}
}

func (c *combination1[T1]) subtract(fn func(T1)) *combination1[T1] {
	return &combination1[T1]{fns: subtractFns(c.fns, fn)}
}

func (c *combination1[T1]) invoke(a1 T1) {
	for _, fn := range c.fns {
		fn(a1)
	}
}

// combination2 holds zero or more callbacks taking two typed arguments.
type combination2[T1, T2 any] struct{ fns []func(T1, T2) }

func (c *combination2[T1, T2]) signature() string {
	return sigString(typeName[T1](), typeName[T2]())
}
func (c *combination2[T1, T2]) empty() bool { return len(c.fns) == 0 }
func (c *combination2[T1, T2]) count() int  { return len(c.fns) }

func (c *combination2[T1, T2]) combine(fn func(T1, T2)) *combination2[T1, T2] {
	return &combination2[T1, T2]{fns: combineFns(c.fns, fn)}
}

func (c *combination2[T1, T2]) subtract(fn func(T1, T2)) *combination2[T1, T2] {
	return &combination2[T1, T2]{fns: subtractFns(c.fns, fn)}
}

func (c *combination2[T1, T2]) invoke(a1 T1, a2 T2) {
	for _, fn := range c.fns {
		fn(a1, a2)
	}
}

// combination3 holds zero or more callbacks taking three typed arguments.
type combination3[T1, T2, T3 any] struct{ fns []func(T1, T2, T3) }

func (c *combination3[T1, T2, T3]) signature() string {
	return sigString(typeName[T1](), typeName[T2](), typeName[T3]())
}
func (c *combination3[T1, T2, T3]) empty() bool { return len(c.fns) == 0 }
func (c *combination3[T1, T2, T3]) count() int  { return len(c.fns) }

func (c *combination3[T1, T2, T3]) combine(fn func(T1, T2, T3)) *combination3[T1, T2, T3] {
	return &combination3[T1, T2, T3]{fns: combineFns(c.fns, fn)}
}

func (c *combination3[T1, T2, T3]) subtract(fn func(T1, T2, T3)) *combination3[T1, T2, T3] {
	return &combination3[T1, T2, T3]{fns: subtractFns(c.fns, fn)}
}

func (c *combination3[T1, T2, T3]) invoke(a1 T1, a2 T2, a3 T3) {
	for _, fn := range c.fns {
		fn(a1, a2, a3)
	}
}

// combination4 holds zero or more callbacks taking four typed arguments.
type combination4[T1, T2, T3, T4 any] struct{ fns []func(T1, T2, T3, T4) }

func (c *combination4[T1, T2, T3, T4]) signature() string {
	return sigString(typeName[T1](), typeName[T2](), typeName[T3](), typeName[T4]())
}
func (c *combination4[T1, T2, T3, T4]) empty() bool { return len(c.fns) == 0 }
func (c *combination4[T1, T2, T3, T4]) count() int  { return len(c.fns) }

func (c *combination4[T1, T2, T3, T4]) combine(fn func(T1, T2, T3, T4)) *combination4[T1, T2, T3, T4] {
	return &combination4[T1, T2, T3, T4]{fns: combineFns(c.fns, fn)}
}

func (c *combination4[T1, T2, T3, T4]) subtract(fn func(T1, T2, T3, T4)) *combination4[T1, T2, T3, T4] {
	return &combination4[T1, T2, T3, T4]{fns: subtractFns(c.fns, fn)}
}

func (c *combination4[T1, T2, T3, T4]) invoke(a1 T1, a2 T2, a3 T3, a4 T4) {
	for _, fn := range c.fns {
		fn(a1, a2, a3, a4)
	}
}
