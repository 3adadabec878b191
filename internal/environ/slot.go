// Package environ provides goroutine-bound slots that make a value reachable
// from arbitrary nested calls for the dynamic extent of a scope.
//
// A Slot is process wide, but every goroutine sees its own cell. Installing a
// value replaces whatever the calling goroutine could see before, and the
// returned Guard puts the previous value back. Guards must be restored on the
// goroutine that created them and in the reverse order of installation; both
// rules are checked and violations panic.
//
// Goroutines started inside a scope do not inherit the value. Handing a value
// to another goroutine must go through explicit parameters.
package environ

import (
	"fmt"

	"github.com/petermattis/goid"
	"github.com/puzpuzpuz/xsync/v3"
)

// Slot holds at most one value of type T per goroutine.
type Slot[T any] struct {
	name  string
	cells *xsync.MapOf[int64, *cell[T]]
}

// cell is only ever touched by the goroutine it belongs to.
type cell[T any] struct {
	value T
	depth int
}

// Guard undoes exactly one Install.
type Guard[T any] struct {
	slot     *Slot[T]
	gid      int64
	depth    int
	prev     T
	restored bool
}

// New creates an empty slot. The name only shows up in panic messages.
func New[T any](name string) *Slot[T] {
	return &Slot[T]{
		name:  name,
		cells: xsync.NewMapOf[int64, *cell[T]](),
	}
}

// Install makes v the value visible to the calling goroutine until the
// returned guard is restored.
func (s *Slot[T]) Install(v T) *Guard[T] {
	gid := goid.Get()
	c, _ := s.cells.LoadOrCompute(gid, func() *cell[T] { return &cell[T]{} })
	g := &Guard[T]{slot: s, gid: gid, prev: c.value}
	c.depth++
	g.depth = c.depth
	c.value = v
	return g
}

// Restore puts back the value that was visible before the matching Install.
// Calling it more than once has no further effect.
func (g *Guard[T]) Restore() {
	if g.restored {
		return
	}
	if gid := goid.Get(); gid != g.gid {
		panic(fmt.Sprintf("environ: %s installed on goroutine %d restored on goroutine %d", g.slot.name, g.gid, gid))
	}
	c, ok := g.slot.cells.Load(g.gid)
	if !ok || c.depth != g.depth {
		panic(fmt.Sprintf("environ: %s restored out of order", g.slot.name))
	}
	g.restored = true
	c.depth--
	if c.depth == 0 {
		g.slot.cells.Delete(g.gid)
	} else {
		c.value = g.prev
	}
	var zero T
	g.prev = zero
}

// Current returns the value visible to the calling goroutine.
func (s *Slot[T]) Current() (T, bool) {
	c, ok := s.cells.Load(goid.Get())
	if !ok {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Active reports whether the calling goroutine has a value installed.
func (s *Slot[T]) Active() bool {
	_, ok := s.cells.Load(goid.Get())
	return ok
}

// With calls f with the current value. It returns false without calling f if
// nothing is installed.
func With[T, R any](s *Slot[T], f func(T) R) (R, bool) {
	v, ok := s.Current()
	if !ok {
		var zero R
		return zero, false
	}
	return f(v), true
}

// Using installs v for the duration of f. The previous value is restored on
// every way out of f, including panics and runtime.Goexit.
func Using[T, R any](s *Slot[T], v T, f func() R) R {
	g := s.Install(v)
	defer g.Restore()
	return f()
}
