package environ

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptySlot(t *testing.T) {
	slot := New[string]("test")

	v, ok := slot.Current()
	assert.False(t, ok)
	assert.Equal(t, "", v)
	assert.False(t, slot.Active())

	res, ok := With(slot, func(s string) int { return len(s) })
	assert.False(t, ok)
	assert.Equal(t, 0, res)
}

func TestInstallRestore(t *testing.T) {
	slot := New[string]("test")

	g := slot.Install("a")
	v, ok := slot.Current()
	require.True(t, ok)
	assert.Equal(t, "a", v)

	g.Restore()
	_, ok = slot.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, slot.cells.Size())

	// restoring twice is harmless
	g.Restore()
	assert.False(t, slot.Active())
}

func TestUsingNests(t *testing.T) {
	slot := New[string]("test")

	var during, after string
	outer := Using(slot, "outer", func() int {
		inner := Using(slot, "inner", func() int {
			during, _ = slot.Current()
			return 2
		})
		after, _ = slot.Current()
		return inner + 1
	})

	assert.Equal(t, 3, outer)
	assert.Equal(t, "inner", during)
	assert.Equal(t, "outer", after)
	assert.False(t, slot.Active())
}

func TestUsingRestoresOnPanic(t *testing.T) {
	slot := New[int]("test")

	Using(slot, 1, func() struct{} {
		assert.PanicsWithValue(t, "boom", func() {
			Using(slot, 2, func() struct{} {
				panic("boom")
			})
		})
		v, ok := slot.Current()
		assert.True(t, ok)
		assert.Equal(t, 1, v)
		return struct{}{}
	})
	assert.False(t, slot.Active())
}

func TestUsingRestoresOnGoexit(t *testing.T) {
	slot := New[int]("test")

	var wg sync.WaitGroup
	var activeAfter bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() { activeAfter = slot.Active() }()
		Using(slot, 7, func() int {
			runtime.Goexit()
			return 0
		})
	}()
	wg.Wait()

	assert.False(t, activeAfter)
	assert.Equal(t, 0, slot.cells.Size())
}

func TestGoroutinesDoNotShareCells(t *testing.T) {
	slot := New[int]("test")

	Using(slot, 1, func() struct{} {
		done := make(chan bool)
		go func() { done <- slot.Active() }()
		assert.False(t, <-done, "spawned goroutine must start with an empty slot")
		return struct{}{}
	})

	const workers = 16
	var wg sync.WaitGroup
	seen := make([]int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			Using(slot, i, func() struct{} {
				runtime.Gosched()
				seen[i], _ = slot.Current()
				return struct{}{}
			})
		}(i)
	}
	wg.Wait()

	for i, v := range seen {
		assert.Equal(t, i, v)
	}
	assert.Equal(t, 0, slot.cells.Size())
}

func TestRestoreOnOtherGoroutinePanics(t *testing.T) {
	slot := New[int]("test")
	g := slot.Install(1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.Panics(t, g.Restore)
	}()
	<-done

	v, ok := slot.Current()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	g.Restore()
	assert.False(t, slot.Active())
}

func TestRestoreOutOfOrderPanics(t *testing.T) {
	slot := New[int]("test")
	outer := slot.Install(1)
	inner := slot.Install(2)

	assert.Panics(t, outer.Restore)

	inner.Restore()
	v, _ := slot.Current()
	assert.Equal(t, 1, v)
	outer.Restore()
	assert.False(t, slot.Active())
}
