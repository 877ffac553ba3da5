package trycatch

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// nest runs body inside n nested regions and records the depth seen at
// each level.
func nest(e *Engine, n int, depths *[]int, body func()) {
	if n == 0 {
		body()
		return
	}
	e.Try(func() {
		*depths = append(*depths, e.Depth())
		nest(e, n-1, depths, body)
	}).End()
}

func TestWellNestedRegionsReturnToZero(t *testing.T) {
	e, _ := newTestEngine(t, WithCapacity(4))
	shapes := [][]int{
		{1},
		{4},
		{2, 3, 1},
		{4, 4, 4},
		{1, 2, 3, 4, 3, 2, 1},
	}
	for _, shape := range shapes {
		for _, n := range shape {
			var depths []int
			nest(e, n, &depths, func() {})
			require.Len(t, depths, n)
			for i, d := range depths {
				require.Equal(t, i+1, d)
			}
			require.Equal(t, 0, e.Depth())
		}
	}
}

func TestCatchInSameRegion(t *testing.T) {
	e, logs := newTestEngine(t)
	calls := 0
	after := false
	e.Try(func() {
		e.Raise(excA)
		after = true
	}).Catch(excA, func(id ID) {
		require.Equal(t, excA, id)
		calls++
	}).End()
	require.Equal(t, 1, calls)
	require.False(t, after, "body must not resume after a raise")
	require.Equal(t, 0, countUnhandled(logs))
	require.Equal(t, 0, e.Depth())
}

func TestCatchDoesNotAffectSiblings(t *testing.T) {
	e, _ := newTestEngine(t)
	first, second := 0, 0
	secondBody := false
	e.Try(func() {
		e.Raise(excA)
	}).Catch(excA, func(ID) { first++ }).End()
	e.Try(func() {
		secondBody = true
	}).Catch(excA, func(ID) { second++ }).End()
	require.Equal(t, 1, first)
	require.Equal(t, 0, second)
	require.True(t, secondBody)
	require.Equal(t, 0, e.Depth())
}

func TestUncaughtWithoutEnclosingRegion(t *testing.T) {
	e, logs := newTestEngine(t)
	afterEnd := false
	e.Try(func() {
		e.Raise(excC)
	}).Catch(excA, func(ID) {}).Catch(excB, func(ID) {}).End()
	afterEnd = true
	require.True(t, afterEnd)
	require.Equal(t, 1, countUnhandled(logs))
	require.Contains(t, logs.String(), `"exception":"exception(6)"`)
	require.Equal(t, 0, e.Depth())
}

func TestNestToCapacity(t *testing.T) {
	e, _ := newTestEngine(t)
	ran := false
	var depths []int
	nest(e, e.Capacity(), &depths, func() { ran = true })
	require.True(t, ran)
	require.Equal(t, []int{1, 2, 3}, depths)
	require.Equal(t, 0, e.Depth())
}

func TestNestBeyondCapacity(t *testing.T) {
	e, logs := newTestEngine(t)
	ran := false
	var depths []int
	require.PanicsWithValue(t, exitCalled(1), func() {
		nest(e, e.Capacity()+1, &depths, func() { ran = true })
	})
	require.False(t, ran)
	require.Equal(t, []int{1, 2, 3}, depths)
	require.Contains(t, logs.String(), "region nesting overflow (capacity 3), exiting")
	require.Equal(t, 0, e.Depth())
}

func TestNestBeyondCapacityExitReturns(t *testing.T) {
	exits := 0
	e, _ := newTestEngine(t, WithCapacity(1), WithExitFunc(func(int) { exits++ }))
	ran := false
	func() {
		defer func() {
			v := recover()
			err, ok := v.(*OverflowError)
			require.True(t, ok, "unexpected panic value %v", v)
			require.ErrorIs(t, err, ErrOverflow)
			require.Equal(t, 1, err.Capacity)
		}()
		e.Try(func() {
			e.Try(func() { ran = true }).End()
		}).End()
	}()
	require.Equal(t, 1, exits)
	require.False(t, ran)
	require.Equal(t, 0, e.Depth())
}

func raiseFrom(e *Engine, id ID) {
	e.Raise(id)
}

func TestRaiseInCalledFunction(t *testing.T) {
	e, _ := newTestEngine(t)
	direct, indirect := 0, 0
	e.Try(func() { e.Raise(excA) }).Catch(excA, func(ID) { direct++ }).End()
	e.Try(func() { raiseFrom(e, excA) }).Catch(excA, func(ID) { indirect++ }).End()
	require.Equal(t, 1, direct)
	require.Equal(t, 1, indirect)
	require.Equal(t, 0, e.Depth())
}

func TestNearestEnclosingHandlerWins(t *testing.T) {
	e, _ := newTestEngine(t)
	var order []string
	e.Try(func() {
		e.Try(func() {
			e.Try(func() {
				e.Raise(excB)
			}).Catch(excA, func(ID) { order = append(order, "inner") }).End()
			order = append(order, "middle body after inner")
		}).Catch(excB, func(ID) { order = append(order, "middle") }).End()
		order = append(order, "outer body after middle")
	}).Catch(excB, func(ID) { order = append(order, "outer") }).End()
	require.Equal(t, []string{"middle", "outer body after middle"}, order)
	require.Equal(t, 0, e.Depth())
}

func TestPropagationToOutermost(t *testing.T) {
	// Capacity 3, regions A ⊃ B ⊃ C, X raised in C, only A handles X.
	e, logs := newTestEngine(t)
	handledByA := 0
	var depthInHandler int
	e.Try(func() { // A
		e.Try(func() { // B
			e.Try(func() { // C
				e.Raise(excC)
			}).Catch(excA, func(ID) { t.Fatal("C caught") }).End()
			t.Fatal("B resumed")
		}).Catch(excB, func(ID) { t.Fatal("B caught") }).End()
		t.Fatal("A resumed")
	}).Catch(excC, func(ID) {
		handledByA++
		depthInHandler = e.Depth()
	}).End()
	require.Equal(t, 1, handledByA)
	require.Equal(t, 0, depthInHandler)
	require.Equal(t, 0, e.Depth())
	require.Equal(t, 0, countUnhandled(logs))
}

func TestFirstMatchingHandlerWins(t *testing.T) {
	e, _ := newTestEngine(t)
	var got []string
	e.Try(func() {
		e.Raise(excA)
	}).Catch(excB, func(ID) {
		got = append(got, "b")
	}).Catch(excA, func(ID) {
		got = append(got, "a1")
	}).Catch(excA, func(ID) {
		got = append(got, "a2")
	}).End()
	require.Equal(t, []string{"a1"}, got)
}

func TestCatchDefault(t *testing.T) {
	e, logs := newTestEngine(t)
	var specific, fallback []ID
	outer := 0
	e.Try(func() {
		for _, id := range []ID{excA, excB, excC} {
			e.Try(func() {
				e.Raise(id)
			}).Catch(excA, func(id ID) {
				specific = append(specific, id)
			}).CatchDefault(func(id ID) {
				fallback = append(fallback, id)
			}).End()
		}
	}).Catch(excB, func(ID) { outer++ }).End()
	require.Equal(t, []ID{excA}, specific)
	require.Equal(t, []ID{excB, excC}, fallback)
	require.Equal(t, 0, outer)
	require.Equal(t, 0, countUnhandled(logs))
}

func TestRaiseFromHandlerGoesOutward(t *testing.T) {
	e, _ := newTestEngine(t)
	var got ID
	e.Try(func() {
		e.Try(func() {
			e.Raise(excA)
		}).Catch(excA, func(ID) {
			e.Raise(excB)
		}).End()
	}).Catch(excB, func(id ID) { got = id }).End()
	require.Equal(t, excB, got)
	require.Equal(t, 0, e.Depth())
}

func TestHandlerMayEnterRegions(t *testing.T) {
	e, _ := newTestEngine(t)
	inner := 0
	e.Try(func() {
		e.Raise(excA)
	}).Catch(excA, func(ID) {
		e.Try(func() {
			e.Raise(excB)
		}).Catch(excB, func(ID) { inner++ }).End()
	}).End()
	require.Equal(t, 1, inner)
	require.Equal(t, 0, e.Depth())
}

func TestForeignPanicPassesThrough(t *testing.T) {
	e, _ := newTestEngine(t)
	require.PanicsWithValue(t, "boom", func() {
		e.Try(func() {
			e.Try(func() {
				panic("boom")
			}).CatchDefault(func(ID) { t.Fatal("foreign panic caught") }).End()
		}).End()
	})
	require.Equal(t, 0, e.Depth())
	for _, s := range e.stack.slots {
		require.False(t, s.occupied)
	}

	// Still usable afterwards.
	caught := false
	e.Try(func() { e.Raise(excA) }).Catch(excA, func(ID) { caught = true }).End()
	require.True(t, caught)
}

func TestGoexitReleasesSlots(t *testing.T) {
	e, _ := newTestEngine(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Try(func() {
			e.Try(func() {
				runtime.Goexit()
			}).End()
		}).End()
	}()
	<-done
	require.Equal(t, 0, e.Depth())
	for _, s := range e.stack.slots {
		require.False(t, s.occupied)
	}

	caught := false
	e.Try(func() { e.Raise(excA) }).Catch(excA, func(ID) { caught = true }).End()
	require.True(t, caught)
}

func TestRegionReuse(t *testing.T) {
	e, _ := newTestEngine(t)
	raise := true
	caught := 0
	r := e.Try(func() {
		if raise {
			e.Raise(excA)
		}
	}).Catch(excA, func(ID) { caught++ })
	r.End()
	raise = false
	r.End()
	raise = true
	r.End()
	require.Equal(t, 2, caught)
	require.Equal(t, 0, e.Depth())
}
