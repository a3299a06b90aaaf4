package runlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func free(n int) Run  { return Run{State: Free, Len: n} }
func alloc(n int) Run { return Run{State: Allocated, Len: n} }

func TestNewIsEmpty(t *testing.T) {
	l := New()
	require.Equal(t, 0, l.Len())
	require.Equal(t, 1, l.Cap())
	require.Equal(t, "[empty]", l.String())
}

func TestInsertAppendAndMiddle(t *testing.T) {
	l := New()
	l.Insert(0, free(70))
	l.Insert(0, alloc(30))
	l.Insert(2, alloc(10))
	l.Insert(2, free(5))

	require.Equal(t, 4, l.Len())
	assert.Equal(t, []Run{alloc(30), free(70), free(5), alloc(10)}, l.All())
	assert.Equal(t, "[-30,70,5,-10]", l.String())
}

func TestInsertGrowsByDoubling(t *testing.T) {
	l := New()
	caps := []int{}
	for i := range 9 {
		l.Insert(i, free(i+1))
		caps = append(caps, l.Cap())
	}
	assert.Equal(t, []int{1, 2, 4, 4, 8, 8, 8, 8, 16}, caps)
	for i := range 9 {
		assert.Equal(t, i+1, l.At(i).Len)
	}
}

func TestRemoveShiftsAndReturns(t *testing.T) {
	l := New()
	for i := range 4 {
		l.Insert(i, alloc(i+1))
	}
	got := l.Remove(1)
	assert.Equal(t, alloc(2), got)
	assert.Equal(t, "[-1,-3,-4]", l.String())

	got = l.Remove(2)
	assert.Equal(t, alloc(4), got)
	assert.Equal(t, "[-1,-3]", l.String())
}

func TestRemoveShrinksBelowQuarter(t *testing.T) {
	l := New()
	for i := range 16 {
		l.Insert(i, free(1))
	}
	require.Equal(t, 16, l.Cap())

	for l.Len() > 3 {
		l.Remove(0)
	}
	// 3*4 < 16 triggers a shrink to twice the length.
	assert.Equal(t, 6, l.Cap())

	l.Remove(0)
	l.Remove(0)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 2, l.Cap())

	l.Remove(0)
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 2, l.Cap(), "removing the last run keeps the backing storage")
}

func TestSetOverwrites(t *testing.T) {
	l := New()
	l.Insert(0, free(10))
	l.Set(0, alloc(10))
	assert.Equal(t, alloc(10), l.At(0))
	assert.Equal(t, -10, l.At(0).Signed())
	assert.False(t, l.At(0).IsFree())
}

func TestOutOfRangePanics(t *testing.T) {
	l := New()
	l.Insert(0, free(1))

	assert.Panics(t, func() { l.At(1) })
	assert.Panics(t, func() { l.At(-1) })
	assert.Panics(t, func() { l.Set(1, free(1)) })
	assert.Panics(t, func() { l.Remove(1) })
	assert.Panics(t, func() { l.Insert(2, free(1)) })
	assert.NotPanics(t, func() { l.Insert(1, free(1)) })
}

func TestDestroyReleases(t *testing.T) {
	l := New()
	l.Insert(0, free(100))
	l.Destroy()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0, l.Cap())

	l.Insert(0, free(1))
	assert.Equal(t, 1, l.Len())
}

func TestAllReturnsCopy(t *testing.T) {
	l := New()
	l.Insert(0, free(8))
	runs := l.All()
	runs[0].Len = 99
	assert.Equal(t, 8, l.At(0).Len)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "free", Free.String())
	assert.Equal(t, "allocated", Allocated.String())
	assert.Equal(t, "State(0)", State(0).String())
}
