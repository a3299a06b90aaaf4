// Package runlist provides the ordered run container backing a pool.
//
// A List holds Run records left to right. Positions are logical indexes in
// [0, Len()); the backing slice grows by doubling when full and shrinks to
// twice the length once occupancy drops below a quarter of capacity.
package runlist

import (
	"fmt"
	"strconv"
	"strings"
)

// State tags a run as free or allocated.
type State uint8

const (
	Free State = iota + 1
	Allocated
)

func (s State) String() string {
	switch s {
	case Free:
		return "free"
	case Allocated:
		return "allocated"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Run is one contiguous byte range of the arena.
type Run struct {
	State State
	Len   int
}

// IsFree reports whether the run is available for allocation.
func (r Run) IsFree() bool { return r.State == Free }

// Signed returns the run in its compact signed form: positive for free runs,
// negative for allocated ones.
func (r Run) Signed() int {
	if r.State == Allocated {
		return -r.Len
	}
	return r.Len
}

// shrinkFactor is the occupancy ratio below which the backing slice is
// reallocated smaller.
const shrinkFactor = 4

// List is an index-addressable, growable sequence of runs.
type List struct {
	data []Run
}

// New returns an empty list with minimal backing capacity.
func New() *List {
	return &List{data: make([]Run, 0, 1)}
}

// Len returns the number of runs.
func (l *List) Len() int { return len(l.data) }

// Cap returns the capacity of the backing storage.
func (l *List) Cap() int { return cap(l.data) }

// At returns the run at pos. It panics when pos is out of range.
func (l *List) At(pos int) Run {
	l.checkIndex(pos, len(l.data))
	return l.data[pos]
}

// Set overwrites the run at pos. It panics when pos is out of range.
func (l *List) Set(pos int, r Run) {
	l.checkIndex(pos, len(l.data))
	l.data[pos] = r
}

// Insert places r before pos, or appends it when pos == Len().
func (l *List) Insert(pos int, r Run) {
	l.checkIndex(pos, len(l.data)+1)
	if len(l.data) == cap(l.data) {
		l.resize(max(1, 2*cap(l.data)))
	}
	l.data = l.data[:len(l.data)+1]
	copy(l.data[pos+1:], l.data[pos:])
	l.data[pos] = r
}

// Remove deletes and returns the run at pos.
func (l *List) Remove(pos int) Run {
	l.checkIndex(pos, len(l.data))
	r := l.data[pos]
	copy(l.data[pos:], l.data[pos+1:])
	l.data[len(l.data)-1] = Run{}
	l.data = l.data[:len(l.data)-1]

	if n := len(l.data); n != 0 && n*shrinkFactor < cap(l.data) {
		l.resize(2 * n)
	}
	return r
}

// Destroy releases the backing storage. The list is empty afterwards.
func (l *List) Destroy() {
	l.data = nil
}

// All returns a copy of the runs in order.
func (l *List) All() []Run {
	out := make([]Run, len(l.data))
	copy(out, l.data)
	return out
}

// String renders the list in signed form, e.g. "[-30,70]" or "[empty]".
func (l *List) String() string {
	if len(l.data) == 0 {
		return "[empty]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, r := range l.data {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(r.Signed()))
	}
	sb.WriteByte(']')
	return sb.String()
}

func (l *List) resize(n int) {
	data := make([]Run, len(l.data), n)
	copy(data, l.data)
	l.data = data
}

func (l *List) checkIndex(pos, limit int) {
	if pos < 0 || pos >= limit {
		panic(fmt.Sprintf("runlist: position %d out of range [0,%d)", pos, limit))
	}
}
