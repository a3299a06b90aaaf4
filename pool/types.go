package pool

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/arenapool/internal/arena"
	"github.com/joshuapare/arenapool/internal/runlist"
)

// State tags a run as free or allocated.
type State = runlist.State

const (
	Free      = runlist.Free
	Allocated = runlist.Allocated
)

// Backing selects where the arena bytes live.
type Backing = arena.Backing

const (
	// BackingHeap keeps the arena in a Go byte slice (default).
	BackingHeap = arena.Heap
	// BackingMmap keeps the arena in an anonymous mapping outside the Go heap.
	BackingMmap = arena.Mmap
)

// ParseBacking maps "heap" or "mmap" to a Backing.
func ParseBacking(s string) (Backing, error) { return arena.ParseBacking(s) }

// Options configures a Pool. A nil *Options means defaults.
type Options struct {
	// Logger receives debug events for every operation. When nil, output is
	// discarded unless POOL_LOG_ALLOC is set in the environment.
	Logger *slog.Logger

	// Backing selects the arena source. Default: BackingHeap.
	Backing Backing
}

// Handle identifies one allocated run of one Pool.
// The zero Handle is never valid.
type Handle struct {
	pool uint64
	off  int
}

// Offset returns the byte offset of the allocation from the arena start.
func (h Handle) Offset() int { return h.off }

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h.pool == 0 }

func (h Handle) String() string {
	if h.IsZero() {
		return "pool#-"
	}
	return fmt.Sprintf("pool#%d+%d", h.pool, h.off)
}

// Segment is a run together with its derived offset.
type Segment struct {
	Offset int
	Len    int
	State  State
}

// Stats holds pool occupancy and operation counters.
type Stats struct {
	Capacity int

	AllocatedBytes int // Bytes in allocated runs
	FreeBytes      int // Bytes in free runs
	AllocatedRuns  int
	FreeRuns       int
	LargestFree    int // Length of the largest free run (0 when full)

	AllocCalls   int // Alloc() calls that passed argument checks
	FreeCalls    int // Free() calls that passed argument checks
	ReallocCalls int // Realloc() calls that passed argument checks

	Splits        int // Free runs split by an allocation or shrink
	Coalesces     int // Free-run merges performed by Free or relocation
	GrowInPlace   int // Realloc grows absorbed by the following free run
	ShrinkInPlace int // Realloc shrinks
	Relocations   int // Realloc grows that moved the allocation
	NoSpace       int // Alloc/Realloc calls that failed with ErrNoSpace
}

// counters is the mutable part of Stats kept on the Pool.
type counters struct {
	allocCalls    int
	freeCalls     int
	reallocCalls  int
	splits        int
	coalesces     int
	growInPlace   int
	shrinkInPlace int
	relocations   int
	noSpace       int
}
