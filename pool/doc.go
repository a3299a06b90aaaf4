// Package pool provides a fixed-capacity memory pool carved out of a single
// contiguous byte arena.
//
// # Overview
//
// A Pool owns one arena of Capacity bytes and an ordered run list whose
// entries, read left to right, tile the arena exactly. Each run is either
// free or allocated; a run's offset is never stored and is always derived by
// summing the lengths of the runs before it.
//
// After the arena is created no further memory is requested from the Go
// runtime for payload bytes: every allocation is a range of the arena.
//
// # Operations
//
//   - Alloc(size): first-fit search; the allocation takes the low end of the
//     first free run that is large enough
//   - Free(h): marks the run free and coalesces it with free neighbours
//   - Realloc(h, size): shrinks or grows in place when the following run
//     allows it, otherwise relocates and copies the payload
//   - Destroy(): releases the arena only when nothing is allocated
//
// # Run Invariants
//
// After every public operation:
//
//  1. Run lengths sum to Capacity.
//  2. No run has length 0.
//  3. No two adjacent runs are both free.
//  4. Adjacent allocated runs are never merged.
//
// Validate checks these and is cheap enough to call from tests after every
// step.
//
// # Usage Example
//
//	p, err := pool.New(100, nil)
//	if err != nil {
//	    return err
//	}
//
//	h, err := p.Alloc(30)
//	if errors.Is(err, pool.ErrNoSpace) {
//	    // recoverable: pool state is unchanged
//	}
//
//	payload, _ := p.Bytes(h)
//	copy(payload, "hello")
//
//	fmt.Println(p.ReportActive())    // active: 0 [30]
//	fmt.Println(p.ReportAvailable()) // available: 30 [70]
//
//	_ = p.Free(h)
//	ok, err := p.Destroy() // ok == true once every handle is freed
//
// # Handles
//
// A Handle names the start offset of one allocated run in one specific
// Pool. It stays valid until that run is freed or relocated by Realloc.
// Handles from another Pool are rejected with ErrForeignHandle; stale
// handles are rejected with ErrBadHandle when they no longer point at the
// start of an allocated run.
//
// # Errors
//
// Bad sizes and bad handles are detected before any mutation and reported
// as ErrBadSize, ErrBadHandle or ErrForeignHandle. Running out of contiguous
// space is reported as ErrNoSpace and leaves the pool untouched.
//
// # Thread Safety
//
// Pool instances are not thread-safe. Callers must synchronize access
// externally.
//
// # Related Packages
//
//   - github.com/joshuapare/arenapool/arrowalloc: Arrow memory.Allocator backed by a Pool
package pool
