// Package arrowalloc lets Apache Arrow buffers be carved out of a pool.
//
// Arrow's memory.Allocator has no error returns, so running out of pool
// space panics with an error wrapping pool.ErrNoSpace, the same way the Go
// runtime panics when the heap is exhausted.
package arrowalloc

import (
	"sync"
	"unsafe"

	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/cockroachdb/errors"

	"github.com/joshuapare/arenapool/pool"
)

// Allocator adapts a *pool.Pool to memory.Allocator.
//
// Allocator is safe to use from multiple goroutines; it serializes every
// call into the pool.
type Allocator struct {
	mu      sync.Mutex
	p       *pool.Pool
	handles map[uintptr]pool.Handle
	sz      int
}

var _ memory.Allocator = (*Allocator)(nil)

// New returns an allocator drawing from p. The pool must not be used
// directly while the allocator holds buffers from it.
func New(p *pool.Pool) *Allocator {
	return &Allocator{p: p, handles: make(map[uintptr]pool.Handle)}
}

// CurrentAlloc returns the number of bytes currently handed out.
func (a *Allocator) CurrentAlloc() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sz
}

// Allocate returns size bytes from the pool. Size 0 returns an empty slice
// without touching the pool.
func (a *Allocator) Allocate(size int) []byte {
	if size == 0 {
		return []byte{}
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	h, err := a.p.Alloc(size)
	if err != nil {
		panic(errors.Wrapf(err, "arrowalloc: allocate %d bytes", size))
	}
	return a.track(h, size)
}

// Reallocate resizes b, preserving its contents up to the smaller size.
func (a *Allocator) Reallocate(size int, b []byte) []byte {
	if len(b) == 0 {
		return a.Allocate(size)
	}
	if size == 0 {
		a.Free(b)
		return []byte{}
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	h, oldSize := a.untrack(b)
	nh, err := a.p.Realloc(h, size)
	if err != nil {
		a.track(h, oldSize)
		panic(errors.Wrapf(err, "arrowalloc: reallocate %d to %d bytes", oldSize, size))
	}
	return a.track(nh, size)
}

// Free returns b to the pool. Empty slices are ignored.
func (a *Allocator) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	h, _ := a.untrack(b)
	if err := a.p.Free(h); err != nil {
		panic(errors.Wrap(err, "arrowalloc: free"))
	}
}

func (a *Allocator) track(h pool.Handle, size int) []byte {
	out, err := a.p.Bytes(h)
	if err != nil {
		panic(errors.Wrap(err, "arrowalloc: payload"))
	}
	a.handles[addressOf(out)] = h
	a.sz += size
	return out
}

func (a *Allocator) untrack(b []byte) (pool.Handle, int) {
	ptr := addressOf(b)
	h, ok := a.handles[ptr]
	if !ok {
		panic(errors.Newf("arrowalloc: buffer at %#x was not allocated here", ptr))
	}
	size, err := a.p.Size(h)
	if err != nil {
		panic(errors.Wrap(err, "arrowalloc: size"))
	}
	delete(a.handles, ptr)
	a.sz -= size
	return h, size
}

func addressOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
