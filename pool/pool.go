package pool

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/cockroachdb/errors"

	"github.com/joshuapare/arenapool/internal/arena"
	"github.com/joshuapare/arenapool/internal/buf"
	"github.com/joshuapare/arenapool/internal/runlist"
)

// Runtime debug flag for allocation logging - controlled by POOL_LOG_ALLOC env var.
var logAlloc = os.Getenv("POOL_LOG_ALLOC") != ""

// lastID numbers pools so handles can be traced back to their owner.
var lastID atomic.Uint64

// Pool is a fixed-capacity allocator over one byte arena.
type Pool struct {
	id       uint64
	capacity int
	arena    *arena.Arena
	runs     *runlist.List // nil once destroyed
	log      *slog.Logger
	stats    counters
}

// New creates a pool of capacity bytes holding a single free run.
//
// Parameters:
//   - capacity: arena size in bytes, must be positive
//   - opts: logger and backing selection (use nil for defaults)
func New(capacity int, opts *Options) (*Pool, error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(ErrBadSize, "capacity %d", capacity)
	}
	if opts == nil {
		opts = &Options{}
	}

	a, err := arena.New(capacity, opts.Backing)
	if err != nil {
		return nil, err
	}

	p := &Pool{
		id:       lastID.Add(1),
		capacity: capacity,
		arena:    a,
		runs:     runlist.New(),
		log:      opts.Logger,
	}
	if p.log == nil {
		p.log = defaultLogger()
	}
	p.runs.Insert(0, runlist.Run{State: runlist.Free, Len: capacity})

	p.log.Debug("pool created", "pool", p.id, "capacity", capacity, "backing", a.Backing())
	return p, nil
}

func defaultLogger() *slog.Logger {
	if logAlloc {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Capacity returns the arena size in bytes.
func (p *Pool) Capacity() int { return p.capacity }

// Destroy releases the arena and run list when the pool holds exactly one
// free run covering the whole capacity. Otherwise it returns false and
// leaves the pool untouched, since outstanding handles would dangle.
//
// The error reports a failure to return mapped memory to the OS, or
// ErrDestroyed on a second call.
func (p *Pool) Destroy() (bool, error) {
	if p.runs == nil {
		return false, ErrDestroyed
	}
	if p.runs.Len() != 1 || !p.runs.At(0).IsFree() || p.runs.At(0).Len != p.capacity {
		p.log.Warn("destroy refused", "pool", p.id, "runs", p.runs.Len())
		return false, nil
	}

	p.runs.Destroy()
	p.runs = nil
	err := p.arena.Release()
	p.log.Debug("pool destroyed", "pool", p.id)
	if err != nil {
		return true, errors.Wrap(err, "pool: release arena")
	}
	return true, nil
}

// Alloc reserves size bytes from the first free run large enough to hold
// them. The allocation occupies the low end of that run.
//
// Returns ErrNoSpace, with the pool unchanged, when no such run exists.
func (p *Pool) Alloc(size int) (Handle, error) {
	if p.runs == nil {
		return Handle{}, ErrDestroyed
	}
	if size <= 0 {
		return Handle{}, errors.Wrapf(ErrBadSize, "alloc %d", size)
	}
	p.stats.allocCalls++

	pos, off, ok := p.firstFit(size)
	if !ok {
		p.stats.noSpace++
		p.log.Debug("alloc: no space", "pool", p.id, "size", size)
		return Handle{}, ErrNoSpace
	}
	p.carve(pos, size)

	p.log.Debug("alloc", "pool", p.id, "size", size, "offset", off)
	return Handle{pool: p.id, off: off}, nil
}

// Free returns the allocation named by h to the pool and coalesces it with
// any free neighbour.
func (p *Pool) Free(h Handle) error {
	pos, _, err := p.locate(h)
	if err != nil {
		return err
	}
	p.stats.freeCalls++
	size := p.runs.At(pos).Len
	p.release(pos)

	p.log.Debug("free", "pool", p.id, "offset", h.off, "size", size)
	return nil
}

// Realloc resizes the allocation named by h to newSize bytes.
//
// Shrinking and growing into a following free run happen in place and
// return h. Otherwise a new run is allocated first-fit, the payload is
// copied, and the old run is freed; the returned handle replaces h.
//
// Returns ErrNoSpace, with the original allocation untouched, when the
// allocation can neither grow in place nor be relocated.
func (p *Pool) Realloc(h Handle, newSize int) (Handle, error) {
	if p.runs == nil {
		return Handle{}, ErrDestroyed
	}
	if newSize <= 0 {
		return Handle{}, errors.Wrapf(ErrBadSize, "realloc %d", newSize)
	}
	pos, off, err := p.locate(h)
	if err != nil {
		return Handle{}, err
	}
	p.stats.reallocCalls++

	oldSize := p.runs.At(pos).Len
	nextSpace := 0
	if pos+1 < p.runs.Len() && p.runs.At(pos+1).IsFree() {
		nextSpace = p.runs.At(pos + 1).Len
	}

	switch {
	case newSize < oldSize:
		p.stats.shrinkInPlace++
		p.runs.Set(pos, runlist.Run{State: runlist.Allocated, Len: newSize})
		if nextSpace > 0 {
			p.runs.Set(pos+1, runlist.Run{State: runlist.Free, Len: oldSize - newSize + nextSpace})
		} else {
			p.stats.splits++
			p.runs.Insert(pos+1, runlist.Run{State: runlist.Free, Len: oldSize - newSize})
		}
		p.log.Debug("realloc: shrink", "pool", p.id, "offset", off, "from", oldSize, "to", newSize)
		return h, nil

	case newSize == oldSize:
		return h, nil

	case nextSpace > 0 && oldSize+nextSpace >= newSize:
		p.stats.growInPlace++
		p.runs.Set(pos, runlist.Run{State: runlist.Allocated, Len: newSize})
		if rem := oldSize + nextSpace - newSize; rem > 0 {
			p.runs.Set(pos+1, runlist.Run{State: runlist.Free, Len: rem})
		} else {
			p.runs.Remove(pos + 1)
		}
		p.log.Debug("realloc: grow in place", "pool", p.id, "offset", off, "from", oldSize, "to", newSize)
		return h, nil
	}

	return p.relocate(h, oldSize, newSize)
}

// relocate moves an allocation that cannot grow in place. The new run is
// carved before the old one is touched so that failure leaves the layout
// exactly as it was.
func (p *Pool) relocate(h Handle, oldSize, newSize int) (Handle, error) {
	newPos, newOff, ok := p.firstFit(newSize)
	if !ok {
		p.stats.noSpace++
		p.log.Debug("realloc: no space", "pool", p.id, "offset", h.off, "size", newSize)
		return Handle{}, ErrNoSpace
	}
	p.carve(newPos, newSize)

	data := p.arena.Bytes()
	copy(data[newOff:newOff+min(oldSize, newSize)], data[h.off:h.off+oldSize])

	// Carving may have split a run in front of the old allocation, so its
	// position is looked up again by offset.
	oldPos, ok := p.indexOf(h.off)
	if !ok {
		panic("pool: relocated run vanished")
	}
	p.release(oldPos)
	p.stats.relocations++

	p.log.Debug("realloc: relocate", "pool", p.id, "from", h.off, "to", newOff, "size", newSize)
	return Handle{pool: p.id, off: newOff}, nil
}

// Bytes returns the payload of the allocation named by h. The slice has
// length and capacity equal to the allocation size and aliases the arena.
func (p *Pool) Bytes(h Handle) ([]byte, error) {
	pos, off, err := p.locate(h)
	if err != nil {
		return nil, err
	}
	b, ok := buf.Slice(p.arena.Bytes(), off, p.runs.At(pos).Len)
	if !ok {
		return nil, errors.Wrapf(ErrInvariant, "run at %d exceeds arena", off)
	}
	return b, nil
}

// Size returns the length of the allocation named by h.
func (p *Pool) Size(h Handle) (int, error) {
	pos, _, err := p.locate(h)
	if err != nil {
		return 0, err
	}
	return p.runs.At(pos).Len, nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// firstFit returns the position and offset of the first free run of at
// least size bytes.
func (p *Pool) firstFit(size int) (pos, off int, ok bool) {
	for i := range p.runs.Len() {
		r := p.runs.At(i)
		if r.IsFree() && r.Len >= size {
			return i, off, true
		}
		off += r.Len
	}
	return 0, 0, false
}

// carve turns the low size bytes of the free run at pos into an allocated
// run. An exact fit flips the run in place; otherwise the tail stays free.
func (p *Pool) carve(pos, size int) {
	space := p.runs.At(pos).Len
	p.runs.Set(pos, runlist.Run{State: runlist.Allocated, Len: size})
	if space > size {
		p.stats.splits++
		p.runs.Insert(pos+1, runlist.Run{State: runlist.Free, Len: space - size})
	}
}

// release marks the run at pos free and merges it with free neighbours.
func (p *Pool) release(pos int) {
	size := p.runs.At(pos).Len
	prevFree := pos > 0 && p.runs.At(pos-1).IsFree()
	nextFree := pos+1 < p.runs.Len() && p.runs.At(pos+1).IsFree()

	switch {
	case prevFree && nextFree:
		p.stats.coalesces += 2
		total := p.runs.At(pos-1).Len + size + p.runs.At(pos+1).Len
		p.runs.Remove(pos + 1)
		p.runs.Remove(pos)
		p.runs.Set(pos-1, runlist.Run{State: runlist.Free, Len: total})
	case nextFree:
		p.stats.coalesces++
		p.runs.Set(pos, runlist.Run{State: runlist.Free, Len: size + p.runs.At(pos+1).Len})
		p.runs.Remove(pos + 1)
	case prevFree:
		p.stats.coalesces++
		p.runs.Set(pos-1, runlist.Run{State: runlist.Free, Len: p.runs.At(pos-1).Len + size})
		p.runs.Remove(pos)
	default:
		p.runs.Set(pos, runlist.Run{State: runlist.Free, Len: size})
	}
}

// indexOf returns the position of the run starting at off.
func (p *Pool) indexOf(off int) (int, bool) {
	cur := 0
	for i := range p.runs.Len() {
		if cur == off {
			return i, true
		}
		if cur > off {
			break
		}
		cur += p.runs.At(i).Len
	}
	return 0, false
}

// locate resolves h to the position and offset of its allocated run.
func (p *Pool) locate(h Handle) (pos, off int, err error) {
	if p.runs == nil {
		return 0, 0, ErrDestroyed
	}
	if h.IsZero() {
		return 0, 0, ErrBadHandle
	}
	if h.pool != p.id {
		return 0, 0, errors.Wrapf(ErrForeignHandle, "%s", h)
	}
	pos, ok := p.indexOf(h.off)
	if !ok || p.runs.At(pos).IsFree() {
		return 0, 0, errors.Wrapf(ErrBadHandle, "%s", h)
	}
	return pos, h.off, nil
}
