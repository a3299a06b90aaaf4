// Package arena provides the fixed-size byte buffers that back a pool.
package arena

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Backing selects where arena bytes come from.
type Backing uint8

const (
	// Heap backs the arena with a Go byte slice.
	Heap Backing = iota
	// Mmap backs the arena with an anonymous private mapping, keeping the
	// bytes outside the Go heap. Platforms without mmap fall back to Heap.
	Mmap
)

func (b Backing) String() string {
	switch b {
	case Heap:
		return "heap"
	case Mmap:
		return "mmap"
	default:
		return "unknown"
	}
}

// ParseBacking maps "heap" or "mmap" (case-insensitive) to a Backing.
func ParseBacking(s string) (Backing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "heap":
		return Heap, nil
	case "mmap":
		return Mmap, nil
	default:
		return Heap, errors.Newf("arena: unknown backing %q", s)
	}
}

// Arena is an exclusively owned byte buffer of fixed length.
type Arena struct {
	data    []byte
	backing Backing
	release func([]byte) error
}

// New returns an arena of exactly size bytes. Contents are unspecified until
// written.
func New(size int, backing Backing) (*Arena, error) {
	if size <= 0 {
		return nil, errors.Newf("arena: size must be positive, got %d", size)
	}
	if backing == Mmap {
		data, err := mapAnon(size)
		if err != nil {
			return nil, errors.Wrapf(err, "arena: map %d bytes", size)
		}
		if data != nil {
			return &Arena{data: data, backing: Mmap, release: unmap}, nil
		}
	}
	return &Arena{
		data:    make([]byte, size),
		backing: Heap,
		release: func([]byte) error { return nil },
	}, nil
}

// Bytes returns the whole arena.
func (a *Arena) Bytes() []byte { return a.data }

// Len returns the arena size in bytes.
func (a *Arena) Len() int { return len(a.data) }

// Backing reports where the bytes actually live.
func (a *Arena) Backing() Backing { return a.backing }

// Release returns the bytes to their source. Calling it twice is a no-op.
func (a *Arena) Release() error {
	if a.data == nil {
		return nil
	}
	data := a.data
	a.data = nil
	return a.release(data)
}
