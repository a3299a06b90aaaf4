package pool

import (
	"github.com/cockroachdb/errors"

	"github.com/joshuapare/arenapool/internal/buf"
	"github.com/joshuapare/arenapool/internal/runlist"
)

// Validate checks that the run list tiles the arena: every run has a known
// state and a positive length, no run extends past the arena, no two free
// runs are adjacent, and the lengths sum to Capacity.
func (p *Pool) Validate() error {
	if p.runs == nil {
		return ErrDestroyed
	}
	if p.arena.Len() != p.capacity {
		return errors.Wrapf(ErrInvariant, "arena holds %d bytes, capacity is %d", p.arena.Len(), p.capacity)
	}
	if p.runs.Len() == 0 {
		return errors.Wrap(ErrInvariant, "run list is empty")
	}

	sum := 0
	prevFree := false
	for i := range p.runs.Len() {
		r := p.runs.At(i)
		if r.State != runlist.Free && r.State != runlist.Allocated {
			return errors.Wrapf(ErrInvariant, "run %d has unknown state %s", i, r.State)
		}
		if r.Len <= 0 {
			return errors.Wrapf(ErrInvariant, "run %d at offset %d has length %d", i, sum, r.Len)
		}
		if r.IsFree() && prevFree {
			return errors.Wrapf(ErrInvariant, "free runs %d and %d are adjacent at offset %d", i-1, i, sum)
		}
		if !buf.Has(p.arena.Bytes(), sum, r.Len) {
			return errors.Wrapf(ErrInvariant, "run %d at offset %d overruns the arena by %d bytes", i, sum, sum+r.Len-p.capacity)
		}
		prevFree = r.IsFree()
		sum += r.Len
	}
	if sum != p.capacity {
		return errors.Wrapf(ErrInvariant, "runs cover %d bytes, capacity is %d", sum, p.capacity)
	}
	return nil
}
