package pool

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/joshuapare/arenapool/internal/runlist"
)

// ReportActive lists allocated runs as "active: 0 [30], 50 [10]", or
// "active: none" when nothing is allocated.
func (p *Pool) ReportActive() string {
	return p.report("active:", runlist.Allocated)
}

// ReportAvailable lists free runs as "available: 30 [20]", or
// "available: none" when the pool is full.
func (p *Pool) ReportAvailable() string {
	return p.report("available:", runlist.Free)
}

func (p *Pool) report(label string, state State) string {
	var sb strings.Builder
	sb.WriteString(label)
	n := 0
	for _, seg := range p.Runs() {
		if seg.State != state {
			continue
		}
		if n > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(seg.Offset))
		sb.WriteString(" [")
		sb.WriteString(strconv.Itoa(seg.Len))
		sb.WriteByte(']')
		n++
	}
	if n == 0 {
		sb.WriteString(" none")
	}
	return sb.String()
}

// Runs returns every run with its derived offset, in ascending offset order.
// A destroyed pool has no runs.
func (p *Pool) Runs() []Segment {
	if p.runs == nil {
		return nil
	}
	segs := make([]Segment, 0, p.runs.Len())
	off := 0
	for i := range p.runs.Len() {
		r := p.runs.At(i)
		segs = append(segs, Segment{Offset: off, Len: r.Len, State: r.State})
		off += r.Len
	}
	return segs
}

// String renders the run list in signed form: free runs positive,
// allocated runs negative, e.g. "[-30,70]".
func (p *Pool) String() string {
	if p.runs == nil {
		return "[empty]"
	}
	return p.runs.String()
}

// Stats returns occupancy and operation counters.
func (p *Pool) Stats() Stats {
	s := Stats{
		Capacity:      p.capacity,
		AllocCalls:    p.stats.allocCalls,
		FreeCalls:     p.stats.freeCalls,
		ReallocCalls:  p.stats.reallocCalls,
		Splits:        p.stats.splits,
		Coalesces:     p.stats.coalesces,
		GrowInPlace:   p.stats.growInPlace,
		ShrinkInPlace: p.stats.shrinkInPlace,
		Relocations:   p.stats.relocations,
		NoSpace:       p.stats.noSpace,
	}
	for _, seg := range p.Runs() {
		if seg.State == Free {
			s.FreeRuns++
			s.FreeBytes += seg.Len
			s.LargestFree = max(s.LargestFree, seg.Len)
		} else {
			s.AllocatedRuns++
			s.AllocatedBytes += seg.Len
		}
	}
	return s
}

// LogRuns writes one debug record per run to log.
func (p *Pool) LogRuns(log *slog.Logger) {
	for i, seg := range p.Runs() {
		log.Debug("run",
			"pool", p.id,
			"index", i,
			"offset", seg.Offset,
			"len", seg.Len,
			"state", seg.State.String(),
		)
	}
}
