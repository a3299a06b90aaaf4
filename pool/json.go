package pool

import (
	"io"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// WriteJSON writes a detailed map of the pool to w:
//
//	{"capacity":100,"allocatedBytes":30,"freeBytes":70,"allocations":1,
//	 "freeRuns":1,"runs":[{"offset":0,"size":30,"state":"allocated"}, ...]}
func (p *Pool) WriteJSON(w io.Writer) error {
	jw := jwriter.NewStreamingWriter(w, 1024)
	p.writeDetailedMap(&jw)
	if err := jw.Error(); err != nil {
		return err
	}
	return jw.Flush()
}

func (p *Pool) writeDetailedMap(jw *jwriter.Writer) {
	s := p.Stats()

	obj := jw.Object()
	obj.Name("capacity").Int(s.Capacity)
	obj.Name("allocatedBytes").Int(s.AllocatedBytes)
	obj.Name("freeBytes").Int(s.FreeBytes)
	obj.Name("allocations").Int(s.AllocatedRuns)
	obj.Name("freeRuns").Int(s.FreeRuns)
	obj.Name("largestFree").Int(s.LargestFree)

	arr := obj.Name("runs").Array()
	for _, seg := range p.Runs() {
		run := arr.Object()
		run.Name("offset").Int(seg.Offset)
		run.Name("size").Int(seg.Len)
		run.Name("state").String(seg.State.String())
		run.End()
	}
	arr.End()
	obj.End()
}
