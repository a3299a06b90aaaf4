package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestPool creates a heap-backed pool and registers a validity check that
// runs when the test finishes.
func newTestPool(t testing.TB, capacity int) *Pool {
	t.Helper()
	p, err := New(capacity, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if p.runs != nil {
			require.NoError(t, p.Validate())
		}
	})
	return p
}

// mustAlloc allocates size bytes and validates the pool afterwards.
func mustAlloc(t testing.TB, p *Pool, size int) Handle {
	t.Helper()
	h, err := p.Alloc(size)
	require.NoError(t, err, "alloc(%d) on %s", size, p)
	require.NoError(t, p.Validate())
	return h
}

// mustFree frees h and validates the pool afterwards.
func mustFree(t testing.TB, p *Pool, h Handle) {
	t.Helper()
	require.NoError(t, p.Free(h), "free(%s) on %s", h, p)
	require.NoError(t, p.Validate())
}

// fill writes v into every payload byte of h.
func fill(t testing.TB, p *Pool, h Handle, v byte) {
	t.Helper()
	b, err := p.Bytes(h)
	require.NoError(t, err)
	for i := range b {
		b[i] = v
	}
}
