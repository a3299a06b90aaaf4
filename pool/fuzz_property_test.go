package pool

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// live tracks one outstanding allocation and the byte it was filled with.
type live struct {
	h    Handle
	size int
	fill byte
}

// Test_Fuzz_RandomAllocFreeRealloc_GuardInvariants performs random
// alloc/free/realloc and validates invariants and payloads after every step.
func Test_Fuzz_RandomAllocFreeRealloc_GuardInvariants(t *testing.T) {
	const capacity = 1024
	p := newTestPool(t, capacity)

	rng := rand.New(rand.NewSource(42)) // Fixed seed for reproducibility
	var allocs []live
	var tag byte

	for i := range 2000 {
		switch op := rng.Intn(3); op {
		case 0: // Allocate
			size := 1 + rng.Intn(128)
			h, err := p.Alloc(size)
			if err != nil {
				require.ErrorIs(t, err, ErrNoSpace, "step %d", i)
				break
			}
			tag++
			fill(t, p, h, tag)
			allocs = append(allocs, live{h: h, size: size, fill: tag})

		case 1: // Free
			if len(allocs) == 0 {
				break
			}
			k := rng.Intn(len(allocs))
			require.NoError(t, p.Free(allocs[k].h), "step %d", i)
			allocs = append(allocs[:k], allocs[k+1:]...)

		case 2: // Realloc
			if len(allocs) == 0 {
				break
			}
			k := rng.Intn(len(allocs))
			a := allocs[k]
			size := 1 + rng.Intn(192)
			before := p.String()

			h, err := p.Realloc(a.h, size)
			if err != nil {
				require.ErrorIs(t, err, ErrNoSpace, "step %d", i)
				require.Equal(t, before, p.String(), "step %d: failed realloc mutated runs", i)
				break
			}
			b, err := p.Bytes(h)
			require.NoError(t, err)
			for j := range min(a.size, size) {
				require.Equal(t, a.fill, b[j], "step %d: payload byte %d lost", i, j)
			}
			tag++
			fill(t, p, h, tag)
			allocs[k] = live{h: h, size: size, fill: tag}
		}

		require.NoError(t, p.Validate(), "step %d: %s", i, p)

		allocated := 0
		for _, a := range allocs {
			size, err := p.Size(a.h)
			require.NoError(t, err, "step %d", i)
			require.Equal(t, a.size, size)
			allocated += size
		}
		require.Equal(t, allocated, p.Stats().AllocatedBytes, "step %d", i)
	}

	for _, a := range allocs {
		require.NoError(t, p.Free(a.h))
	}
	require.Equal(t, "[1024]", p.String())
	ok, err := p.Destroy()
	require.NoError(t, err)
	require.True(t, ok, "pool with no outstanding allocations must be destroyable")
}
