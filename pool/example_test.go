package pool_test

import (
	"errors"
	"fmt"

	"github.com/joshuapare/arenapool/pool"
)

func Example() {
	p, err := pool.New(100, nil)
	if err != nil {
		panic(err)
	}

	a, _ := p.Alloc(30)
	b, _ := p.Alloc(20)
	fmt.Println(a.Offset(), b.Offset())
	fmt.Println(p.ReportActive())

	_ = p.Free(a)
	fmt.Println(p.ReportAvailable())

	_, err = p.Alloc(60)
	fmt.Println(errors.Is(err, pool.ErrNoSpace))

	_ = p.Free(b)
	ok, _ := p.Destroy()
	fmt.Println(ok)

	// Output:
	// 0 30
	// active: 0 [30], 30 [20]
	// available: 0 [30], 50 [50]
	// true
	// true
}

func ExamplePool_Realloc() {
	p, _ := pool.New(64, nil)
	a, _ := p.Alloc(16)
	_, _ = p.Alloc(16)

	buf, _ := p.Bytes(a)
	copy(buf, "payload")

	// The neighbour blocks in-place growth, so the allocation moves.
	a, _ = p.Realloc(a, 24)
	buf, _ = p.Bytes(a)
	fmt.Println(a.Offset(), string(buf[:7]))
	fmt.Println(p)

	// Output:
	// 32 payload
	// [16,-16,-24,8]
}
