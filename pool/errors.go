package pool

import "github.com/cockroachdb/errors"

var (
	// ErrNoSpace indicates that no free run large enough was found.
	ErrNoSpace = errors.New("pool: no free run large enough")

	// ErrBadSize indicates a non-positive capacity or allocation size.
	ErrBadSize = errors.New("pool: size must be positive")

	// ErrBadHandle indicates a handle that does not name the start of an allocated run.
	ErrBadHandle = errors.New("pool: bad handle")

	// ErrForeignHandle indicates a handle issued by a different pool.
	ErrForeignHandle = errors.New("pool: handle belongs to another pool")

	// ErrDestroyed indicates use of a pool after Destroy released it.
	ErrDestroyed = errors.New("pool: destroyed")

	// ErrInvariant indicates that the run list no longer tiles the arena correctly.
	ErrInvariant = errors.New("pool: invariant violated")
)
