package script

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/joshuapare/arenapool/pool"
)

// Runner executes commands against one pool at a time and writes each
// command's output line to Out.
type Runner struct {
	Out  io.Writer
	Opts *pool.Options

	p       *pool.Pool
	handles map[string]pool.Handle
}

// NewRunner returns a runner writing to out. opts is passed to pool.New.
func NewRunner(out io.Writer, opts *pool.Options) *Runner {
	return &Runner{Out: out, Opts: opts, handles: make(map[string]pool.Handle)}
}

// Pool returns the most recently created pool, or nil.
func (r *Runner) Pool() *pool.Pool { return r.p }

// Run executes cmds in order, stopping at the first error.
func (r *Runner) Run(cmds []Command) error {
	for _, cmd := range cmds {
		if _, err := r.Exec(cmd); err != nil {
			return err
		}
	}
	return nil
}

// Exec executes one command and returns its output ("" when it prints
// nothing). Non-empty output is also written to Out.
func (r *Runner) Exec(cmd Command) (string, error) {
	out, err := r.exec(cmd)
	if err != nil {
		return "", errors.Wrapf(err, "line %d: %s", cmd.Line, cmd)
	}
	if out != "" && r.Out != nil {
		if _, err := fmt.Fprintln(r.Out, out); err != nil {
			return "", errors.Wrap(err, "script: write output")
		}
	}
	return out, nil
}

func (r *Runner) exec(cmd Command) (string, error) {
	if cmd.Op == OpCreate {
		if r.p != nil && r.p.Runs() != nil {
			return "", errors.New("pool already created")
		}
		p, err := pool.New(cmd.Size, r.Opts)
		if err != nil {
			return "", err
		}
		r.p = p
		clear(r.handles)
		return "", nil
	}
	if r.p == nil {
		return "", errors.New("no pool: use create first")
	}

	switch cmd.Op {
	case OpAlloc:
		if _, ok := r.handles[cmd.Name]; ok {
			return "", errors.Newf("%s is already allocated", cmd.Name)
		}
		h, err := r.p.Alloc(cmd.Size)
		return r.assign(cmd.Name, h, err)

	case OpFree:
		h, err := r.handle(cmd.Name)
		if err != nil {
			return "", err
		}
		if err := r.p.Free(h); err != nil {
			return "", err
		}
		delete(r.handles, cmd.Name)
		return "", nil

	case OpRealloc:
		h, err := r.handle(cmd.Name)
		if err != nil {
			return "", err
		}
		nh, err := r.p.Realloc(h, cmd.Size)
		if errors.Is(err, pool.ErrNoSpace) {
			return cmd.Name + " = none", nil
		}
		return r.assign(cmd.Name, nh, err)

	case OpActive:
		return r.p.ReportActive(), nil

	case OpAvailable:
		return r.p.ReportAvailable(), nil

	case OpRuns:
		return r.p.String(), nil

	case OpCheck:
		if err := r.p.Validate(); err != nil {
			return "", err
		}
		return "ok", nil

	case OpDestroy:
		ok, err := r.p.Destroy()
		if err != nil {
			return "", err
		}
		if !ok {
			return "refused", nil
		}
		clear(r.handles)
		return "destroyed", nil
	}
	return "", errors.Newf("unknown operation %q", cmd.Op)
}

func (r *Runner) assign(name string, h pool.Handle, err error) (string, error) {
	if errors.Is(err, pool.ErrNoSpace) {
		return name + " = none", nil
	}
	if err != nil {
		return "", err
	}
	r.handles[name] = h
	return name + " = " + strconv.Itoa(h.Offset()), nil
}

func (r *Runner) handle(name string) (pool.Handle, error) {
	h, ok := r.handles[name]
	if !ok {
		return pool.Handle{}, errors.Newf("%s is not allocated", name)
	}
	return h, nil
}
