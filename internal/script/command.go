// Package script drives a pool from small operation scripts.
//
// Line scripts hold one operation per line:
//
//	create 100
//	alloc a 30      # prints "a = 0"
//	alloc b 20      # prints "b = 30"
//	free a
//	available       # prints "available: 0 [30], 50 [50]"
//	realloc b 60    # prints "b = 0" or "b = none"
//	destroy         # prints "destroyed" or "refused"
//
// Blank lines and text after '#' are ignored. YAML scenarios describe the
// same operations as steps and may assert the output of each one.
package script

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Op names one script operation.
type Op string

const (
	OpCreate    Op = "create"
	OpAlloc     Op = "alloc"
	OpFree      Op = "free"
	OpRealloc   Op = "realloc"
	OpActive    Op = "active"
	OpAvailable Op = "available"
	OpRuns      Op = "runs"
	OpCheck     Op = "check"
	OpDestroy   Op = "destroy"
)

// arity lists the operands each op takes: 'n' for a name, 's' for a size.
var arity = map[Op]string{
	OpCreate:    "s",
	OpAlloc:     "ns",
	OpFree:      "n",
	OpRealloc:   "ns",
	OpActive:    "",
	OpAvailable: "",
	OpRuns:      "",
	OpCheck:     "",
	OpDestroy:   "",
}

// Command is one parsed operation.
type Command struct {
	Line int // 1-based source line or step number
	Op   Op
	Name string
	Size int
}

func (c Command) String() string {
	parts := []string{string(c.Op)}
	for _, kind := range arity[c.Op] {
		if kind == 'n' {
			parts = append(parts, c.Name)
		} else {
			parts = append(parts, strconv.Itoa(c.Size))
		}
	}
	return strings.Join(parts, " ")
}

// Parse reads a line script.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		cmd, err := parseFields(line, fields)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "script: read")
	}
	return cmds, nil
}

func parseFields(line int, fields []string) (Command, error) {
	cmd := Command{Line: line, Op: Op(strings.ToLower(fields[0]))}
	kinds, ok := arity[cmd.Op]
	if !ok {
		return Command{}, errors.Newf("line %d: unknown operation %q", line, fields[0])
	}
	args := fields[1:]
	if len(args) != len(kinds) {
		return Command{}, errors.Newf("line %d: %s takes %d operand(s), got %d", line, cmd.Op, len(kinds), len(args))
	}
	for i, kind := range kinds {
		if kind == 'n' {
			cmd.Name = args[i]
			continue
		}
		n, err := strconv.Atoi(args[i])
		if err != nil {
			return Command{}, errors.Newf("line %d: bad size %q", line, args[i])
		}
		cmd.Size = n
	}
	return cmd, nil
}
