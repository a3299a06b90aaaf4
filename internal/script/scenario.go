package script

import (
	"embed"
	"io"
	"io/fs"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Scenario is a YAML-described sequence of steps against one pool.
//
//	name: exact fit
//	capacity: 10
//	steps:
//	  - {op: alloc, name: a, size: 10, expect: "a = 0"}
//	  - {op: available, expect: "available: none"}
type Scenario struct {
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
	Steps    []Step `yaml:"steps"`
}

// Step is one operation, optionally with the output it must produce.
type Step struct {
	Op     Op      `yaml:"op"`
	Name   string  `yaml:"name,omitempty"`
	Size   int     `yaml:"size,omitempty"`
	Expect *string `yaml:"expect,omitempty"`
}

// LoadScenarios decodes every YAML document in r as a Scenario.
func LoadScenarios(r io.Reader) ([]*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var out []*Scenario
	for {
		var s Scenario
		err := dec.Decode(&s)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "scenario %d", len(out)+1)
		}
		if err := s.validate(); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, nil
}

func (s *Scenario) validate() error {
	for i, st := range s.Steps {
		kinds, ok := arity[st.Op]
		if !ok {
			return errors.Newf("scenario %q step %d: unknown operation %q", s.Name, i+1, st.Op)
		}
		if strings.ContainsRune(kinds, 'n') && st.Name == "" {
			return errors.Newf("scenario %q step %d: %s needs a name", s.Name, i+1, st.Op)
		}
	}
	return nil
}

// Commands converts the scenario to commands. A positive Capacity becomes a
// leading create.
func (s *Scenario) Commands() []Command {
	var cmds []Command
	if s.Capacity > 0 {
		cmds = append(cmds, Command{Line: 0, Op: OpCreate, Size: s.Capacity})
	}
	for i, st := range s.Steps {
		cmds = append(cmds, Command{Line: i + 1, Op: st.Op, Name: st.Name, Size: st.Size})
	}
	return cmds
}

// RunScenario executes s and fails on the first step whose output differs
// from its expectation.
func (r *Runner) RunScenario(s *Scenario) error {
	cmds := s.Commands()
	offset := len(cmds) - len(s.Steps)
	for i, cmd := range cmds {
		out, err := r.Exec(cmd)
		if err != nil {
			return errors.Wrapf(err, "scenario %q", s.Name)
		}
		if i < offset {
			continue
		}
		if want := s.Steps[i-offset].Expect; want != nil && *want != out {
			return errors.Newf("scenario %q step %d: %s: got %q, want %q", s.Name, cmd.Line, cmd, out, *want)
		}
	}
	return nil
}

//go:embed scenarios/*.yaml
var builtin embed.FS

// Builtin returns the bundled scenarios.
func Builtin() ([]*Scenario, error) {
	return LoadScenarioFiles(builtin, "scenarios/*.yaml")
}

// LoadScenarioFiles loads every file in fsys matching pattern, in lexical
// order, and concatenates their scenarios.
func LoadScenarioFiles(fsys fs.FS, pattern string) ([]*Scenario, error) {
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "script: glob %s", pattern)
	}
	if len(names) == 0 {
		return nil, errors.Newf("script: no scenario files match %s", pattern)
	}

	var all []*Scenario
	for _, name := range names {
		scenarios, err := loadScenarioFile(fsys, name)
		if err != nil {
			return nil, err
		}
		all = append(all, scenarios...)
	}
	return all, nil
}

func loadScenarioFile(fsys fs.FS, name string) ([]*Scenario, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "script: open %s", name)
	}
	defer f.Close()

	scenarios, err := LoadScenarios(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}
	return scenarios, nil
}
