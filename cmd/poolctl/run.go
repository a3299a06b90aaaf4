package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenapool/cmd/poolctl/logger"
	"github.com/joshuapare/arenapool/internal/script"
	"github.com/joshuapare/arenapool/pool"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Execute a pool script or scenario file",
	Long: `Execute a pool script (one command per line) or a YAML scenario file
(.yaml or .yml) and print each command's output.

Script commands:
  create <capacity>        create the pool
  alloc <name> <size>      allocate and bind name to the handle
  free <name>              free the named allocation
  realloc <name> <size>    resize the named allocation
  active | available       print the diagnostic reports
  runs                     print the run list
  check                    validate the layout
  destroy                  release an empty pool

Example:
  poolctl run fragmentation.txt
  poolctl run --json scenarios.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRun(args)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(args []string) error {
	path := args[0]
	printVerbose("Running %s\n", path)

	opts, err := poolOptions()
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var out io.Writer = os.Stdout
	if quiet || jsonOut {
		out = io.Discard
	}

	if isScenarioFile(path) {
		scenarios, err := script.LoadScenarios(f)
		if err != nil {
			return err
		}
		return runScenarios(scenarios, out, opts)
	}

	cmds, err := script.Parse(f)
	if err != nil {
		return err
	}
	r := script.NewRunner(out, opts)
	if err := r.Run(cmds); err != nil {
		return err
	}
	logger.Info("script finished", "file", path, "commands", len(cmds))
	if jsonOut {
		return writePoolJSON(r.Pool())
	}
	return nil
}

// runScenarios runs each scenario on a fresh runner.
func runScenarios(scenarios []*script.Scenario, out io.Writer, opts *pool.Options) error {
	for _, s := range scenarios {
		if out != io.Discard {
			fmt.Fprintf(out, "== %s\n", s.Name)
		}
		r := script.NewRunner(out, opts)
		if err := r.RunScenario(s); err != nil {
			return err
		}
		logger.Info("scenario passed", "name", s.Name, "steps", len(s.Steps))
		if jsonOut {
			if err := writePoolJSON(r.Pool()); err != nil {
				return err
			}
		}
	}
	printVerbose("%d scenario(s) passed\n", len(scenarios))
	return nil
}

func isScenarioFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// writePoolJSON prints the final layout of p, or null when no pool exists.
func writePoolJSON(p *pool.Pool) error {
	if p == nil || p.Runs() == nil {
		_, err := fmt.Fprintln(os.Stdout, "null")
		return err
	}
	if err := p.WriteJSON(os.Stdout); err != nil {
		return err
	}
	_, err := fmt.Fprintln(os.Stdout)
	return err
}
