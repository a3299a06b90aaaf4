package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/arenapool/internal/script"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the bundled scenarios",
	Long: `Run the scenarios bundled with poolctl. Each one checks the exact
output of every step, so a passing demo doubles as a smoke test.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo()
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo() error {
	opts, err := poolOptions()
	if err != nil {
		return err
	}
	scenarios, err := script.Builtin()
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if quiet || jsonOut {
		out = io.Discard
	}
	if err := runScenarios(scenarios, out, opts); err != nil {
		return err
	}
	printInfo("\n✓ %d scenario(s) passed\n", len(scenarios))
	return nil
}
