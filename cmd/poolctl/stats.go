package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/arenapool/internal/script"
	"github.com/joshuapare/arenapool/pool"
)

var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Show pool statistics after running a script",
	Long: `Run a pool script silently and print occupancy and operation
counters for the resulting pool.

Example:
  poolctl stats fragmentation.txt
  poolctl stats fragmentation.txt --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(args)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(args []string) error {
	opts, err := poolOptions()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	cmds, err := script.Parse(f)
	if err != nil {
		return err
	}
	r := script.NewRunner(io.Discard, opts)
	if err := r.Run(cmds); err != nil {
		return err
	}
	p := r.Pool()
	if p == nil {
		return errors.New("script never creates a pool")
	}

	stats := p.Stats()
	if jsonOut {
		return printJSON(stats)
	}
	printStats(os.Stdout, stats)
	return nil
}

// printStats writes stats with grouped digits.
func printStats(w io.Writer, s pool.Stats) {
	pr := message.NewPrinter(language.English)

	pr.Fprintf(w, "Pool Statistics\n")
	pr.Fprintf(w, "═══════════════\n\n")
	pr.Fprintf(w, "Capacity:        %d bytes\n", s.Capacity)
	pr.Fprintf(w, "Allocated:       %d bytes in %d run(s)\n", s.AllocatedBytes, s.AllocatedRuns)
	pr.Fprintf(w, "Free:            %d bytes in %d run(s)\n", s.FreeBytes, s.FreeRuns)
	pr.Fprintf(w, "Largest free:    %d bytes\n", s.LargestFree)
	if s.Capacity > 0 {
		pr.Fprintf(w, "Utilization:     %.1f%%\n", float64(s.AllocatedBytes)*100/float64(s.Capacity))
	}

	pr.Fprintf(w, "\nOperations:\n")
	pr.Fprintf(w, "  alloc:         %d\n", s.AllocCalls)
	pr.Fprintf(w, "  free:          %d\n", s.FreeCalls)
	pr.Fprintf(w, "  realloc:       %d\n", s.ReallocCalls)
	pr.Fprintf(w, "  no space:      %d\n", s.NoSpace)

	if verbose {
		pr.Fprintf(w, "\nLayout changes:\n")
		pr.Fprintf(w, "  splits:        %d\n", s.Splits)
		pr.Fprintf(w, "  coalesces:     %d\n", s.Coalesces)
		pr.Fprintf(w, "  grow in place: %d\n", s.GrowInPlace)
		pr.Fprintf(w, "  shrinks:       %d\n", s.ShrinkInPlace)
		pr.Fprintf(w, "  relocations:   %d\n", s.Relocations)
	}
}
