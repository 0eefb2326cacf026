package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		optimize bool
		probes   []string
	)
	cmd := &cobra.Command{
		Use:   "stats <map-file>",
		Short: "Show the shape of a map and its optimizer plan",
		Long: `Show entry counts and the optimizer's merged groups for a map file.

Each --probe argument is looked up first, so the pattern check counters
reflect those lookups.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			m, err := loadMap(cmd.Context(), rootOpts, args[0], optimize)
			if err != nil {
				return formatter.Fail(ExitFailure, fmt.Sprintf("failed to load map file '%s'", args[0]), err)
			}
			for _, p := range probes {
				if _, err := m.Get(p); err != nil {
					return formatter.Fail(ExitFailure, fmt.Sprintf("probe '%s' failed", p), err)
				}
			}

			s := m.Stats()
			if formatter.JSON() {
				return formatter.Success(s)
			}
			w := formatter.Writer
			fmt.Fprintf(w, "%-15s %s\n", "name", s.Name)
			fmt.Fprintf(w, "%-15s %d\n", "entries", s.Entries)
			fmt.Fprintf(w, "%-15s %d\n", "literals", s.Literals)
			fmt.Fprintf(w, "%-15s %d\n", "patterns", s.Patterns)
			fmt.Fprintf(w, "%-15s %d\n", "transformers", s.Transformers)
			fmt.Fprintf(w, "%-15s %t\n", "optimized", s.Optimized)
			fmt.Fprintf(w, "%-15s %d\n", "merged groups", s.MergedGroups)
			fmt.Fprintf(w, "%-15s %d\n", "merged keys", s.MergedKeys)
			fmt.Fprintf(w, "%-15s %d\n", "plan length", s.PlanLen)
			fmt.Fprintf(w, "%-15s %d\n", "pattern checks", s.PatternChecks)
			fmt.Fprintf(w, "%-15s %d\n", "fast rejects", s.FastRejects)
			return nil
		},
	}
	cmd.Flags().BoolVar(&optimize, "optimize", false, "optimize the map even if the file does not ask for it")
	cmd.Flags().StringArrayVar(&probes, "probe", nil, "argument to look up before reporting (repeatable)")
	return cmd
}
