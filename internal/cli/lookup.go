package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// LookupResult is the outcome of one lookup.
type LookupResult struct {
	Arg    any   `json:"arg"`
	Values []any `json:"values"`
}

type lookupOptions struct {
	typed    bool
	batch    bool
	optimize bool
}

// NewLookupCommand creates the lookup command.
func NewLookupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &lookupOptions{}
	cmd := &cobra.Command{
		Use:   "lookup <map-file> <arg>...",
		Short: "Look up arguments in a map file",
		Long: `Look up each argument in the map and print the values it matched.

With --batch all arguments form a single batch lookup, so duplicate values
across arguments are reported once.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, rootOpts, opts, args[0], args[1:])
		},
	}
	cmd.Flags().BoolVar(&opts.typed, "typed", false, "decode arguments as YAML scalars or lists")
	cmd.Flags().BoolVar(&opts.batch, "batch", false, "look up all arguments as one batch")
	cmd.Flags().BoolVar(&opts.optimize, "optimize", false, "optimize the map even if the file does not ask for it")
	return cmd
}

func runLookup(cmd *cobra.Command, rootOpts *RootOptions, opts *lookupOptions, path string, rawArgs []string) error {
	formatter := rootOpts.formatter(cmd)

	m, err := loadMap(cmd.Context(), rootOpts, path, opts.optimize)
	if err != nil {
		return formatter.Fail(ExitFailure, fmt.Sprintf("failed to load map file '%s'", path), err)
	}

	args := make([]any, len(rawArgs))
	for i, raw := range rawArgs {
		args[i] = parseArg(raw, opts.typed)
	}
	queries := args
	if opts.batch {
		queries = []any{args}
	}

	results := make([]LookupResult, 0, len(queries))
	for _, q := range queries {
		values, err := m.Get(q)
		if err != nil {
			return formatter.Fail(ExitFailure, fmt.Sprintf("lookup of '%s' failed", formatValue(q)), err)
		}
		results = append(results, LookupResult{Arg: q, Values: values})
	}

	if formatter.JSON() {
		return formatter.Success(results)
	}
	for _, r := range results {
		fmt.Fprintf(formatter.Writer, "%s => %s\n", formatValue(r.Arg), formatValues(r.Values))
	}
	return nil
}
