package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gxo-labs/matchmap/internal/config"
	"github.com/gxo-labs/matchmap/internal/transform"
	matchmap "github.com/gxo-labs/matchmap/pkg/matchmap/v1"
	"github.com/spf13/cobra"
)

// BenchResult is one timed lookup loop.
type BenchResult struct {
	Name          string  `json:"name"`
	Iterations    int     `json:"iterations"`
	NsPerOp       float64 `json:"ns_per_op"`
	PatternChecks uint64  `json:"pattern_checks"`
}

type benchCase struct {
	name string
	m    *matchmap.Map
}

// NewBenchCommand creates the bench command.
func NewBenchCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		iterations int
		arg        string
		typed      bool
	)
	cmd := &cobra.Command{
		Use:   "bench [map-file]",
		Short: "Compare straight and optimized lookups",
		Long: `Time repeated lookups of one argument against a straight and an
optimized copy of a map. Without a map file, built-in maps of 5 and 20 keys
are used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			if iterations <= 0 {
				return NewExitError(ExitUsageError, "--iterations must be positive")
			}

			var cases []benchCase
			var err error
			if len(args) == 1 {
				cases, err = fileBenchCases(cmd.Context(), rootOpts, args[0])
			} else {
				cases, err = builtinBenchCases()
			}
			if err != nil {
				return formatter.Fail(ExitFailure, "failed to prepare benchmark", err)
			}

			q := parseArg(arg, typed)
			results := make([]BenchResult, 0, len(cases))
			for _, c := range cases {
				res, err := runBench(c, q, iterations)
				if err != nil {
					return formatter.Fail(ExitFailure, fmt.Sprintf("benchmark '%s' failed", c.name), err)
				}
				results = append(results, res)
			}

			if formatter.JSON() {
				return formatter.Success(results)
			}
			for _, r := range results {
				fmt.Fprintf(formatter.Writer, "%-20s %10d %12.1f ns/op %8d pattern checks\n",
					r.Name, r.Iterations, r.NsPerOp, r.PatternChecks)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 100_000, "lookups per case")
	cmd.Flags().StringVar(&arg, "arg", "a", "argument to look up")
	cmd.Flags().BoolVar(&typed, "typed", false, "decode --arg as YAML")
	return cmd
}

func runBench(c benchCase, arg any, iterations int) (BenchResult, error) {
	c.m.ResetCounters()
	start := time.Now()
	for i := 0; i < iterations; i++ {
		if _, err := c.m.Get(arg); err != nil {
			return BenchResult{}, err
		}
	}
	elapsed := time.Since(start)
	return BenchResult{
		Name:          c.name,
		Iterations:    iterations,
		NsPerOp:       float64(elapsed.Nanoseconds()) / float64(iterations),
		PatternChecks: c.m.Stats().PatternChecks,
	}, nil
}

// builtinBenchCases builds a map of five letter keys and one of twenty
// integer keys, each straight and optimized.
func builtinBenchCases() ([]benchCase, error) {
	five := []matchmap.Entry{}
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		five = append(five, matchmap.E(matchmap.Literal(k), strings.ToUpper(k)))
	}
	twenty := []matchmap.Entry{}
	for i := 1; i <= 20; i++ {
		twenty = append(twenty, matchmap.E(matchmap.Literal(i), i*2))
	}

	var cases []benchCase
	for _, set := range []struct {
		label   string
		entries []matchmap.Entry
	}{{"5 keys", five}, {"20 keys", twenty}} {
		straight, err := matchmap.New(matchmap.WithEntries(set.entries...))
		if err != nil {
			return nil, err
		}
		optimized, err := matchmap.New(matchmap.WithEntries(set.entries...))
		if err != nil {
			return nil, err
		}
		if err := optimized.Optimize(); err != nil {
			return nil, err
		}
		cases = append(cases,
			benchCase{name: "straight " + set.label, m: straight},
			benchCase{name: "optimized " + set.label, m: optimized})
	}
	return cases, nil
}

func fileBenchCases(ctx context.Context, rootOpts *RootOptions, path string) ([]benchCase, error) {
	f, err := config.LoadMapFileFromPath(ctx, path)
	if err != nil {
		return nil, err
	}
	f.Optimize = false
	straight, err := config.Build(ctx, f, transform.Default(), matchmap.WithLogger(rootOpts.Log))
	if err != nil {
		return nil, err
	}
	f.Optimize = true
	optimized, err := config.Build(ctx, f, transform.Default(), matchmap.WithLogger(rootOpts.Log))
	if err != nil {
		return nil, err
	}
	return []benchCase{
		{name: "straight " + f.Name, m: straight},
		{name: "optimized " + f.Name, m: optimized},
	}, nil
}
