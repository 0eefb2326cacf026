package cli

import (
	"context"
	"fmt"

	"github.com/gxo-labs/matchmap/internal/config"
	"github.com/gxo-labs/matchmap/internal/transform"
	matchmap "github.com/gxo-labs/matchmap/pkg/matchmap/v1"
	"github.com/spf13/cobra"
)

// ValidationResult is the outcome of validating one map file.
type ValidationResult struct {
	File    string `json:"file"`
	Valid   bool   `json:"valid"`
	Entries int    `json:"entries,omitempty"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <map-file>...",
		Short: "Validate map files without looking anything up",
		Long: `Validate map files against the schema and check that every pattern
compiles, every template parses and every named transformer exists.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts, args)
		},
	}
}

func runValidate(cmd *cobra.Command, rootOpts *RootOptions, paths []string) error {
	formatter := rootOpts.formatter(cmd)

	results := make([]ValidationResult, 0, len(paths))
	failed := 0
	for _, path := range paths {
		res := validateFile(cmd.Context(), rootOpts, path)
		if !res.Valid {
			failed++
		}
		results = append(results, res)
	}

	if formatter.JSON() {
		if err := formatter.Success(results); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			if res.Valid {
				fmt.Fprintf(formatter.Writer, "✓ %s (%d entries)\n", res.File, res.Entries)
				continue
			}
			fmt.Fprintf(formatter.Writer, "✗ %s\n  %s: %s\n", res.File, res.Code, res.Error)
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d map file(s) failed validation", failed, len(paths)))
	}
	return nil
}

func validateFile(ctx context.Context, rootOpts *RootOptions, path string) ValidationResult {
	res := ValidationResult{File: path}
	f, err := config.LoadMapFileFromPath(ctx, path)
	if err == nil {
		_, err = config.Build(ctx, f, transform.Default(), matchmap.WithLogger(rootOpts.Log))
	}
	if err != nil {
		rootOpts.Log.Debugf("Validation of '%s' failed: %v", path, err)
		res.Code = errorCode(err)
		res.Error = err.Error()
		return res
	}
	res.Valid = true
	res.Entries = len(f.Entries)
	return res
}
