// Package cli implements the matchmap command line.
package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gxo-labs/matchmap/internal/logger"
	mmlog "github.com/gxo-labs/matchmap/pkg/matchmap/v1/log"
	"github.com/spf13/cobra"
)

// Defaults for the global flags.
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	DefaultFormat    = "text"
)

// ValidFormats are the accepted values of --format and --log-format.
var ValidFormats = []string{"text", "json"}

// RootOptions holds the global flags and the logger built from them.
type RootOptions struct {
	LogLevel  string
	LogFormat string
	Format    string

	// Log is set in PersistentPreRunE and writes to the command's stderr.
	Log mmlog.Logger
}

// VersionInfo is stamped into the binary at build time.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// NewRootCommand creates the matchmap root command.
func NewRootCommand(info VersionInfo) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "matchmap",
		Short: "Look up values by literal and pattern keys",
		Long: `matchmap loads map files whose keys are literals or regular expressions
and returns every value whose key matches the arguments.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitUsageError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if !slices.Contains(ValidFormats, strings.ToLower(opts.LogFormat)) {
				return NewExitError(ExitUsageError, fmt.Sprintf("invalid log format %q: must be one of %v", opts.LogFormat, ValidFormats))
			}
			opts.Log = logger.NewLogger(opts.LogLevel, opts.LogFormat, cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", DefaultLogLevel, "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", DefaultLogFormat, "log format (text|json)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", DefaultFormat, "output format (text|json)")

	cmd.AddCommand(NewLookupCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewBenchCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts, info))

	return cmd
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}
}
