package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gxo-labs/matchmap/internal/metrics"
	"github.com/gxo-labs/matchmap/internal/retry"
	"github.com/gxo-labs/matchmap/internal/tracing"
	"github.com/gxo-labs/matchmap/internal/transform"
	"github.com/gxo-labs/matchmap/internal/watch"
	matchmap "github.com/gxo-labs/matchmap/pkg/matchmap/v1"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	metricsAddr string
	debounce    time.Duration
	typed       bool
	retries     int
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch <map-file>",
		Short: "Serve lookups from stdin while reloading the map file on change",
		Long: `Load a map file, reload it whenever it changes and look up every line
read from stdin. A reload that fails keeps the previous map.

With --metrics-addr the Prometheus metrics of the map are served on /metrics.
Tracing is configured from the standard OTEL_* environment variables.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, rootOpts, opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "address to serve /metrics on (disabled when empty)")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", watch.DefaultDebounce, "quiet period before a reload")
	cmd.Flags().BoolVar(&opts.typed, "typed", false, "decode input lines as YAML scalars or lists")
	cmd.Flags().IntVar(&opts.retries, "reload-retries", 2, "extra attempts for a reload that fails")
	return cmd
}

func runWatch(cmd *cobra.Command, rootOpts *RootOptions, opts *watchOptions, path string) error {
	formatter := rootOpts.formatter(cmd)
	log := rootOpts.Log

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracerProvider := tracing.NewProviderFromEnv(ctx, log)
	tracerProvider.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warnf("Error shutting down tracer provider: %v", err)
		}
	}()
	metricsProvider := metrics.NewPrometheusRegistryProvider()

	build := watch.FileBuilder(transform.Default(),
		matchmap.WithLogger(log),
		matchmap.WithMetricsRegistryProvider(metricsProvider),
		matchmap.WithTracerProvider(tracerProvider),
	)
	initial, err := build(ctx, path)
	if err != nil {
		return formatter.Fail(ExitFailure, fmt.Sprintf("failed to load map file '%s'", path), err)
	}
	sm := matchmap.NewSyncMap(initial)

	watcher, err := watch.New(watch.Config{
		Path:     path,
		Debounce: opts.debounce,
		Retry: retry.Config{
			Attempts:      opts.retries + 1,
			Delay:         50 * time.Millisecond,
			MaxDelay:      time.Second,
			BackoffFactor: 2,
			Jitter:        0.2,
		},
	}, sm, build, log)
	if err != nil {
		return formatter.Fail(ExitUsageError, "invalid watch configuration", err)
	}

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := watcher.Run(runCtx); err != nil {
			log.Errorf("Map file watcher exited: %v", err)
		}
	}()

	var srv *http.Server
	if opts.metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(metricsProvider.Registry(), promhttp.HandlerOpts{}))
		srv = &http.Server{Addr: opts.metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("Metrics server failed: %v", err)
			}
		}()
		log.Infof("Serving metrics on %s/metrics", opts.metricsAddr)
	}

	lookupErr := serveLookups(runCtx, cmd, formatter, sm, opts.typed)

	cancelRun()
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}
	wg.Wait()
	log.Infof("Watch finished after %d reload(s), %d failed", watcher.Reloads(), watcher.Failures())

	if lookupErr != nil {
		return formatter.Fail(ExitFailure, "lookup failed", lookupErr)
	}
	return nil
}

// serveLookups answers one lookup per input line until EOF or ctx is done.
func serveLookups(ctx context.Context, cmd *cobra.Command, formatter *OutputFormatter, sm *matchmap.SyncMap, typed bool) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if line == "" {
				continue
			}
			q := parseArg(line, typed)
			values, err := sm.Get(q)
			if err != nil {
				return err
			}
			res := LookupResult{Arg: q, Values: values}
			if formatter.JSON() {
				if err := formatter.Success(res); err != nil {
					return err
				}
				continue
			}
			fmt.Fprintf(formatter.Writer, "%s => %s\n", formatValue(res.Arg), formatValues(res.Values))
		}
	}
}
