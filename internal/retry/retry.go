// Package retry runs an operation again after a failure, with backoff.
package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gxo-labs/matchmap/internal/logger"
	mmlog "github.com/gxo-labs/matchmap/pkg/matchmap/v1/log"
)

// Operation is the unit of work being retried.
type Operation func(ctx context.Context) error

// Config controls the retry loop. The zero value runs the operation once.
type Config struct {
	Attempts      int
	Delay         time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	// Jitter randomizes each delay by up to this fraction, in [0, 1].
	Jitter float64
	// Retryable decides whether an error is worth another attempt. All errors
	// are retried when nil.
	Retryable func(error) bool
	// Name prefixes log messages.
	Name string
}

// Helper runs operations under a Config.
type Helper struct {
	log mmlog.Logger

	mu         sync.Mutex
	randSource *rand.Rand
}

// NewHelper creates a Helper. The log may be nil.
func NewHelper(log mmlog.Logger) *Helper {
	if log == nil {
		log = logger.Discard()
	}
	return &Helper{
		log:        log,
		randSource: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func normalize(cfg Config) Config {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 1
	}
	if cfg.BackoffFactor < 1.0 {
		cfg.BackoffFactor = 1.0
	}
	cfg.Jitter = math.Min(math.Max(cfg.Jitter, 0), 1)
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if cfg.MaxDelay < 0 {
		cfg.MaxDelay = 0
	}
	return cfg
}

// Do runs op until it succeeds, returns a non-retryable error, or runs out of
// attempts. The last error is returned unwrapped. Cancelling ctx stops the
// loop between attempts.
func (h *Helper) Do(ctx context.Context, cfg Config, op Operation) error {
	cfg = normalize(cfg)
	prefix := ""
	if cfg.Name != "" {
		prefix = cfg.Name + ": "
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				return err
			}
			return fmt.Errorf("retry cancelled after %d attempt(s): %w", attempt-1, lastErr)
		}

		lastErr = op(ctx)
		if lastErr == nil {
			if attempt > 1 {
				h.log.Infof("%ssucceeded on attempt %d/%d", prefix, attempt, cfg.Attempts)
			}
			return nil
		}
		if attempt == cfg.Attempts || (cfg.Retryable != nil && !cfg.Retryable(lastErr)) {
			break
		}

		wait := h.delay(cfg, attempt)
		h.log.Warnf("%sattempt %d/%d failed, retrying in %v: %v",
			prefix, attempt, cfg.Attempts, wait.Truncate(time.Millisecond), lastErr)

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry cancelled after %d attempt(s): %w", attempt, lastErr)
		}
	}
	return lastErr
}

// delay is the wait after the given failed attempt.
func (h *Helper) delay(cfg Config, attempt int) time.Duration {
	base := float64(cfg.Delay) * math.Pow(cfg.BackoffFactor, float64(attempt-1))
	if base > float64(math.MaxInt64) {
		base = float64(math.MaxInt64)
	}
	wait := time.Duration(base)

	if cfg.Jitter > 0 {
		h.mu.Lock()
		factor := cfg.Jitter * (h.randSource.Float64()*2.0 - 1.0)
		h.mu.Unlock()
		wait += time.Duration(float64(wait) * factor)
		if wait < 0 {
			wait = 0
		}
	}
	if cfg.MaxDelay > 0 && wait > cfg.MaxDelay {
		wait = cfg.MaxDelay
	}
	return wait
}
