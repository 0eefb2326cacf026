// Package watch keeps a SyncMap in step with its YAML map file.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gxo-labs/matchmap/internal/config"
	"github.com/gxo-labs/matchmap/internal/logger"
	"github.com/gxo-labs/matchmap/internal/retry"
	"github.com/gxo-labs/matchmap/internal/transform"
	matchmap "github.com/gxo-labs/matchmap/pkg/matchmap/v1"
	mmerrors "github.com/gxo-labs/matchmap/pkg/matchmap/v1/errors"
	mmlog "github.com/gxo-labs/matchmap/pkg/matchmap/v1/log"
)

// DefaultDebounce is the quiet period after the last file event before a
// reload starts.
const DefaultDebounce = 100 * time.Millisecond

// Builder loads and builds the map stored at path.
type Builder func(ctx context.Context, path string) (*matchmap.Map, error)

// FileBuilder returns a Builder that loads map files with the config package.
func FileBuilder(reg transform.Registry, opts ...matchmap.Option) Builder {
	return func(ctx context.Context, path string) (*matchmap.Map, error) {
		return config.LoadAndBuild(ctx, path, reg, opts...)
	}
}

// Config configures a Watcher.
type Config struct {
	// Path is the map file to watch.
	Path string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Retry controls how often a failed reload is attempted again before the
	// previous map is kept. The zero value tries once.
	Retry retry.Config
	// OnReload, when set, is called after every reload attempt with the new
	// map or the error that kept the previous one in place.
	OnReload func(m *matchmap.Map, err error)
}

// Watcher rebuilds a map whenever its file changes and swaps it into a
// SyncMap. A reload that fails leaves the previous map serving lookups.
type Watcher struct {
	cfg    Config
	path   string
	target *matchmap.SyncMap
	build  Builder
	log    mmlog.Logger
	retry  *retry.Helper

	reloads  atomic.Uint64
	failures atomic.Uint64
}

// New creates a Watcher. The log may be nil.
func New(cfg Config, target *matchmap.SyncMap, build Builder, log mmlog.Logger) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, mmerrors.NewConfigError("watch path cannot be empty", nil)
	}
	if target == nil {
		return nil, mmerrors.NewConfigError("watch target cannot be nil", nil)
	}
	if build == nil {
		return nil, mmerrors.NewConfigError("watch builder cannot be nil", nil)
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, mmerrors.NewConfigError(fmt.Sprintf("failed to get absolute path for '%s'", cfg.Path), err)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Retry.Name == "" {
		cfg.Retry.Name = "map reload"
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Watcher{
		cfg:    cfg,
		path:   filepath.Clean(abs),
		target: target,
		build:  build,
		log:    log.With("path", abs),
		retry:  retry.NewHelper(log),
	}, nil
}

// Run watches the file until ctx is done. The parent directory is watched so
// that editors replacing the file by rename are noticed.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch '%s': %w", filepath.Dir(w.path), err)
	}
	w.log.Infof("Watching map file (debounce %s)", w.cfg.Debounce)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.log.Debugf("Map file watcher stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debugf("Map file event: %s", event.Op)
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
			} else {
				timer.Reset(w.cfg.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			_ = w.Reload(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Errorf("Map file watcher error: %v", err)
		}
	}
}

// Reload rebuilds the map now and swaps it in on success.
func (w *Watcher) Reload(ctx context.Context) error {
	var m *matchmap.Map
	err := w.retry.Do(ctx, w.cfg.Retry, func(ctx context.Context) error {
		var err error
		m, err = w.build(ctx, w.path)
		return err
	})
	if err != nil {
		m = nil
		w.failures.Add(1)
		w.log.Errorf("Map reload failed, keeping previous map: %v", err)
	} else {
		w.target.Replace(m)
		w.reloads.Add(1)
		w.log.Infof("Map '%s' reloaded with %d entries", m.Name(), m.Len())
	}
	if w.cfg.OnReload != nil {
		w.cfg.OnReload(m, err)
	}
	return err
}

// Reloads returns the number of successful reloads.
func (w *Watcher) Reloads() uint64 { return w.reloads.Load() }

// Failures returns the number of failed reloads.
func (w *Watcher) Failures() uint64 { return w.failures.Load() }

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
