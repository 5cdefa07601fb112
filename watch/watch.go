// Package watch regenerates bindings when the schema file changes. Events
// are debounced, because editors and extractors write in bursts, and runs
// are rate limited so a pathological writer cannot wedge the machine in a
// rebuild loop.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/wastalk/wastalk/config"
	"github.com/wastalk/wastalk/errors"
	"github.com/wastalk/wastalk/logger"
)

// Watcher triggers a callback when the watched schema file changes.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	limiter  *rate.Limiter
	onChange func(ctx context.Context) error
}

// New creates a watcher for one schema file. The parent directory is
// watched rather than the file itself: most editors replace the file on
// save, which would otherwise silently drop the watch.
func New(path string, cfg config.WatchConfig, onChange func(ctx context.Context) error) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating file watcher")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "resolving %s", path)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "watching %s", filepath.Dir(abs))
	}

	debounce := time.Duration(cfg.DebounceMS) * time.Millisecond
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	perMinute := cfg.MaxPerMinute
	if perMinute <= 0 {
		perMinute = 30
	}

	return &Watcher{
		path:     abs,
		watcher:  fsw,
		debounce: debounce,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		onChange: onChange,
	}, nil
}

// Run blocks processing events until the context is cancelled. A failing
// regeneration is logged and the watch continues; a broken schema mid-edit
// is normal, not fatal.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	logger.Infow("watching schema", logger.FieldFile, w.path)

	var fire <-chan time.Time
	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debugw("schema changed",
				logger.FieldFile, event.Name,
				"op", event.Op.String(),
			)
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("file watcher error", logger.FieldError, err)

		case <-fire:
			fire = nil
			if err := w.limiter.Wait(ctx); err != nil {
				return err
			}
			if err := w.onChange(ctx); err != nil {
				logger.Errorw("regeneration failed", logger.FieldError, err)
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Name != w.path {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}
