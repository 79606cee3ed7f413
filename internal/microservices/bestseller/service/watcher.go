package service

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/juju/clock"
	"github.com/juju/errors"

	"restaurant-ordering/internal/common/logger"
)

// Refresher is satisfied by BestsellerServiceInterface.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Watcher recomputes bestsellers when the completed orders file changes.
// Events within the debounce window collapse into one run.
type Watcher struct {
	dir      string
	file     string
	debounce time.Duration
	target   Refresher
	clock    clock.Clock
	log      *logger.Logger
}

func NewWatcher(dir, file string, debounce time.Duration, target Refresher, clk clock.Clock) *Watcher {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Watcher{
		dir:      dir,
		file:     file,
		debounce: debounce,
		target:   target,
		clock:    clk,
		log:      logger.New("bestseller-watcher"),
	}
}

// Run blocks until ctx is done. The directory is watched rather than the
// file because atomic writes replace the file by rename.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Annotate(err, "create watcher")
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return errors.Annotatef(err, "watch %s", w.dir)
	}
	w.log.Info("watcher_started", map[string]any{"dir": w.dir, "file": w.file, "debounce": w.debounce.String()})

	var (
		timer clock.Timer
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
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != w.file || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = w.clock.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.Chan()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch_error", err, nil)
		case <-fire:
			fire = nil
			if err := w.target.Refresh(ctx); err != nil {
				w.log.Error("refresh_failed", err, nil)
				continue
			}
			w.log.Debug("refreshed", map[string]any{"file": w.file})
		}
	}
}
