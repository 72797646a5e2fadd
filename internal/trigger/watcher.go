package trigger

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const DefaultDebounce = 150 * time.Millisecond

// Watcher reports changes to a single file. The parent directory is
// watched so editors that replace the file on save are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	fs       *fsnotify.Watcher
	logger   *zap.Logger
}

func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{path: abs, debounce: DefaultDebounce, fs: fs, logger: logger}, nil
}

func (w *Watcher) Path() string { return w.path }

// SetDebounce changes how long a burst of events is coalesced.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Run calls onChange once per burst of writes until ctx is done or the
// watcher is closed. It closes the underlying watcher on return.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	defer w.fs.Close()

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
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watch error", zap.String("path", w.path), zap.Error(err))
		case <-fire:
			fire = nil
			w.logger.Debug("config changed", zap.String("path", w.path))
			onChange(w.path)
		}
	}
}

func (w *Watcher) Close() error { return w.fs.Close() }
