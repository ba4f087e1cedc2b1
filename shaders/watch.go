package shaders

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reloads a shader file whenever it changes on disk.
//
// Parsed sources are delivered through Updates; only the most recent one is kept when
// the consumer falls behind. The render loop polls Updates so GPU calls stay on its
// own thread.
type Watcher struct {
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration

	updates chan Source
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewWatcher watches path. The parent directory is watched so that editors which
// replace the file by renaming are still seen.
func NewWatcher(logger *zap.Logger, path string, debounce time.Duration) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("shader watch %q: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %q: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		logger:   logger,
		watcher:  fw,
		path:     abs,
		debounce: debounce,
		updates:  make(chan Source, 1),
		done:     make(chan struct{}),
	}, nil
}

// Updates delivers freshly parsed sources.
func (w *Watcher) Updates() <-chan Source { return w.updates }

// Start begins watching until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.logger.Info("watching shader file", zap.String("path", w.path))

	debounce := time.NewTimer(0)
	<-debounce.C

	go func() {
		defer close(w.done)
		for {
			select {
			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if w.relevant(ev) {
					w.logger.Debug("shader file changed",
						zap.String("file", ev.Name),
						zap.String("op", ev.Op.String()))
					debounce.Reset(w.debounce)
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Error("shader watcher error", zap.Error(err))
			case <-debounce.C:
				w.reload()
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return name == w.path
}

func (w *Watcher) reload() {
	src, err := Load(w.path)
	if err != nil {
		w.logger.Warn("shader reload skipped", zap.Error(err))
		return
	}
	// Drop a stale pending source so the newest one wins.
	select {
	case <-w.updates:
	default:
	}
	w.updates <- src
	w.logger.Info("shader reloaded", zap.String("path", w.path))
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}
	err := w.watcher.Close()
	if w.cancel != nil {
		<-w.done
	}
	return err
}
