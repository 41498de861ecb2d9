package preview

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of writes a rebuild produces into one reload.
const reloadDelay = 50 * time.Millisecond

// Watcher reloads a Server whenever its blob file is written or replaced.
type Watcher struct {
	server *Server
	path   string
	fw     *fsnotify.Watcher
}

// NewWatcher starts watching the directory holding path. The parent directory
// is watched so that rebuilds which replace the file by rename are seen.
func NewWatcher(server *Server, path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{server: server, path: abs, fw: fw}, nil
}

// Run processes file events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fw.Close()

	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

	logger := w.server.logger
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				timer.Reset(reloadDelay)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "path", w.path, "err", err)
		case <-timer.C:
			if err := w.server.Load(w.path); err != nil {
				logger.Error("reload failed", "path", w.path, "err", err)
				continue
			}
			logger.Info("catalog reloaded", "path", w.path, "fingerprint", w.server.Fingerprint())
		}
	}
}

// Watch reloads the server from path on every rebuild until ctx is done.
func (s *Server) Watch(ctx context.Context, path string) error {
	w, err := NewWatcher(s, path)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
