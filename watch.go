package hws

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events an editor produces on save.
const reloadDelay = 100 * time.Millisecond

// pageWatcher calls reload whenever the page file changes. It watches the
// parent directory so atomic replace-by-rename saves are seen too.
type pageWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	reload  func()
	logger  *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

func watchPage(path string, reload func(), logger *slog.Logger) (*pageWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	pw := &pageWatcher{watcher: w, path: abs, reload: reload, logger: logger, done: make(chan struct{})}
	go pw.watchLoop()
	logger.Info("watching page", "path", abs)
	return pw, nil
}

func (pw *pageWatcher) watchLoop() {
	defer close(pw.done)
	for {
		select {
		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != pw.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pw.logger.Debug("page changed", "op", event.Op.String())
				pw.schedule()
			}
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			pw.logger.Warn("watcher error", "err", err)
		}
	}
}

func (pw *pageWatcher) schedule() {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	if pw.timer != nil {
		pw.timer.Stop()
	}
	pw.timer = time.AfterFunc(reloadDelay, pw.reload)
}

// Close stops watching and waits for the event loop to exit.
func (pw *pageWatcher) Close() error {
	err := pw.watcher.Close()
	<-pw.done
	pw.mu.Lock()
	if pw.timer != nil {
		pw.timer.Stop()
	}
	pw.mu.Unlock()
	return err
}
