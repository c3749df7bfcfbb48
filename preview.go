package statica

import (
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// watchDebounce is how long the watcher waits after the last theme change
// before rebuilding. Editors fire bursts of events per save.
const watchDebounce = 300 * time.Millisecond

// Preview builds the site once and serves the output tree on addr. With
// watch enabled it rebuilds whenever the theme directory changes, so theme
// edits show up on the next browser refresh. Blocks until the server stops.
func (e *Engine) Preview(addr string, watch bool) error {
	if _, err := e.Build(); err != nil {
		return err
	}

	if watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()
		if err := watcher.Add(e.Config.ThemeDir); err != nil {
			return err
		}
		go e.watchLoop(watcher)
	}

	srv := echo.New()
	srv.HideBanner = true
	srv.HidePort = true
	srv.Static("/", e.Config.OutputDir)
	e.log.Info("preview server listening", zap.String("addr", addr))
	return srv.Start(addr)
}

// watchLoop coalesces filesystem events and rebuilds after a quiet period.
func (e *Engine) watchLoop(watcher *fsnotify.Watcher) {
	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			e.log.Warn("theme watch error", zap.Error(err))
		case <-timer.C:
			e.log.Info("theme changed, rebuilding")
			result, err := e.Build()
			if err != nil {
				e.log.Error("rebuild failed", zap.Error(err))
				continue
			}
			if !result.Success() {
				e.log.Warn("rebuild finished with errors", zap.Int("errors", len(result.Errors)))
			}
		}
	}
}
