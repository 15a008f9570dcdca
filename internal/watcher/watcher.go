// Package watcher turns filesystem activity into visit events: a file
// being written under a workspace counts as that file being viewed, and a
// file disappearing feeds the pending-removal set.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/oxidrome/frecent/internal/logging"
	"github.com/oxidrome/frecent/internal/window"
)

// Watch starts a recursive fsnotify watcher on workDir and records visits
// into the manager until ctx is cancelled. Write and Create events on
// regular files record a visit; Remove and Rename events queue the path
// for removal from the history.
func Watch(ctx context.Context, workDir, windowID string, mgr *window.Manager, lg *logging.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Walk the directory tree and add a watcher for every subdirectory.
	if err := filepath.WalkDir(workDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			if hidden(d.Name()) && path != workDir {
				return filepath.SkipDir
			}
			return w.Add(path)
		}
		return nil
	}); err != nil {
		return err
	}

	lg.Debugf("watching %s for window %s", workDir, windowID)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if hidden(filepath.Base(event.Name)) {
				continue
			}
			switch {
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				mgr.MarkMissing(event.Name)

			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				info, err := os.Stat(event.Name)
				if err != nil {
					continue
				}
				if info.IsDir() {
					// Watch newly created directories too.
					if event.Has(fsnotify.Create) {
						_ = w.Add(event.Name)
					}
					continue
				}
				mgr.RecordVisit(windowID, event.Name, time.Now().Unix())
			}

		case _, ok := <-w.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are non-fatal; continue watching.
		}
	}
}

// hidden reports whether a file or directory name is dot-prefixed.
func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
