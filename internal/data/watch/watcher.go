// Package watch observes the database file so read-only viewers can
// refresh when another process (typically the tracker) writes new rows.
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-activity-monitor/internal/util"
)

// FileWatcher coalesces write events on one file into a throttled
// notification channel.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	target  string
	events  chan struct{}
	closed  chan struct{}
}

// NewFileWatcher watches path's directory (SQLite rewrites the WAL beside
// the database) and signals at most once per throttle window.
func NewFileWatcher(path string, throttle time.Duration) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		target:  filepath.Base(path),
		events:  make(chan struct{}, 1),
		closed:  make(chan struct{}),
	}
	go fw.processEvents(throttle)

	return fw, nil
}

func (fw *FileWatcher) processEvents(throttle time.Duration) {
	var lastSignal time.Time

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			base := filepath.Base(event.Name)
			if base != fw.target && base != fw.target+"-wal" {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if time.Since(lastSignal) < throttle {
				continue
			}
			lastSignal = time.Now()
			select {
			case fw.events <- struct{}{}:
			default:
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())

		case <-fw.closed:
			return
		}
	}
}

// Events signals after relevant writes, throttled.
func (fw *FileWatcher) Events() <-chan struct{} {
	return fw.events
}

// Close stops watching.
func (fw *FileWatcher) Close() error {
	close(fw.closed)
	return fw.watcher.Close()
}
