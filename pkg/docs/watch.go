package docs

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/flowline/examplectl/pkg/catalog"
	"github.com/flowline/examplectl/pkg/logger"
)

var watchLog = logger.New("docs:watch")

// debounceWindow coalesces editor write bursts into one regeneration.
const debounceWindow = 300 * time.Millisecond

// Watch regenerates documentation whenever an example source under root
// changes. onChange is invoked once at start and again after each coalesced
// batch of events; its error is logged, not fatal, so a transient render
// failure does not end the watch. Watch returns when ctx is cancelled.
func Watch(ctx context.Context, root string, onChange func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addRecursive(watcher, root); err != nil {
		return err
	}

	if err := onChange(); err != nil {
		watchLog.Printf("Initial generation failed: %v", err)
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			watchLog.Printf("Change detected: %s", event)
			// New directories need their own watches.
			if event.Op.Has(fsnotify.Create) {
				if err := addRecursive(watcher, event.Name); err != nil {
					watchLog.Printf("Failed to watch %s: %v", event.Name, err)
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			watchLog.Printf("Watcher error: %v", err)
		case <-timerC:
			timer = nil
			timerC = nil
			if err := onChange(); err != nil {
				watchLog.Printf("Regeneration failed: %v", err)
			}
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	// Directory events matter for watch registration; file events only
	// for example sources.
	return filepath.Ext(event.Name) == "" || filepath.Ext(event.Name) == catalog.ExampleExtension
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			watchLog.Printf("Failed to watch %s: %v", path, err)
		}
		return nil
	})
}
