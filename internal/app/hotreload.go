package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"zoompan/internal/config"

	"github.com/fsnotify/fsnotify"
)

// ConfigReloader watches the configuration file and reloads it when it is
// written. Editors often replace the file instead of writing it in place, so
// the containing directory is watched and events are filtered by name.
type ConfigReloader struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	onChange func(config.Config) // Called with the newly loaded config
	onError  func(error)
}

// NewConfigReloader creates a reloader for path. The directory is created
// if it does not exist yet.
func NewConfigReloader(path string, debounce time.Duration) (*ConfigReloader, error) {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &ConfigReloader{
		path:     path,
		watcher:  watcher,
		debounce: debounce,
		stopCh:   make(chan struct{}),
	}, nil
}

// OnChange sets the callback invoked after a successful reload.
// The callback is called from a background goroutine - use appropriate
// synchronization if updating UI.
func (r *ConfigReloader) OnChange(callback func(config.Config)) {
	r.onChange = callback
}

// OnError sets the callback invoked when the file cannot be parsed or the
// watcher reports an error.
func (r *ConfigReloader) OnError(callback func(error)) {
	r.onError = callback
}

// Path returns the watched file.
func (r *ConfigReloader) Path() string {
	return r.path
}

// Start begins watching in a background goroutine.
func (r *ConfigReloader) Start() {
	go r.watchLoop()
}

// Stop stops the watcher goroutine and releases the watch. Further calls
// do nothing.
func (r *ConfigReloader) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		r.watcher.Close()
	})
}

func (r *ConfigReloader) watchLoop() {
	var fire <-chan time.Time

	for {
		select {
		case <-r.stopCh:
			return

		case ev, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != r.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				fire = time.After(r.debounce)
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.reportError(err)

		case <-fire:
			fire = nil
			r.reload()
		}
	}
}

func (r *ConfigReloader) reload() {
	cfg, err := config.Load(r.path)
	if err != nil {
		r.reportError(err)
		return
	}
	if r.onChange != nil {
		r.onChange(cfg)
	}
}

func (r *ConfigReloader) reportError(err error) {
	if r.onError != nil {
		r.onError(err)
	}
}
