package shader

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports edits to a set of shader source files.
// Directories are watched rather than files so editors that save by
// rename-and-replace keep triggering events.
type Watcher interface {
	// Changes delivers the path of an edited source. Bursts of events collapse
	// into one pending notification.
	//
	// Returns:
	//   - <-chan string: the notification channel
	Changes() <-chan string

	// Close stops watching and closes the Changes channel.
	//
	// Returns:
	//   - error: error from the underlying watcher
	Close() error
}

// sourceWatcher is the fsnotify implementation of Watcher.
type sourceWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	changes chan string
	done    chan struct{}
	once    sync.Once
}

var _ Watcher = &sourceWatcher{}

// NewWatcher starts watching the directories containing paths.
// Reference: https://pkg.go.dev/github.com/fsnotify/fsnotify
//
// Parameters:
//   - paths: the shader source files to watch
//
// Returns:
//   - Watcher: the running watcher
//   - error: error if the watcher cannot be created or a directory cannot be added
func NewWatcher(paths ...string) (Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader watcher: %w", err)
	}
	w := &sourceWatcher{
		watcher: fw,
		files:   make(map[string]bool, len(paths)),
		changes: make(chan string, 1),
		done:    make(chan struct{}),
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to resolve shader path %q: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %q: %w", dir, err)
		}
	}
	go w.run()
	return w, nil
}

func (w *sourceWatcher) Changes() <-chan string {
	return w.changes
}

func (w *sourceWatcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

// run forwards relevant events until the fsnotify channels close.
func (w *sourceWatcher) run() {
	defer close(w.done)
	defer close(w.changes)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			select {
			case w.changes <- abs:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[Shader] watch error: %v", err)
		}
	}
}
