package tui

import (
	"path/filepath"
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// filesChangedMsg is sent when watched files change on disk.
type filesChangedMsg struct {
	paths []string
}

// FileWatcher watches a fixed set of files. Directories are watched rather
// than the files themselves so that editors which save by rename are seen.
type FileWatcher struct {
	watcher     *fsnotify.Watcher
	files       map[string]struct{}
	debounceDur time.Duration
}

// NewFileWatcher watches the given files. Empty paths are skipped.
func NewFileWatcher(paths ...string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &FileWatcher{
		watcher:     watcher,
		files:       make(map[string]struct{}),
		debounceDur: 100 * time.Millisecond,
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = watcher.Close()
			return nil, err
		}
		w.files[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; ok {
			continue
		}
		dirs[dir] = struct{}{}
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}

	return w, nil
}

// Start returns a command that waits for the next change to a watched file.
// Call it again after each filesChangedMsg to keep watching.
func (w *FileWatcher) Start() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if !w.relevant(event) {
					continue
				}
				changed := []string{filepath.Clean(event.Name)}

				// Debounce: wait for changes to settle
				time.Sleep(w.debounceDur)

				// Drain any additional events that arrived during debounce
				drained := false
				for !drained {
					select {
					case event, ok := <-w.watcher.Events:
						if !ok {
							drained = true
							break
						}
						if w.relevant(event) && !slices.Contains(changed, filepath.Clean(event.Name)) {
							changed = append(changed, filepath.Clean(event.Name))
						}
					default:
						drained = true
					}
				}

				return filesChangedMsg{paths: changed}

			case _, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				// Ignore errors, continue watching
			}
		}
	}
}

func (w *FileWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	_, ok := w.files[filepath.Clean(event.Name)]
	return ok
}

// Close stops the watcher.
func (w *FileWatcher) Close() error {
	return w.watcher.Close()
}

// samePath reports whether two paths name the same file. Empty paths never match.
func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
