package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/qrdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/qrdoc-cli/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.InboxWatcher = (*Watcher)(nil)

// DefaultDebounce is how long a directory must stay quiet before a batch
// of arrivals is emitted. Scanners write pages in several chunks.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reports new files in a directory using fsnotify.
type Watcher struct {
	debounce time.Duration
}

// NewWatcher creates a watcher. A non-positive debounce selects DefaultDebounce.
func NewWatcher(debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{debounce: debounce}
}

// Watch emits sorted batches of created or rewritten files in dir.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan []string, error) {
	dir = ResolvePath(dir)
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	out := make(chan []string)
	go w.loop(ctx, fsw, out)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- []string) {
	defer close(out)
	defer fsw.Close()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if path, ok := handleFsEvent(event); ok {
				pending[path] = struct{}{}
				timer.Reset(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("inbox watcher: %v", err)

		case <-timer.C:
			batch := make([]string, 0, len(pending))
			for path := range pending {
				if _, err := os.Stat(path); err == nil {
					batch = append(batch, path)
				}
			}
			pending = make(map[string]struct{})
			if len(batch) == 0 {
				continue
			}
			sort.Strings(batch)
			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
		}
	}
}

// handleFsEvent returns the path of a visible regular file that was
// created or written. Other events are ignored.
func handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(filepath.Base(event.Name)) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	return event.Name, true
}
