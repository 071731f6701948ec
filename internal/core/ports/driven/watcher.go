package driven

import "context"

// InboxWatcher reports files arriving in a directory.
type InboxWatcher interface {
	// Watch emits batches of newly written file paths until ctx is cancelled.
	// The channel is closed when watching stops.
	Watch(ctx context.Context, dir string) (<-chan []string, error)
}
