package bookingclient

import "sync"

// SelectionCache stores the working seat selection and lets other
// parts of the program watch it for changes, the way browser tabs
// observe each other through storage events.
type SelectionCache interface {
	Seats() []string
	Replace(seats []string)
	Watch() <-chan []string
	Close()
}

// MemorySelectionCache is the default SelectionCache.
type MemorySelectionCache struct {
	mu       sync.Mutex
	seats    []string
	watchers []chan []string
	closed   bool
}

func NewMemorySelectionCache() *MemorySelectionCache {
	return &MemorySelectionCache{}
}

func (c *MemorySelectionCache) Seats() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.seats...)
}

// Replace swaps the whole selection and notifies watchers. A watcher
// that is not draining its channel misses intermediate states but
// always sees the latest one.
func (c *MemorySelectionCache) Replace(seats []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.seats = append([]string(nil), seats...)

	for _, w := range c.watchers {
		snapshot := append([]string(nil), c.seats...)
		select {
		case w <- snapshot:
		default:
			// Drop the stale pending update, then push the fresh one
			select {
			case <-w:
			default:
			}
			select {
			case w <- snapshot:
			default:
			}
		}
	}
}

func (c *MemorySelectionCache) Watch() <-chan []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	w := make(chan []string, 1)
	if c.closed {
		close(w)
		return w
	}
	c.watchers = append(c.watchers, w)
	return w
}

func (c *MemorySelectionCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for _, w := range c.watchers {
		close(w)
	}
	c.watchers = nil
}
