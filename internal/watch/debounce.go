package watch

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounceInterval batches the several writes a single save produces.
const DefaultDebounceInterval = 100 * time.Millisecond

// Debouncer coalesces bursts of events for the watched file. An event is
// delivered once no newer event has arrived for the interval; the newest
// operation wins.
type Debouncer struct {
	interval time.Duration
	onFlush  func(FileEvent)

	mu       sync.Mutex
	pending  *FileEvent
	queuedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDebouncer creates a debouncer calling onFlush from its own goroutine.
func NewDebouncer(interval time.Duration, onFlush func(FileEvent)) *Debouncer {
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Debouncer{
		interval: interval,
		onFlush:  onFlush,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs the flush loop in the background.
func (d *Debouncer) Start() {
	d.wg.Add(1)
	go d.processQueue()
}

// Stop ends the flush loop. A pending event is dropped.
func (d *Debouncer) Stop() {
	d.cancel()
	d.wg.Wait()
}

// Queue records ev, replacing any event not yet delivered.
func (d *Debouncer) Queue(ev FileEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = &ev
	d.queuedAt = time.Now()
}

func (d *Debouncer) processQueue() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.interval / 2)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case now := <-ticker.C:
			if ev, ok := d.takeReady(now); ok {
				d.onFlush(ev)
			}
		}
	}
}

// takeReady returns the pending event once it has been quiet for the interval.
func (d *Debouncer) takeReady(now time.Time) (FileEvent, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending == nil || now.Sub(d.queuedAt) < d.interval {
		return FileEvent{}, false
	}
	ev := *d.pending
	d.pending = nil
	return ev, true
}
