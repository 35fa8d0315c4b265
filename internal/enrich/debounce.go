package enrich

import (
	"sync"
	"time"
)

// Default debounce delays per enrichment kind. The delay absorbs rapid
// book switching so paging through a library does not fire a request
// storm.
var DefaultDelays = map[Kind]time.Duration{
	KindPodcasts: 2 * time.Second,
	KindArticles: 3 * time.Second,
	KindRelated:  3 * time.Second,
	KindFacts:    1500 * time.Millisecond,
	KindVideos:   2 * time.Second,
}

// Debouncer manages named cancellable timers. Starting a timer under a
// name that already has one pending replaces it.
type Debouncer struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewDebouncer creates an empty Debouncer.
func NewDebouncer() *Debouncer {
	return &Debouncer{timers: make(map[string]*time.Timer)}
}

// Start schedules fn to run after delay. A pending timer with the same
// name is cancelled first. A zero delay runs fn synchronously, which is
// the direct one-shot mode used by the CLI.
func (d *Debouncer) Start(name string, delay time.Duration, fn func()) {
	if delay <= 0 {
		fn()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if timer, ok := d.timers[name]; ok {
		timer.Stop()
	}

	d.timers[name] = time.AfterFunc(delay, func() {
		d.mu.Lock()
		delete(d.timers, name)
		d.mu.Unlock()
		fn()
	})
}

// Cancel stops the pending timer with the given name, if any.
// Reports whether a timer was cancelled before firing.
func (d *Debouncer) Cancel(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	timer, ok := d.timers[name]
	if !ok {
		return false
	}
	delete(d.timers, name)
	return timer.Stop()
}

// CancelAll stops every pending timer.
func (d *Debouncer) CancelAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for name, timer := range d.timers {
		timer.Stop()
		delete(d.timers, name)
	}
}

// Pending reports whether a timer with the given name is waiting to fire.
func (d *Debouncer) Pending(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.timers[name]
	return ok
}
