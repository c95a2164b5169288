// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"maps"
	"slices"
	"sync"
	"time"
)

// debouncer collects paths and hands them to fire once no new path has
// arrived for delay. fire runs on a timer goroutine.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]struct{}
	timer   *time.Timer
	stopped bool
	fire    func([]string)
}

func newDebouncer(delay time.Duration, fire func([]string)) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]struct{}),
		fire:    fire,
	}
}

// add records path and restarts the quiet period.
func (d *debouncer) add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}
	d.resetLocked()
}

// requeue puts paths back after a skipped fire so they are not lost when no
// further events arrive.
func (d *debouncer) requeue(paths []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	for _, p := range paths {
		d.pending[p] = struct{}{}
	}
	d.resetLocked()
}

func (d *debouncer) resetLocked() {
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.flush)
		return
	}
	d.timer.Reset(d.delay)
}

func (d *debouncer) flush() {
	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	changed := slices.Sorted(maps.Keys(d.pending))
	clear(d.pending)
	d.mu.Unlock()

	d.fire(changed)
}

// stop cancels any scheduled fire. Pending paths are dropped.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
