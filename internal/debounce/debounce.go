// Package debounce provides a single-slot pending task: repeated requests
// within a short window coalesce into one execution of the task. Used to
// collapse bursts of recompose triggers (typing in a settings field, rapid
// chat switching) into a single render pass.
package debounce

import (
	"sync"
	"time"
)

// Windows holds the two named coalescing windows. Normal covers reactive
// triggers (settings edits, incoming messages); Immediate covers
// user-initiated navigation where latency is visible.
type Windows struct {
	Normal    time.Duration
	Immediate time.Duration
}

// DefaultWindows matches the tens-of-milliseconds coalescing the render
// pipeline expects.
var DefaultWindows = Windows{
	Normal:    80 * time.Millisecond,
	Immediate: 15 * time.Millisecond,
}

// Trigger coalesces calls to a task. Only the last request within the active
// window executes; every new request cancels and reschedules the pending one.
// Cancellation is just clearing the timer — no work has started yet, so there
// are no partial side effects to unwind.
type Trigger struct {
	mu      sync.Mutex
	timer   *time.Timer
	fn      func()
	windows Windows
	stopped bool
}

// New creates a Trigger for fn with the given windows.
func New(fn func(), windows Windows) *Trigger {
	return &Trigger{fn: fn, windows: windows}
}

// Request schedules the task after the normal window, replacing any pending
// request.
func (t *Trigger) Request() {
	t.schedule(t.windows.Normal)
}

// RequestImmediate schedules the task after the shorter immediate window,
// replacing any pending request.
func (t *Trigger) RequestImmediate() {
	t.schedule(t.windows.Immediate)
}

func (t *Trigger) schedule(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(d, t.fn)
}

// Stop cancels any pending request and rejects future ones.
func (t *Trigger) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
