// Package notify implements the single-slot toast channel: at most one
// live notification, auto-cleared after a fixed interval unless dismissed
// or replaced first.
package notify

import (
	"sync"
	"time"

	"github.com/ticketdesk/ticketdesk/internal/model"
)

// DefaultTTL is how long a notification stays visible before auto-clearing.
const DefaultTTL = 3 * time.Second

// CancelFunc cancels a scheduled clear. Safe to call after the clear has
// already fired.
type CancelFunc func()

// Scheduler runs fn once after d and returns an explicit cancel handle.
type Scheduler func(d time.Duration, fn func()) CancelFunc

// AfterFunc is the default Scheduler, backed by time.AfterFunc.
func AfterFunc(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Toaster holds the current notification. Replacing a notification cancels
// the previous auto-clear, so a stale clear can never remove a newer
// notification.
type Toaster struct {
	mu       sync.Mutex
	ttl      time.Duration
	schedule Scheduler
	cancel   CancelFunc
	gen      uint64
	current  *model.Notification
	onChange func()
}

// NewToaster creates a toaster with the given lifetime and scheduler.
// Zero ttl means DefaultTTL; a nil scheduler means AfterFunc.
func NewToaster(ttl time.Duration, schedule Scheduler) *Toaster {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if schedule == nil {
		schedule = AfterFunc
	}
	return &Toaster{ttl: ttl, schedule: schedule}
}

// SetOnChange registers a hook invoked after every visible change. The hook
// may run on the scheduler's goroutine.
func (t *Toaster) SetOnChange(fn func()) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// Push replaces any pending notification and restarts the auto-clear. The
// replaced notification is discarded, not re-emitted.
func (t *Toaster) Push(message, kind string) {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	t.gen++
	gen := t.gen
	t.current = &model.Notification{Message: message, Kind: kind}
	t.cancel = t.schedule(t.ttl, func() { t.expire(gen) })
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Dismiss clears the notification immediately and cancels the pending
// auto-clear. Dismissing an empty slot is a no-op.
func (t *Toaster) Dismiss() {
	t.mu.Lock()
	if t.current == nil {
		t.mu.Unlock()
		return
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.gen++
	t.current = nil
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Current returns the live notification, if any.
func (t *Toaster) Current() (model.Notification, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return model.Notification{}, false
	}
	return *t.current, true
}

// expire clears the slot only when it still holds the notification the
// timer was scheduled for.
func (t *Toaster) expire(gen uint64) {
	t.mu.Lock()
	if t.gen != gen || t.current == nil {
		t.mu.Unlock()
		return
	}
	t.current = nil
	t.cancel = nil
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}
