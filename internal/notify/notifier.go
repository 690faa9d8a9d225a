// Package notify schedules transient per-view notifications: at most one
// success and one error message at a time, each with its own auto-dismiss
// timer.
package notify

import (
	"sync"
	"time"
)

// Kind selects a notification slot.
type Kind int

const (
	Success Kind = iota
	Error
)

// Success messages are lower-stakes and should not linger as long as
// error messages.
const (
	DefaultSuccessTTL = 2500 * time.Millisecond
	DefaultErrorTTL   = 5 * time.Second
)

type slot struct {
	message string
	timer   *time.Timer
	gen     uint64
}

// Notifier owns the two notification slots of one view. Showing a message
// of a given kind replaces the previous one of that kind and restarts its
// timer; the other kind's slot is never touched.
type Notifier struct {
	mu     sync.Mutex
	slots  [2]slot
	ttl    [2]time.Duration
	closed bool
}

// New builds a Notifier with the default auto-dismiss durations.
func New() *Notifier {
	return NewWithTTL(DefaultSuccessTTL, DefaultErrorTTL)
}

// NewWithTTL builds a Notifier with explicit auto-dismiss durations.
func NewWithTTL(success, errTTL time.Duration) *Notifier {
	n := &Notifier{}
	n.ttl[Success] = success
	n.ttl[Error] = errTTL
	return n
}

// Show replaces the message of kind k and restarts its dismiss timer. Any
// timer pending for that kind is cancelled first, so an earlier message's
// expiry can never clear the new one.
func (n *Notifier) Show(k Kind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	s := &n.slots[k]
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
	}
	s.message = message
	gen := s.gen
	s.timer = time.AfterFunc(n.ttl[k], func() {
		n.expire(k, gen)
	})
}

// Dismiss clears the slot of kind k. Safe to call when nothing is shown.
func (n *Notifier) Dismiss(k Kind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clearLocked(k)
}

// Message returns the currently visible message of kind k, or "" when the
// slot is idle.
func (n *Notifier) Message(k Kind) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.slots[k].message
}

// Visible reports whether a message of kind k is currently shown.
func (n *Notifier) Visible(k Kind) bool {
	return n.Message(k) != ""
}

// Close tears the notifier down. Pending timers are cancelled and every
// later call becomes a no-op, so a fired timer can never mutate state
// belonging to a view that no longer exists.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.clearLocked(Success)
	n.clearLocked(Error)
	n.closed = true
}

func (n *Notifier) clearLocked(k Kind) {
	s := &n.slots[k]
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.message = ""
}

// expire is the timer callback. The generation check discards firings
// that lost a race against Show, Dismiss or Close.
func (n *Notifier) expire(k Kind, gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	s := &n.slots[k]
	if n.closed || s.gen != gen {
		return
	}
	s.message = ""
	s.timer = nil
}
