package notify

import "sync"

// Dispatcher forwards notifications to a swappable target. The app
// wires the controller to a dispatcher at startup; the TUI swaps the
// target to its status line while it is on screen.
type Dispatcher struct {
	mu     sync.Mutex
	target Notifier
}

// NewDispatcher creates a dispatcher with an initial target.
func NewDispatcher(target Notifier) *Dispatcher {
	return &Dispatcher{target: target}
}

// SetTarget swaps the notification target and returns the previous one.
func (d *Dispatcher) SetTarget(target Notifier) Notifier {
	d.mu.Lock()
	defer d.mu.Unlock()
	prev := d.target
	d.target = target
	return prev
}

// Notify implements Notifier.
func (d *Dispatcher) Notify(title, body string) {
	d.mu.Lock()
	target := d.target
	d.mu.Unlock()
	if target != nil {
		target.Notify(title, body)
	}
}
