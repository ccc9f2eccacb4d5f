package module

// Notifier wakes up a worker routine when new work arrives. Notifications are
// coalesced: any number of Notify calls before the worker reads from Channel
// result in a single wakeup. A Notifier can be copied by value; all copies
// share the same state.
type Notifier struct {
	notifier chan struct{} // buffered with capacity 1
}

// NewNotifier returns a Notifier without a pending notification.
func NewNotifier() Notifier {
	return Notifier{make(chan struct{}, 1)}
}

// Notify records a pending notification. Never blocks.
func (n Notifier) Notify() {
	select {
	case n.notifier <- struct{}{}:
	default:
	}
}

// Channel returns the channel a worker receives notifications from.
func (n Notifier) Channel() <-chan struct{} {
	return n.notifier
}
