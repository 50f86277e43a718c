package lock

// Notifier holds at most one listener for gesture results.
type Notifier struct {
	listener func(matched bool)
}

// Set replaces the listener. A nil listener clears it.
func (n *Notifier) Set(listener func(matched bool)) {
	n.listener = listener
}

// Notify calls the listener synchronously if one is set.
func (n *Notifier) Notify(matched bool) {
	if n.listener != nil {
		n.listener(matched)
	}
}
