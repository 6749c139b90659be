package render

// Signal is a coalescing repaint notifier. It carries no payload: a
// wakeup means "state changed since you last painted", nothing more.
type Signal struct {
	c chan struct{}
}

// NewSignal creates a signal with no pending wakeup.
func NewSignal() *Signal {
	return &Signal{c: make(chan struct{}, 1)}
}

// Notify requests a repaint. It is safe from any goroutine and never
// blocks; requests arriving while one is already pending are absorbed.
func (s *Signal) Notify() {
	select {
	case s.c <- struct{}{}:
	default:
	}
}

// C returns the wakeup channel. Receive one value, then paint.
func (s *Signal) C() <-chan struct{} {
	return s.c
}

// Drain consumes a pending wakeup without blocking and reports whether
// one was present.
func (s *Signal) Drain() bool {
	select {
	case <-s.c:
		return true
	default:
		return false
	}
}
