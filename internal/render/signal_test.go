package render

import (
	"sync"
	"testing"
	"time"
)

func TestSignalCoalesces(t *testing.T) {
	s := NewSignal()
	for i := 0; i < 100; i++ {
		s.Notify()
	}

	select {
	case <-s.C():
	case <-time.After(time.Second):
		t.Fatal("expected a pending wakeup")
	}

	select {
	case <-s.C():
		t.Fatal("burst of notifies must collapse to one wakeup")
	default:
	}
}

func TestSignalNotifyNeverBlocks(t *testing.T) {
	s := NewSignal()
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				s.Notify()
			}
		}()
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Notify blocked")
	}
}

func TestSignalDrain(t *testing.T) {
	s := NewSignal()
	if s.Drain() {
		t.Error("fresh signal must have nothing pending")
	}
	s.Notify()
	if !s.Drain() {
		t.Error("Drain must consume the pending wakeup")
	}
	if s.Drain() {
		t.Error("second Drain must find nothing")
	}

	// Notify after a drain arms the signal again.
	s.Notify()
	select {
	case <-s.C():
	default:
		t.Error("signal must rearm after draining")
	}
}
