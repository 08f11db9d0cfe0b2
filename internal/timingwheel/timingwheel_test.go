package timingwheel

import (
	"testing"
	"time"
)

func TestWheelAfterFires(t *testing.T) {
	w := New(&Option{Accuracy: time.Millisecond})
	w.Start()
	defer w.Stop()

	ch, _ := w.Chan(20 * time.Millisecond)
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire in time")
	}
}

func TestWheelCancel(t *testing.T) {
	w := New(&Option{Accuracy: time.Millisecond})
	w.Start()
	defer w.Stop()

	fired := false
	timer := w.After(50*time.Millisecond, func() { fired = true })
	if !w.Cancel(timer) {
		t.Fatal("expected Cancel to succeed before expiry")
	}
	time.Sleep(100 * time.Millisecond)
	if fired {
		t.Fatal("cancelled timer fired anyway")
	}
}
