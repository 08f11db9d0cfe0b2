package actorsys

import (
	"testing"
	"time"

	"actorsys/internal/timingwheel"
)

func TestFutureWaitTimeoutResolvesBeforeDeadline(t *testing.T) {
	wheel := timingwheel.New(&timingwheel.Option{Accuracy: time.Millisecond})
	wheel.Start()
	defer wheel.Stop()

	fut := newFuture()
	go func() {
		time.Sleep(10 * time.Millisecond)
		fut.resolve(7, nil)
	}()

	v, err := fut.WaitTimeout(wheel, time.Second)
	if err != nil {
		t.Fatalf("WaitTimeout: %v", err)
	}
	if v.(int) != 7 {
		t.Fatalf("got %v, want 7", v)
	}
}

func TestFutureWaitTimeoutExpires(t *testing.T) {
	wheel := timingwheel.New(&timingwheel.Option{Accuracy: time.Millisecond})
	wheel.Start()
	defer wheel.Stop()

	fut := newFuture()
	_, err := fut.WaitTimeout(wheel, 20*time.Millisecond)
	if err != ErrFutureTimeout {
		t.Fatalf("got err=%v, want ErrFutureTimeout", err)
	}
}
