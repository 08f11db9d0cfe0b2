package dispatcher

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingRunnable struct {
	remaining int32
	runs      *int32
}

func (c *countingRunnable) RunBatch() bool {
	atomic.AddInt32(c.runs, 1)
	return atomic.AddInt32(&c.remaining, -1) > 0
}

func TestDispatcherRunsAndReschedules(t *testing.T) {
	d := New()
	d.SpawnWorkers(4)
	defer d.Shutdown()

	var runs int32
	var wg sync.WaitGroup
	const n = 50
	wg.Add(n)
	for i := 0; i < n; i++ {
		r := &countingRunnable{remaining: 3, runs: &runs}
		go func() {
			defer wg.Done()
			d.Submit(r)
		}()
	}
	wg.Wait()

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&runs) < n*3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if got := atomic.LoadInt32(&runs); got != n*3 {
		t.Fatalf("total RunBatch calls = %d, want %d", got, n*3)
	}
}

func TestDispatcherShutdownJoinsWorkers(t *testing.T) {
	d := New()
	d.SpawnWorkers(3)

	done := make(chan struct{})
	go func() {
		d.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not return: worker goroutines stuck")
	}
}
