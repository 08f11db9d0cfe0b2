package actorsys

import (
	"errors"
	"sync"
	"time"

	"actorsys/internal/timingwheel"
)

// ErrFutureTimeout is returned by WaitTimeout when the deadline elapses
// before the future is resolved.
var ErrFutureTimeout = errors.New("actorsys: future timed out")

// Future is a one-shot result slot, grounded on src/framework/actor/
// future.go's Future (done/err channels) and original_source/src/actors/
// future.rs's FutureExtractor pattern, decoupled from any single mailbox:
// Ask and Identify both produce one of these.
type Future struct {
	mu       sync.Mutex
	done     chan struct{}
	resolved bool
	value    interface{}
	err      error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(value interface{}, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolved {
		return
	}
	f.resolved = true
	f.value = value
	f.err = err
	close(f.done)
}

// Wait blocks the calling goroutine until the future resolves. It must
// never be called from inside an Actor.Receive on the actor that is
// supposed to produce the result (spec.md §4.5): that would deadlock the
// worker against itself.
func (f *Future) Wait() (interface{}, error) {
	<-f.done
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

// WaitTimeout blocks until the future resolves or timeout elapses,
// whichever comes first, using the shared timing wheel rather than a raw
// time.After per call (spec.md §9's opt-in timeout is this method; the
// core Ask/Identify themselves never time out on their own).
func (f *Future) WaitTimeout(wheel *timingwheel.Wheel, timeout time.Duration) (interface{}, error) {
	timedOut, timer := wheel.Chan(timeout)
	select {
	case <-f.done:
		wheel.Cancel(timer)
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.value, f.err
	case <-timedOut:
		return nil, ErrFutureTimeout
	}
}
