// Package dispatcher implements actorsys's shared run queue and fixed
// worker pool, adapted from utility/workpool's Pool/WorkerQueue.
//
// utility/workpool's Pool shards work across one WorkerQueue per worker
// and load-balances submissions across the shards (min-load or a hash
// key). spec.md §4.4 calls for a single FIFO queue of schedulable
// mailboxes drained by N worker threads, so this package collapses that
// sharded design down to one shared RunQueue guarded by a mutex+condvar,
// exactly as worker_queue.go already implements for a single shard.
package dispatcher

import (
	"container/list"
	"sync"
)

// Runnable is anything the dispatcher can hand to a worker. actorsys's
// Mailbox implements it: RunBatch drains pending system and user messages
// and reports whether the mailbox still has work left (in which case it is
// pushed back onto the queue instead of going idle).
type Runnable interface {
	RunBatch() (reschedule bool)
}

// RunQueue is a FIFO of Runnables, protected by a mutex+condvar pair per
// spec.md §4.4 ("a single FIFO queue of schedulable mailboxes protected by
// a mutex+condvar pair").
type RunQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   *list.List
	stopped bool
}

func newRunQueue() *RunQueue {
	q := &RunQueue{items: list.New()}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *RunQueue) push(r Runnable) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return
	}
	q.items.PushBack(r)
	q.cond.Signal()
}

// pop blocks until a Runnable is available or the queue is stopped and
// drained, in which case it returns (nil, false).
func (q *RunQueue) pop() (Runnable, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.items.Len() == 0 {
		if q.stopped {
			return nil, false
		}
		q.cond.Wait()
	}
	elem := q.items.Front()
	q.items.Remove(elem)
	return elem.Value.(Runnable), true
}

func (q *RunQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

func (q *RunQueue) shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopped = true
	q.cond.Broadcast()
}

// Dispatcher owns a RunQueue and a fixed pool of worker goroutines that
// drain it. Worker loop per spec.md §4.4: block until a mailbox is
// available or shutdown is signaled; pop one; run_batch; push back on
// reschedule. Shutdown drains the queue (workers keep popping pending
// items even after Shutdown is called) before the worker goroutines exit.
type Dispatcher struct {
	queue   *RunQueue
	wg      sync.WaitGroup
	mu      sync.Mutex
	workers int
}

// New creates a dispatcher with no workers running yet; call SpawnWorkers
// to add them.
func New() *Dispatcher {
	return &Dispatcher{queue: newRunQueue()}
}

// SpawnWorkers adds n more worker goroutines draining the shared queue.
// Additive: calling it twice grows the pool rather than replacing it.
func (d *Dispatcher) SpawnWorkers(n int) {
	if n <= 0 {
		return
	}
	d.mu.Lock()
	d.workers += n
	d.mu.Unlock()

	for i := 0; i < n; i++ {
		d.wg.Add(1)
		go d.workerLoop()
	}
}

func (d *Dispatcher) workerLoop() {
	defer d.wg.Done()
	for {
		r, ok := d.queue.pop()
		if !ok {
			return
		}
		if r.RunBatch() {
			d.queue.push(r)
		}
	}
}

// Submit schedules r to run on the next available worker. Safe to call
// concurrently from any number of goroutines (mailboxes schedule
// themselves from whichever worker currently owns them, and top-level
// callers schedule from arbitrary goroutines).
func (d *Dispatcher) Submit(r Runnable) {
	d.queue.push(r)
}

// PendingCount reports a snapshot of how many Runnables are waiting in the
// shared queue (not counting whichever one a worker currently has popped
// and is running). Useful for tests and diagnostics.
func (d *Dispatcher) PendingCount() int {
	return d.queue.len()
}

// Shutdown signals workers to stop once the queue drains, then blocks
// until every worker goroutine has exited.
func (d *Dispatcher) Shutdown() {
	d.queue.shutdown()
	d.wg.Wait()
}
