package actorsys

import (
	"sync"
	"sync/atomic"

	"actorsys/dispatcher"
	"actorsys/internal/queue"
)

// DefaultBatchSize is the number of user messages a mailbox drains per
// dispatcher turn before yielding the worker back to the pool. Documented
// as tunable (spec.md §4.4/§9) but fixed for now.
const DefaultBatchSize = 32

// Mailbox is the per-actor pair of FIFO queues (system, user) plus the
// scheduling flag the dispatcher uses to know whether the mailbox is
// already queued or running. Owned 1:1 by its ActorCell.
//
// Grounded on src/framework/actor/mailbox.go, with its per-mailbox
// "go mb.process()" goroutine replaced by submission to the shared
// dispatcher.Dispatcher, per spec.md §4.4.
type Mailbox struct {
	cell *ActorCell

	userQ *queue.LockFreeQueue
	sysQ  *queue.LockFreeQueue

	// mu guards scheduled: the clear-and-recheck at the end of RunBatch
	// must be atomic with respect to producers, so that a producer that
	// observes scheduled==true can safely skip re-submitting (spec.md
	// §4.1's no-lost-wakeup invariant).
	mu        sync.Mutex
	scheduled bool

	suspended atomic.Bool
	dead      atomic.Bool

	dispatcher *dispatcher.Dispatcher
	batchSize  int
}

func newMailbox(cell *ActorCell, d *dispatcher.Dispatcher) *Mailbox {
	return &Mailbox{
		cell:       cell,
		userQ:      queue.NewLockFreeQueue(),
		sysQ:       queue.NewLockFreeQueue(),
		dispatcher: d,
		batchSize:  DefaultBatchSize,
	}
}

// PushUser enqueues a user envelope and schedules the mailbox if it was
// idle.
func (mb *Mailbox) PushUser(env Envelope) {
	if mb.dead.Load() {
		return
	}
	mb.userQ.Enqueue(env)
	mb.schedule()
}

// PushSystem enqueues a system message and schedules the mailbox if it
// was idle. Unlike PushUser it does not check whether the mailbox is dead;
// ActorRef.sendSystem (and identify) drop system messages addressed to a
// dead mailbox before this is called.
func (mb *Mailbox) PushSystem(msg SystemMessage) {
	mb.sysQ.Enqueue(msg)
	mb.schedule()
}

func (mb *Mailbox) schedule() {
	mb.mu.Lock()
	wasScheduled := mb.scheduled
	mb.scheduled = true
	mb.mu.Unlock()
	if !wasScheduled {
		mb.dispatcher.Submit(mb)
	}
}

// RunBatch drains every pending system message, then up to batchSize user
// messages, then atomically decides whether to go idle or ask the
// dispatcher to run it again. It implements dispatcher.Runnable and is only
// ever called by the
// worker that currently owns this mailbox — spec.md §5's "at most one
// thread executes code owned by an actor" invariant.
func (mb *Mailbox) RunBatch() bool {
	for {
		v := mb.sysQ.Dequeue()
		if v == nil {
			break
		}
		mb.cell.receiveSystem(v.(SystemMessage))
	}

	if !mb.suspended.Load() {
		for i := 0; i < mb.batchSize; i++ {
			v := mb.userQ.Dequeue()
			if v == nil {
				break
			}
			mb.cell.receiveUser(v.(Envelope))
			// A failure inside receiveUser suspends the mailbox and
			// queues a Failure system message to the parent; stop
			// draining user messages for the rest of this batch so the
			// pending Restart is processed before any more user work.
			if mb.suspended.Load() {
				break
			}
		}
	}

	mb.mu.Lock()
	defer mb.mu.Unlock()
	if mb.sysQ.Length() == 0 && mb.userQ.Length() == 0 {
		mb.scheduled = false
		return false
	}
	return true
}

// flushUser discards every pending user envelope, used when a Restart
// flushes the mailbox per spec.md's chosen (flush, not preserve)
// resolution of the restart-semantics open question.
func (mb *Mailbox) flushUser() {
	for mb.userQ.Dequeue() != nil {
	}
}

func (mb *Mailbox) suspend()     { mb.suspended.Store(true) }
func (mb *Mailbox) resume()      { mb.suspended.Store(false) }
func (mb *Mailbox) markDead()    { mb.dead.Store(true) }
func (mb *Mailbox) isDead() bool { return mb.dead.Load() }
