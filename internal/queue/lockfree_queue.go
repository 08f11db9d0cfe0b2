// Package queue implements the lock-free queue that actorsys's mailbox and
// logger expect. Calls sites elsewhere in the codebase (mailbox.go,
// internal/actorlog) assume a Michael-Scott style MPSC queue addressed by
// Enqueue/Dequeue/Length; that is what this file provides.
package queue

import (
	"sync/atomic"
	"unsafe"
)

type node struct {
	value unsafe.Pointer
	next  unsafe.Pointer
}

// LockFreeQueue is an unbounded multi-producer, single-consumer FIFO queue.
// Multiple goroutines may call Enqueue concurrently; Dequeue is safe to call
// from multiple goroutines too, but actorsys only ever calls it from the
// worker that currently owns a mailbox.
type LockFreeQueue struct {
	head unsafe.Pointer
	tail unsafe.Pointer
	len  atomic.Int64
}

// NewLockFreeQueue returns an empty queue.
func NewLockFreeQueue() *LockFreeQueue {
	dummy := &node{}
	q := &LockFreeQueue{
		head: unsafe.Pointer(dummy),
		tail: unsafe.Pointer(dummy),
	}
	return q
}

func loadNode(p *unsafe.Pointer) *node {
	return (*node)(atomic.LoadPointer(p))
}

func casNode(p *unsafe.Pointer, old, new *node) bool {
	return atomic.CompareAndSwapPointer(p, unsafe.Pointer(old), unsafe.Pointer(new))
}

// Enqueue appends v to the tail of the queue.
func (q *LockFreeQueue) Enqueue(v interface{}) {
	n := &node{value: unsafe.Pointer(&v)}
	for {
		tail := loadNode(&q.tail)
		next := loadNode(&tail.next)
		if tail == loadNode(&q.tail) {
			if next == nil {
				if casNode(&tail.next, next, n) {
					casNode(&q.tail, tail, n)
					q.len.Add(1)
					return
				}
			} else {
				casNode(&q.tail, tail, next)
			}
		}
	}
}

// Dequeue removes and returns the value at the head of the queue, or nil if
// the queue is empty.
func (q *LockFreeQueue) Dequeue() interface{} {
	for {
		head := loadNode(&q.head)
		tail := loadNode(&q.tail)
		next := loadNode(&head.next)
		if head == loadNode(&q.head) {
			if head == tail {
				if next == nil {
					return nil
				}
				casNode(&q.tail, tail, next)
			} else {
				v := *(*interface{})(next.value)
				if casNode(&q.head, head, next) {
					q.len.Add(-1)
					return v
				}
			}
		}
	}
}

// Length returns a snapshot of the number of elements currently queued.
func (q *LockFreeQueue) Length() int32 {
	return int32(q.len.Load())
}
