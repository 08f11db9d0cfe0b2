package queue

import (
	"sync"
	"testing"
)

func TestLockFreeQueueFIFO(t *testing.T) {
	q := NewLockFreeQueue()
	for i := 0; i < 10; i++ {
		q.Enqueue(i)
	}
	if q.Length() != 10 {
		t.Fatalf("length = %d, want 10", q.Length())
	}
	for i := 0; i < 10; i++ {
		v := q.Dequeue()
		if v == nil || v.(int) != i {
			t.Fatalf("dequeue #%d = %v, want %d", i, v, i)
		}
	}
	if q.Dequeue() != nil {
		t.Fatal("expected empty queue to return nil")
	}
}

func TestLockFreeQueueConcurrentProducers(t *testing.T) {
	q := NewLockFreeQueue()
	const producers = 8
	const perProducer = 500

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(p*perProducer + i)
			}
		}(p)
	}
	wg.Wait()

	if q.Length() != producers*perProducer {
		t.Fatalf("length = %d, want %d", q.Length(), producers*perProducer)
	}

	seen := make(map[int]bool)
	for {
		v := q.Dequeue()
		if v == nil {
			break
		}
		seen[v.(int)] = true
	}
	if len(seen) != producers*perProducer {
		t.Fatalf("saw %d distinct values, want %d", len(seen), producers*perProducer)
	}
}
