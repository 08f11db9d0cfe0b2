// Package timingwheel is a hierarchical timing wheel, adapted from the
// teacher's utility/timer package. actorsys's ask bridge uses it to offer
// an opt-in Future.WaitTimeout; the core Ask operation itself never
// schedules a deadline (spec leaves ask timeouts to the caller).
package timingwheel

import (
	"math"
	"sync"
	"time"
)

const (
	maxLayer      = 7
	rootLayerBits = 16
	layerBits     = 8

	// DefaultAccuracy is used when an Option with a zero Accuracy is passed.
	DefaultAccuracy = 10 * time.Millisecond
)

type Callback func()

// entry is a node in one of the wheel's circular, doubly linked layer lists.
type entry struct {
	expire uint64
	cb     Callback
	list   *entryList
	prev   *entry
	next   *entry
}

type entryList struct {
	root *entry
}

func newEntryList() *entryList {
	l := &entryList{root: &entry{}}
	l.root.next = l.root
	l.root.prev = l.root
	return l
}

func (l *entryList) addTail(e *entry) {
	e.list = l
	at := l.root.prev
	e.prev = at
	e.next = at.next
	e.prev.next = e
	e.next.prev = e
}

func (l *entryList) remove(e *entry) bool {
	if e.list != l {
		return false
	}
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil
	e.prev = nil
	e.list = nil
	return true
}

func (l *entryList) clear() {
	l.root.next = l.root
	l.root.prev = l.root
}

func (l *entryList) forEach(f func(*entry)) {
	for n := l.root.next; n != l.root; n = n.next {
		f(n)
	}
}

// Option configures the wheel's tick resolution.
type Option struct {
	Accuracy time.Duration
}

// Timer is a handle to a scheduled callback, returned so it can be
// cancelled before it fires.
type Timer struct {
	e *entry
}

// Wheel is a hierarchical timing wheel: cheap O(1) insertion/removal of
// timers, amortized by cascading lower-resolution layers into the root
// layer as the wheel ticks forward.
type Wheel struct {
	accuracy time.Duration

	mu sync.Mutex

	layerMasks    []uint64
	layerMaxValue []uint64
	layerShift    []int

	jiffies      uint64
	layers       [][]*entryList
	lastTickTime int64

	expired []*entry

	stopCh chan struct{}
}

func New(opt *Option) *Wheel {
	w := &Wheel{}
	if opt != nil && opt.Accuracy > 0 {
		w.accuracy = opt.Accuracy
	} else {
		w.accuracy = DefaultAccuracy
	}

	w.layerMasks = make([]uint64, maxLayer)
	w.layerMaxValue = make([]uint64, maxLayer)
	w.layerShift = make([]int, maxLayer)

	w.layerMasks[0] = 1<<rootLayerBits - 1
	w.layerMaxValue[0] = 1<<rootLayerBits - 1
	w.layerShift[0] = 0
	for i := 1; i < maxLayer; i++ {
		w.layerMasks[i] = 1<<layerBits - 1
		w.layerMaxValue[i] = 1<<(rootLayerBits+i*layerBits) - 1
		w.layerShift[i] = rootLayerBits + (i-1)*layerBits
	}

	for i := 0; i < maxLayer; i++ {
		layer := make([]*entryList, w.layerMasks[i]+1)
		for j := range layer {
			layer[j] = newEntryList()
		}
		w.layers = append(w.layers, layer)
	}

	w.lastTickTime = time.Now().UnixNano() / int64(w.accuracy)
	w.stopCh = make(chan struct{}, 1)
	return w
}

// Start begins ticking the wheel on its own goroutine.
func (w *Wheel) Start() {
	go func() {
		ticker := time.NewTicker(w.accuracy)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.Tick()
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop halts the wheel's ticking goroutine.
func (w *Wheel) Stop() {
	select {
	case w.stopCh <- struct{}{}:
	default:
	}
}

func (w *Wheel) Tick() {
	now := time.Now().UnixNano() / int64(w.accuracy)
	delta := now - w.lastTickTime
	if delta > 0 {
		w.advance(int(delta))
	}
	w.lastTickTime = now
}

// After schedules cb to run once duration has elapsed.
func (w *Wheel) After(duration time.Duration, cb Callback) *Timer {
	delta := uint64(duration / w.accuracy)
	if delta < 1 {
		delta = 1
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if math.MaxUint64-delta < w.jiffies {
		delta = math.MaxUint64 - w.jiffies
	}
	e := &entry{expire: w.jiffies + delta, cb: cb}
	w.addEntry(e)
	return &Timer{e: e}
}

// Cancel removes a pending timer. It returns false if the timer already
// fired or was already cancelled.
func (w *Wheel) Cancel(t *Timer) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t.e.list == nil {
		return false
	}
	return t.e.list.remove(t.e)
}

// Chan returns a channel that receives a tick once duration has elapsed.
// The returned Timer can be used to Cancel it early.
func (w *Wheel) Chan(duration time.Duration) (<-chan struct{}, *Timer) {
	ch := make(chan struct{}, 1)
	t := w.After(duration, func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
	return ch, t
}

func (w *Wheel) addEntry(e *entry) {
	delta := e.expire - w.jiffies
	for i := 0; i < maxLayer; i++ {
		if delta <= w.layerMaxValue[i] {
			idx := (e.expire >> w.layerShift[i]) & w.layerMasks[i]
			w.layers[i][idx].addTail(e)
			return
		}
	}
}

func (w *Wheel) cascade(layer int) {
	idx := (w.jiffies >> w.layerShift[layer]) & w.layerMasks[layer]
	list := w.layers[layer][idx]
	var pending []*entry
	list.forEach(func(e *entry) { pending = append(pending, e) })
	list.clear()
	for _, e := range pending {
		w.addEntry(e)
	}
}

func (w *Wheel) advance(ticks int) {
	for i := 0; i < ticks; i++ {
		w.mu.Lock()
		w.jiffies++

		rootIdx := w.jiffies & w.layerMasks[0]
		if rootIdx == 0 {
			for layer := 1; layer < maxLayer; layer++ {
				w.cascade(layer)
				if (w.jiffies>>w.layerShift[layer])&w.layerMasks[layer] != 0 {
					break
				}
			}
		}

		due := w.layers[0][rootIdx]
		w.expired = w.expired[:0]
		due.forEach(func(e *entry) {
			e.list = nil
			w.expired = append(w.expired, e)
		})
		due.clear()

		w.mu.Unlock()

		for _, e := range w.expired {
			e.cb()
		}
	}
}
