// Package safemap is a sharded concurrent map, adapted from utility/safemap,
// used by actorsys to hold the path-to-mailbox registry without a single
// global lock.
package safemap

type HashFunc[K comparable] func(k K) uint32

// ConcurrentMap shards an underlying set of SafeMap instances by a
// caller-supplied hash function, so lookups on different keys don't
// contend on the same lock.
type ConcurrentMap[K comparable, V any] struct {
	shardNum uint32
	shards   []*SafeMap[K, V]
	hashFunc HashFunc[K]
}

func NewConcurrentMap[K comparable, V any](shardNum uint32, hashFunc HashFunc[K]) *ConcurrentMap[K, V] {
	if shardNum <= 1 {
		shardNum = 1
	}
	m := &ConcurrentMap[K, V]{
		shardNum: shardNum,
		hashFunc: hashFunc,
	}
	m.shards = make([]*SafeMap[K, V], shardNum)
	for i := uint32(0); i < shardNum; i++ {
		m.shards[i] = NewSafeMap[K, V]()
	}
	return m
}

func (cm *ConcurrentMap[K, V]) getShard(k K) int {
	h := cm.hashFunc(k)
	if h < cm.shardNum {
		return int(h)
	}
	return int(h % cm.shardNum)
}

func (cm *ConcurrentMap[K, V]) Get(k K) (V, bool) {
	return cm.shards[cm.getShard(k)].Get(k)
}

func (cm *ConcurrentMap[K, V]) Set(k K, v V) {
	cm.shards[cm.getShard(k)].Set(k, v)
}

func (cm *ConcurrentMap[K, V]) Del(k K) {
	cm.shards[cm.getShard(k)].Del(k)
}

func (cm *ConcurrentMap[K, V]) Length() int {
	total := 0
	for _, s := range cm.shards {
		total += s.Length()
	}
	return total
}

// Each calls f for every key/value pair across all shards. The snapshot is
// not globally atomic: a key added to one shard mid-iteration may or may
// not be observed, but each shard's own view is consistent.
func (cm *ConcurrentMap[K, V]) Each(f func(K, V)) {
	for _, s := range cm.shards {
		s.Each(f)
	}
}
