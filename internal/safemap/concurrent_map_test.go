package safemap

import (
	"fmt"
	"testing"

	murmur32 "github.com/twmb/murmur3"
)

func hashString(k string) uint32 {
	return murmur32.Sum32([]byte(k))
}

func TestConcurrentMapSetGetDel(t *testing.T) {
	cm := NewConcurrentMap[string, int](16, hashString)

	for i := 0; i < 200; i++ {
		cm.Set(fmt.Sprintf("/user/actor-%d", i), i)
	}
	if cm.Length() != 200 {
		t.Fatalf("length = %d, want 200", cm.Length())
	}

	v, ok := cm.Get("/user/actor-42")
	if !ok || v != 42 {
		t.Fatalf("get actor-42 = (%d, %v), want (42, true)", v, ok)
	}

	cm.Del("/user/actor-42")
	if _, ok := cm.Get("/user/actor-42"); ok {
		t.Fatal("expected actor-42 to be gone after Del")
	}
	if cm.Length() != 199 {
		t.Fatalf("length = %d, want 199", cm.Length())
	}
}

func TestConcurrentMapEachVisitsAllShards(t *testing.T) {
	cm := NewConcurrentMap[string, int](4, hashString)
	want := map[string]int{"a": 1, "b": 2, "c": 3, "d": 4, "e": 5}
	for k, v := range want {
		cm.Set(k, v)
	}

	got := map[string]int{}
	cm.Each(func(k string, v int) { got[k] = v })

	if len(got) != len(want) {
		t.Fatalf("Each visited %d entries, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("Each[%s] = %d, want %d", k, got[k], v)
		}
	}
}
