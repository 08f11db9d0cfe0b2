package actorlog

import (
	"sync"
	"testing"
	"time"
)

type captureSink struct {
	mu   sync.Mutex
	recs []*Record
}

func (c *captureSink) Write(r *Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recs = append(c.recs, r)
}

func (c *captureSink) snapshot() []*Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Record, len(c.recs))
	copy(out, c.recs)
	return out
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	sink := &captureSink{}
	l := New()
	l.SetLevel(LevelWarn)
	l.AddSink(sink)
	l.Start()
	defer l.Stop()

	l.Debugf("ignored %d", 1)
	l.Infof("ignored %d", 2)
	l.Warnf("kept %d", 3)
	l.Errorf("kept %d", 4)

	deadline := time.Now().Add(time.Second)
	for len(sink.snapshot()) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	recs := sink.snapshot()
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(recs), recs)
	}
	if recs[0].Message != "kept 3" || recs[1].Message != "kept 4" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}
