package actorsys

import (
	"testing"
	"time"
)

type spawnOnceActor struct {
	err chan error
}

func (s spawnOnceActor) Receive(ctx Context) {
	if _, ok := ctx.Message().(Start); ok {
		_, err := ctx.ActorOf(func() Actor { return idleActor{} }, "dup")
		s.err <- err
		if err != nil {
			return
		}
		_, err = ctx.ActorOf(func() Actor { return idleActor{} }, "dup")
		s.err <- err
	}
}

func TestActorOfRejectsDuplicateSiblingName(t *testing.T) {
	sys := newTestSystem(2)
	defer sys.Shutdown()

	errs := make(chan error, 2)
	if _, err := sys.ActorOf(func() Actor { return spawnOnceActor{err: errs} }, "parent"); err != nil {
		t.Fatalf("ActorOf parent: %v", err)
	}

	select {
	case first := <-errs:
		if first != nil {
			t.Fatalf("first child spawn should succeed, got %v", first)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first spawn result")
	}

	select {
	case second := <-errs:
		if second == nil {
			t.Fatal("expected an error for a duplicate sibling name")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for second spawn result")
	}
}

// watcherActor watches target (given on Start) and forwards any Terminated
// it observes onto a channel.
type watcherActor struct {
	target ActorRef
	events chan ActorRef
}

func (w *watcherActor) Receive(ctx Context) {
	switch msg := ctx.Message().(type) {
	case Start:
		ctx.Watch(w.target)
	case Terminated:
		w.events <- msg.Child
	}
}

func TestWatchDeliversTerminatedForNonChild(t *testing.T) {
	sys := newTestSystem(4)
	defer sys.Shutdown()

	target, err := sys.ActorOf(func() Actor { return idleActor{} }, "watched")
	if err != nil {
		t.Fatalf("ActorOf target: %v", err)
	}

	events := make(chan ActorRef, 1)
	_, err = sys.ActorOf(func() Actor {
		return &watcherActor{target: target, events: events}
	}, "watcher")
	if err != nil {
		t.Fatalf("ActorOf watcher: %v", err)
	}

	time.Sleep(20 * time.Millisecond) // let Watch's Monitoring round trip land
	sys.Stop(target)

	select {
	case got := <-events:
		if !got.Equal(target) {
			t.Fatalf("Terminated for %s, want %s", got, target)
		}
	case <-time.After(time.Second):
		t.Fatal("watcher never observed Terminated")
	}
}
