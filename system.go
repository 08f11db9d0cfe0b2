package actorsys

import (
	"strings"
	"sync"
	"sync/atomic"

	murmur32 "github.com/twmb/murmur3"
	"golang.org/x/exp/slices"

	"actorsys/dispatcher"
	"actorsys/internal/actorlog"
	"actorsys/internal/safemap"
)

const (
	registryShards = 16
	userGuardian   = "user"
	systemGuardian = "system"
	deadLetters    = "dead_letters"
)

func hashPath(p string) uint32 {
	return murmur32.Sum32([]byte(p))
}

// guardianActor is the trivial behavior the two supervisory root actors
// run: it has no state of its own and exists only to own the top level of
// the /user and /system subtrees.
type guardianActor struct{}

func (guardianActor) Receive(ctx Context) {}

// deadLetterActor absorbs everything Tell'd to it and counts what arrives,
// per spec.md §4.5 ("dead_letters absorbs undeliverable messages and logs
// their count").
type deadLetterActor struct {
	system *ActorSystem
}

func (d *deadLetterActor) Receive(ctx Context) {
	switch ctx.Message().(type) {
	case Start, Stop, Restart, Terminated:
		return
	}
	d.system.deadLetterCount.Add(1)
	d.system.logger.Debugf("dead letter: %#v from %s", ctx.Message(), ctx.Sender())
}

// ActorSystem owns the three root guardians, the shared dispatcher, and the
// diagnostic path registry. Grounded on src/framework/actor/system.go's
// ActorSystem (root ContextImpl + mailboxMap), expanded per spec.md §4.5 to
// three named guardians instead of one anonymous root, and an explicit
// worker pool size rather than one goroutine per mailbox.
type ActorSystem struct {
	name string

	dispatcher *dispatcher.Dispatcher
	logger     *actorlog.Logger

	registry *safemap.ConcurrentMap[string, *Mailbox]

	userGuardianRef   ActorRef
	systemGuardianRef ActorRef
	deadLettersRef    ActorRef

	anonymousSeq atomic.Int64

	deadLetterCount atomic.Int64

	shutdownWG sync.WaitGroup
	shutOnce   sync.Once
}

// NewActorSystem builds the three guardians and a dispatcher with no
// workers yet; call SpawnThreads to start processing messages.
func NewActorSystem(name string) *ActorSystem {
	sys := &ActorSystem{
		name:       name,
		dispatcher: dispatcher.New(),
		logger:     actorlog.Noop(),
		registry:   safemap.NewConcurrentMap[string, *Mailbox](registryShards, hashPath),
	}
	sys.shutdownWG.Add(3)

	sys.deadLettersRef = sys.spawnGuardian(deadLetters, func() Actor { return &deadLetterActor{system: sys} })
	sys.userGuardianRef = sys.spawnGuardian(userGuardian, func() Actor { return guardianActor{} })
	sys.systemGuardianRef = sys.spawnGuardian(systemGuardian, func() Actor { return guardianActor{} })

	return sys
}

// SetLogger installs a configured *actorlog.Logger in place of the default
// no-op one. Call before SpawnThreads.
func (s *ActorSystem) SetLogger(l *actorlog.Logger) {
	s.logger = l
}

func (s *ActorSystem) spawnGuardian(name string, props Props) ActorRef {
	path := NewLocalPath(name)
	cell := newActorCell(s, path, props, ActorRef{}, false)
	cell.terminateHook = s.shutdownWG.Done
	mb := newMailbox(cell, s.dispatcher)
	cell.mailbox = mb
	ref := newLocalRef(refGuardian, path, mb, s)
	cell.self = ref
	s.registerMailbox(path, mb)
	ref.sendSystem(Start{})
	return ref
}

// SpawnThreads starts n worker goroutines draining the shared dispatcher
// queue. Call once after construction, before any actors are expected to
// make progress (spec.md §4.4/§6).
func (s *ActorSystem) SpawnThreads(n int) {
	s.dispatcher.SpawnWorkers(n)
}

// User returns a ref to the /user guardian, the conventional parent for
// application-level top-level actors.
func (s *ActorSystem) User() ActorRef { return s.userGuardianRef }

// DeadLetters returns a ref to the /dead_letters sink.
func (s *ActorSystem) DeadLetters() ActorRef { return s.deadLettersRef }

// DeadLetterCount reports how many messages have been routed to
// /dead_letters over the system's lifetime.
func (s *ActorSystem) DeadLetterCount() int64 { return s.deadLetterCount.Load() }

// ActorOf spawns a top-level actor as a child of /user. It is roughly an
// order of magnitude slower than Context.ActorOf from inside a running
// actor (spec.md §4.5), since it round-trips through the guardian's own
// mailbox rather than mutating a children map the calling goroutine
// already owns.
func (s *ActorSystem) ActorOf(props Props, name string) (ActorRef, error) {
	reply := make(chan spawnResult, 1)
	s.userGuardianRef.sendSystem(spawnRequest{props: props, name: name, reply: reply})
	res := <-reply
	return res.ref, res.err
}

// Stop asynchronously stops ref, mirroring Context.Stop for callers outside
// any actor (spec.md §6's top-level "stop" entry). Grounded on
// src/framework/actor/system.go's own top-level Stop method.
func (s *ActorSystem) Stop(ref ActorRef) {
	ref.sendSystem(Stop{})
}

func (s *ActorSystem) nextAnonymousID() int64 {
	return s.anonymousSeq.Add(1)
}

func (s *ActorSystem) registerMailbox(path ActorPath, mb *Mailbox) {
	s.registry.Set(path.String(), mb)
}

func (s *ActorSystem) removeMailbox(path ActorPath) {
	s.registry.Del(path.String())
}

// RegisteredPaths returns every path currently in the diagnostic registry,
// sorted for stable output (logs, debug dumps). The registry itself is
// sharded and unordered, so the sort happens once here rather than in each
// caller.
func (s *ActorSystem) RegisteredPaths() []string {
	paths := make([]string, 0, s.registry.Length())
	s.registry.Each(func(k string, _ *Mailbox) {
		paths = append(paths, k)
	})
	slices.Sort(paths)
	return paths
}

func (s *ActorSystem) recordDeadLetter(env Envelope, target ActorPath) {
	s.deadLetterCount.Add(1)
	s.logger.Debugf("dead letter to %s: %#v", target, env.Payload)
}

// Shutdown stops all three guardians (which cascade Stop to every actor in
// the system), waits for them to fully terminate, then joins the
// dispatcher's worker goroutines. After Shutdown returns, no cell is alive
// and no worker thread remains (spec.md §8).
func (s *ActorSystem) Shutdown() {
	s.shutOnce.Do(func() {
		s.userGuardianRef.sendSystem(Stop{})
		s.systemGuardianRef.sendSystem(Stop{})
		s.deadLettersRef.sendSystem(Stop{})
		s.shutdownWG.Wait()
		s.dispatcher.Shutdown()
	})
}

// identify walks path one segment at a time, each hop a message round trip
// to the current cell's own mailbox, per spec.md §4.5. It runs on its own
// goroutine so the caller gets a Future back immediately instead of
// blocking inside this call.
func (s *ActorSystem) identify(path string) *Future {
	fut := newFuture()
	go func() {
		trimmed := strings.Trim(path, "/")
		var segments []string
		if trimmed != "" {
			segments = strings.Split(trimmed, "/")
		}
		if len(segments) == 0 {
			fut.resolve(nil, nil)
			return
		}

		var current ActorRef
		switch segments[0] {
		case userGuardian:
			current = s.userGuardianRef
		case systemGuardian:
			current = s.systemGuardianRef
		case deadLetters:
			current = s.deadLettersRef
		default:
			fut.resolve(nil, nil)
			return
		}

		for _, seg := range segments[1:] {
			reply := make(chan childLookup, 1)
			if current.IsDead() || current.mailbox.isDead() {
				fut.resolve(nil, nil)
				return
			}
			current.mailbox.PushSystem(resolveChildMsg{name: seg, reply: reply})
			lookup := <-reply
			if !lookup.found {
				fut.resolve(nil, nil)
				return
			}
			current = lookup.ref
		}
		found := current
		fut.resolve(&found, nil)
	}()
	return fut
}

// spawnRequest/spawnResult let ActorSystem.ActorOf ask the /user guardian
// to spawn a child on its behalf, using the same resolveChildMsg-style
// private system-message extension as Identify.
type spawnRequest struct {
	props Props
	name  string
	reply chan spawnResult
}

func (spawnRequest) systemMessage() {}

type spawnResult struct {
	ref ActorRef
	err error
}
