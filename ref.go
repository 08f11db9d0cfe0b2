package actorsys

// refKind distinguishes the variants of ActorRef spec.md §4.3 calls for:
// a strong local handle, a known-dead handle, a handle to one of the
// three built-in guardians, and a handle to a throwaway ask actor. All
// four share the same Tell/Path/Equal machinery; the only kind the code
// consults is Dead, which makes a ref undeliverable (see IsDead).
type refKind int

const (
	refLocal refKind = iota
	refDead
	refGuardian
	refAsk
)

// ActorRef is an opaque, shareable handle to an actor. It forwards Tell
// and (internally) system signals to the actor's mailbox without exposing
// the ActorCell itself; ownership of the cell lives in the parent's
// children map, never in the ref. A Local ref whose cell has since been
// destroyed silently redirects Tell to the system's dead-letters actor.
//
// Grounded on original_source/src/actors/actor_ref.rs's ActorRef
// (InnerActor enum of Cthulhu/Actor variants, here Dead/Local/
// Guardian/Ask) and src/framework/actor/context.go's ActorID-plus-
// mailbox-lookup shape.
type ActorRef struct {
	kind    refKind
	path    ActorPath
	mailbox *Mailbox
	system  *ActorSystem
}

func newLocalRef(kind refKind, path ActorPath, mb *Mailbox, system *ActorSystem) ActorRef {
	return ActorRef{kind: kind, path: path, mailbox: mb, system: system}
}

func newDeadRef(path ActorPath, system *ActorSystem) ActorRef {
	return ActorRef{kind: refDead, path: path, system: system}
}

// Path returns the actor's logical address.
func (r ActorRef) Path() ActorPath {
	return r.path
}

// Equal compares two refs by path, per spec.md §3/§4.3.
func (r ActorRef) Equal(other ActorRef) bool {
	return r.path.Equal(other.path)
}

// IsDead reports whether this reference can no longer deliver anything:
// it was always a placeholder (Dead), its path is Distant, which this core
// never routes to, or it has no mailbox at all (the zero ActorRef).
func (r ActorRef) IsDead() bool {
	return r.kind == refDead || r.path.IsDistant() || r.mailbox == nil
}

func (r ActorRef) String() string {
	return r.path.String()
}

// Tell asynchronously delivers msg to the actor this ref addresses, on
// behalf of sender (use DeadLetters() if there is no meaningful sender).
// If the target is gone, Distant, or was never alive, the message is
// routed to /dead_letters instead — it is never silently lost.
func (r ActorRef) Tell(msg interface{}, sender ActorRef) {
	env := Envelope{Payload: msg, Sender: sender}
	if r.IsDead() || r.mailbox.isDead() {
		r.deadLetter(env)
		return
	}
	r.mailbox.PushUser(env)
}

func (r ActorRef) deadLetter(env Envelope) {
	if r.system == nil {
		return
	}
	r.system.recordDeadLetter(env, r.path)
}

// sendSystem delivers a system message directly to this ref's mailbox. It
// is unexported: only the cell/dispatcher machinery within this package
// sends system signals; user code reaches the same effects through
// Context methods (Stop, KillMe, ...).
func (r ActorRef) sendSystem(msg SystemMessage) {
	if r.IsDead() || r.mailbox.isDead() {
		return
	}
	r.mailbox.PushSystem(msg)
}
