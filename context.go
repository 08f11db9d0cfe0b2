package actorsys

import "golang.org/x/exp/maps"

// Context is the only surface user code sees. It is created fresh for each
// Receive call and must not be retained past it — Self/Parent/the sender
// captured in currentSender can move on to other state the instant Receive
// returns, since the next message (on this or any other actor) may already
// be running on a different worker.
//
// Grounded on src/framework/actor/context.go's Context interface, extended
// with ActorOf's error return and the Watch/Identify/KillMe operations
// spec.md §4.5 adds.
type Context interface {
	Self() ActorRef
	Parent() ActorRef
	Message() interface{}
	Sender() ActorRef
	Children() []ActorRef

	ActorOf(props Props, name string) (ActorRef, error)
	Tell(target ActorRef, msg interface{})
	Stop(target ActorRef)
	KillMe()
	Watch(target ActorRef)
	Identify(path string) *Future
}

type contextImpl struct {
	cell    *ActorCell
	message interface{}
}

func newContext(cell *ActorCell, message interface{}) *contextImpl {
	return &contextImpl{cell: cell, message: message}
}

func (c *contextImpl) Self() ActorRef { return c.cell.self }

func (c *contextImpl) Parent() ActorRef {
	if !c.cell.hasParent {
		return c.cell.self
	}
	return c.cell.parent
}

func (c *contextImpl) Message() interface{} { return c.message }

// Sender is always present: receiveUser/deliverSystemToUser set
// currentSender before Receive is ever called, defaulting to
// /dead_letters when there is no meaningful sender (spec.md §3).
func (c *contextImpl) Sender() ActorRef {
	return c.cell.currentSender
}

// Children returns a point-in-time snapshot; mutating the result has no
// effect on the cell's own bookkeeping.
func (c *contextImpl) Children() []ActorRef {
	return maps.Values(c.cell.children)
}

// ActorOf spawns a new child of Self(). An empty name requests an
// anonymous, system-assigned one; a name already in use returns an error
// rather than silently replacing the existing child (spec.md §4.2).
func (c *contextImpl) ActorOf(props Props, name string) (ActorRef, error) {
	return c.cell.actorOf(props, name)
}

// Tell is Context's convenience wrapper over ActorRef.Tell, always
// addressing the message as sent by Self().
func (c *contextImpl) Tell(target ActorRef, msg interface{}) {
	target.Tell(msg, c.cell.self)
}

// Stop asynchronously stops target, which need not be a child of Self() —
// any actor this context holds a ref to can be stopped.
func (c *contextImpl) Stop(target ActorRef) {
	target.sendSystem(Stop{})
}

// KillMe is equivalent to Stop(Self()): the cell finishes the message
// currently being handled, then stops itself and, eventually, reports
// Terminated to its own parent.
func (c *contextImpl) KillMe() {
	c.cell.self.sendSystem(Stop{})
}

// Watch registers Self() to receive a Terminated(target) once target stops,
// independent of whether target is (or ever was) a child of Self().
func (c *contextImpl) Watch(target ActorRef) {
	c.cell.monitoring[target.Path().String()] = target
	target.sendSystem(Monitoring{Watcher: c.cell.self})
}

// Identify resolves path by walking the tree one message hop per segment,
// per spec.md §4.5; it must never be awaited from inside a Receive call,
// since each hop is processed by the mailbox of a cell along the path, and
// a hop through this same cell would wait on the worker that the blocking
// Wait is holding.
func (c *contextImpl) Identify(path string) *Future {
	return c.cell.system.identify(path)
}
