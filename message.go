package actorsys

// Envelope is a message in flight: an opaque payload the receiver
// downcasts at runtime, plus the sender it should address any reply to.
// Grounded on src/framework/actor/message.go's UserMessage, folded down to
// the two fields spec.md §3 actually calls for (UserMessage's embedded
// *Future is redesigned here as the separate, minimal ask bridge in
// ask.go).
type Envelope struct {
	Payload interface{}
	Sender  ActorRef
}

// SystemMessage is the closed set of control signals a mailbox's system
// lane carries. It is a sealed interface: only the types in this file
// implement it, matching spec.md §3's "closed set of control signals".
type SystemMessage interface {
	systemMessage()
}

// Start transitions a cell Created -> Running. Delivered once, right
// after a cell's mailbox is registered.
type Start struct{}

func (Start) systemMessage() {}

// Restart drops the current behavior, rebuilds it from the cell's Props,
// flushes the pending user mailbox, and returns the cell to Running.
// Children are not recursively restarted.
type Restart struct {
	// Reason is the reason carried by the Failure that triggered this
	// restart (for a guardian without a parent, its own recovered panic).
	// Restart is only ever sent in response to a failure.
	Reason interface{}
}

func (Restart) systemMessage() {}

// Stop transitions a cell to Stopping: it in turn Stops every child and,
// once they have all reported Terminated, finishes stopping itself.
type Stop struct{}

func (Stop) systemMessage() {}

// Terminated notifies a parent or watcher that Child has fully stopped.
type Terminated struct {
	Child ActorRef
}

func (Terminated) systemMessage() {}

// Failure notifies a parent that Child's Receive panicked or explicitly
// failed. Default supervision (the only policy this core implements) is
// to Restart the child.
type Failure struct {
	Child  ActorRef
	Reason interface{}
}

func (Failure) systemMessage() {}

// Supervise registers Child in this cell's children map (the map Stop
// cascades over and Identify resolves against). Failure handling does not
// consult it: any Failure received is answered with a Restart.
type Supervise struct {
	Child ActorRef
}

func (Supervise) systemMessage() {}

// Monitoring registers Watcher to receive a Terminated(self) once this
// cell stops, independent of the parent/child relationship.
type Monitoring struct {
	Watcher ActorRef
}

func (Monitoring) systemMessage() {}
