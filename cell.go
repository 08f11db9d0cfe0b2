package actorsys

import (
	"fmt"

	"actorsys/internal/actorlog"
	"actorsys/internal/fsm"
)

// Cell lifecycle states, driven by internal/fsm. Grounded on
// src/utility/fsm's Callback/Event shape, with the state names and
// transitions taken from spec.md §4.2.
const (
	stateCreated    = "created"
	stateRunning    = "running"
	stateRestarting = "restarting"
	stateStopping   = "stopping"
	stateStopped    = "stopped"
)

const (
	evStart     = "start"
	evFail      = "fail"
	evRestarted = "restarted"
	evStop      = "stop"
	evStopped   = "stopped"
)

// resolveChildMsg is an internal, unexported extension of the system-message
// lane used only to implement Context/ActorSystem.Identify's per-hop lookup
// (spec.md §4.5): each hop needs the target cell's own worker to read its
// children map, since that map is otherwise only ever touched by the
// goroutine currently running that cell's RunBatch. It is never delivered to
// Actor.Receive, exactly like Supervise and Monitoring.
type resolveChildMsg struct {
	name  string
	reply chan childLookup
}

func (resolveChildMsg) systemMessage() {}

type childLookup struct {
	ref   ActorRef
	found bool
}

// ActorCell is the private state machine behind every ActorRef: lifecycle,
// children, and monitors, plus the user Actor instance itself. Exactly one
// goroutine — whichever worker is currently running its Mailbox — touches
// a cell's mutable fields at a time, so none of them need their own lock;
// that single-owner guarantee is the dispatcher's, not this file's.
//
// Grounded on src/framework/actor/context.go's ContextImpl (which plays
// both Context and Cell in one type there) split into its two spec.md
// roles: this file owns lifecycle/supervision, context.go owns the
// user-facing Context surface.
type ActorCell struct {
	system *ActorSystem
	path   ActorPath
	props  Props

	self   ActorRef
	parent ActorRef

	hasParent      bool
	terminateHook  func()

	behavior Actor
	mailbox  *Mailbox

	children    map[string]ActorRef
	monitoring  map[string]ActorRef
	monitoredBy map[string]ActorRef

	currentSender ActorRef

	lifecycle *fsm.FSM
}

func newActorCell(system *ActorSystem, path ActorPath, props Props, parent ActorRef, hasParent bool) *ActorCell {
	c := &ActorCell{
		system:      system,
		path:        path,
		props:       props,
		parent:      parent,
		hasParent:   hasParent,
		behavior:    props(),
		children:    make(map[string]ActorRef),
		monitoring:  make(map[string]ActorRef),
		monitoredBy: make(map[string]ActorRef),
	}
	c.lifecycle = fsm.NewFSM(stateCreated,
		[]fsm.EventTransition{
			{Name: evStart, Src: []string{stateCreated}, Dst: stateRunning},
			{Name: evFail, Src: []string{stateRunning}, Dst: stateRestarting},
			{Name: evRestarted, Src: []string{stateRestarting}, Dst: stateRunning},
			{Name: evStop, Src: []string{stateRunning, stateRestarting}, Dst: stateStopping},
			{Name: evStopped, Src: []string{stateStopping}, Dst: stateStopped},
		},
		map[string]fsm.Callback{
			"enter_" + stateStopped: func(*fsm.Event) { c.finalizeStop() },
		},
	)
	return c
}

func (c *ActorCell) logger() *actorlog.Logger {
	return c.system.logger
}

// receiveSystem dispatches a single system message. It is only ever called
// by the worker currently running this cell's mailbox (dispatcher.Runnable
// contract), so reads/writes of children/monitoring/monitoredBy here never
// race with a Context call made from inside receiveUser on the same cell.
func (c *ActorCell) receiveSystem(msg SystemMessage) {
	switch m := msg.(type) {
	case Start:
		if c.lifecycle.CanEvent(evStart) {
			c.lifecycle.Event(evStart)
		}
		c.deliverSystemToUser(m)

	case Stop:
		c.handleStop()

	case Restart:
		c.handleRestart(m)

	case Terminated:
		c.handleChildTerminated(m)

	case Failure:
		c.handleChildFailure(m)

	case Supervise:
		c.children[m.Child.Path().Name()] = m.Child

	case Monitoring:
		// m.Watcher wants to watch *this* cell; Context.Watch already
		// recorded the reverse direction (this cell watching some target)
		// directly on the watcher's own cell.
		c.monitoredBy[m.Watcher.Path().String()] = m.Watcher

	case resolveChildMsg:
		ref, ok := c.children[m.name]
		m.reply <- childLookup{ref: ref, found: ok}

	case spawnRequest:
		ref, err := c.actorOf(m.props, m.name)
		m.reply <- spawnResult{ref: ref, err: err}

	default:
		c.logger().Warnf("actor %s: unrecognized system message %T", c.path, msg)
	}
}

// receiveUser delivers one user envelope to the behavior, containing any
// panic and converting it into a Failure sent to the parent — spec.md
// §4.2's "any failure (panic) is caught and converted into Failure(self,
// reason)". The mailbox is suspended before Receive even returns, so no
// further user messages reach this (about-to-be-replaced) behavior.
func (c *ActorCell) receiveUser(env Envelope) {
	if c.lifecycle.CurrentState() == stateStopped || c.lifecycle.CurrentState() == stateStopping {
		c.self.deadLetter(env)
		return
	}
	c.currentSender = env.Sender
	func() {
		defer func() {
			if r := recover(); r != nil {
				c.onFailure(r)
			}
		}()
		c.behavior.Receive(newContext(c, env.Payload))
	}()
	c.currentSender = ActorRef{}
}

func (c *ActorCell) deliverSystemToUser(msg SystemMessage) {
	prevSender := c.currentSender
	c.currentSender = c.system.deadLettersRef
	func() {
		defer func() {
			if r := recover(); r != nil {
				c.logger().Errorf("actor %s: panic handling %T: %v", c.path, msg, r)
			}
		}()
		c.behavior.Receive(newContext(c, msg))
	}()
	c.currentSender = prevSender
}

// onFailure is the panic handler: suspend, self-transition to Restarting,
// and tell the parent. The actual rebuild happens only once the parent's
// (default) Restart comes back — see handleRestart.
func (c *ActorCell) onFailure(reason interface{}) {
	c.logger().Errorf("actor %s: recovered panic: %v", c.path, reason)
	c.mailbox.suspend()
	if c.lifecycle.CanEvent(evFail) {
		c.lifecycle.Event(evFail)
	}
	if c.hasParent {
		c.parent.sendSystem(Failure{Child: c.self, Reason: reason})
	} else {
		// A guardian with no supervisor of its own restarts itself
		// directly rather than failing silently.
		c.handleRestart(Restart{Reason: reason})
	}
}

// handleChildFailure implements the only supervision policy this core
// knows: restart the child unconditionally (spec.md §4.2).
func (c *ActorCell) handleChildFailure(m Failure) {
	m.Child.sendSystem(Restart{Reason: m.Reason})
}

// handleRestart drops the old behavior, rebuilds it from Props, flushes the
// mailbox (spec.md's chosen resolution: Restart discards in-flight user
// envelopes rather than replaying them), resumes draining, and delivers the
// Restart itself to the new behavior so user code has an observable
// post-restart hook.
func (c *ActorCell) handleRestart(m Restart) {
	c.mailbox.flushUser()
	c.behavior = c.props()
	if c.lifecycle.CanEvent(evRestarted) {
		c.lifecycle.Event(evRestarted)
	}
	c.mailbox.resume()
	c.deliverSystemToUser(m)
}

// handleStop transitions to Stopping, cascades Stop to every child, and
// checks whether there were none to begin with.
func (c *ActorCell) handleStop() {
	if !c.lifecycle.CanEvent(evStop) {
		return
	}
	c.lifecycle.Event(evStop)
	c.deliverSystemToUser(Stop{})
	for _, child := range c.children {
		child.sendSystem(Stop{})
	}
	c.trySettleStop()
}

// handleChildTerminated removes a stopped child from the bookkeeping map
// and, if this cell watches the same ref (via Context.Watch), forwards the
// signal to the behavior too, whether or not it was a child. It then checks
// whether Stopping can now complete.
func (c *ActorCell) handleChildTerminated(m Terminated) {
	name := m.Child.Path().Name()
	child, wasChild := c.children[name]
	wasChild = wasChild && child.Equal(m.Child)
	if wasChild {
		delete(c.children, name)
	}
	key := m.Child.Path().String()
	_, wasMonitored := c.monitoring[key]
	if wasMonitored {
		delete(c.monitoring, key)
	}
	if wasMonitored {
		c.deliverSystemToUser(m)
	}
	c.trySettleStop()
}

// trySettleStop finishes the Stopping -> Stopped transition once every
// child has reported Terminated.
func (c *ActorCell) trySettleStop() {
	if c.lifecycle.CurrentState() != stateStopping {
		return
	}
	if len(c.children) > 0 {
		return
	}
	if c.lifecycle.CanEvent(evStopped) {
		c.lifecycle.Event(evStopped)
	}
}

// finalizeStop runs once, as the FSM's enter-Stopped callback: it marks the
// mailbox dead, drops the cell from the system's diagnostic registry, and
// notifies every watcher plus the parent so their own bookkeeping (and, for
// the three root guardians, ActorSystem.Shutdown's WaitGroup) can proceed.
func (c *ActorCell) finalizeStop() {
	c.mailbox.markDead()
	c.system.removeMailbox(c.path)
	for _, watcher := range c.monitoredBy {
		watcher.sendSystem(Terminated{Child: c.self})
	}
	if c.hasParent {
		c.parent.sendSystem(Terminated{Child: c.self})
	}
	if c.terminateHook != nil {
		c.terminateHook()
	}
}

// actorOf implements Context.ActorOf / ActorSystem.ActorOf's shared core:
// name-clash detection is synchronous (the caller needs it to return an
// error immediately, per spec.md §4.2's "name clashes ... are rejected"),
// while registering the child as supervised still flows through a Supervise
// system message sent to self, matching spec.md §4.5's literal description
// of actor_of — the map write below and the message are redundant by
// design, so the second arrival of the same fact is a harmless no-op.
func (c *ActorCell) actorOf(props Props, name string) (ActorRef, error) {
	if name == "" {
		name = fmt.Sprintf("$%d", c.system.nextAnonymousID())
	}
	if _, exists := c.children[name]; exists {
		return ActorRef{}, fmt.Errorf("actorsys: actor named %q already exists under %s", name, c.path)
	}

	childPath := c.path.Child(name)
	childCell := newActorCell(c.system, childPath, props, c.self, true)
	mb := newMailbox(childCell, c.system.dispatcher)
	childCell.mailbox = mb
	childRef := newLocalRef(refLocal, childPath, mb, c.system)
	childCell.self = childRef

	c.system.registerMailbox(childPath, mb)
	c.children[name] = childRef

	c.self.sendSystem(Supervise{Child: childRef})
	childRef.sendSystem(Start{})

	return childRef, nil
}
