// Package fsm is a small finite state machine, adapted from utility/fsm.
// actorsys uses it to drive an actor cell's lifecycle
// (Created/Running/Restarting/Stopping/Stopped) with enter/leave hooks
// instead of an ad-hoc chain of if-statements.
package fsm

import "strings"

type Callback func(*Event)

type CallbackType int

const (
	CbTypeNone       CallbackType = 0
	CbTypeLeaveState CallbackType = 1
	CbTypeEnterState CallbackType = 2
)

type Event struct {
	Name string
	Src  string
	Dst  string
}

type EventTransition struct {
	Name string
	Src  []string
	Dst  string
}

type eventTransKey struct {
	event string
	src   string
}

type callbackKey struct {
	cbType CallbackType
	state  string
}

// FSM is a not-thread-safe finite state machine. Callers that drive it
// from multiple goroutines must serialize access themselves; actorsys only
// ever drives a cell's FSM from the single worker that currently owns that
// cell's mailbox, so no lock is needed here.
type FSM struct {
	currentState string
	transitions  map[eventTransKey]string
	callbacks    map[callbackKey]Callback
}

// NewFSM builds an FSM starting in initialState. Callback keys are
// prefixed "enter_<state>" or "leave_<state>"; anything else is ignored.
func NewFSM(initialState string, trans []EventTransition, callbacks map[string]Callback) *FSM {
	f := &FSM{
		currentState: initialState,
		transitions:  make(map[eventTransKey]string),
		callbacks:    make(map[callbackKey]Callback),
	}
	for _, t := range trans {
		for _, src := range t.Src {
			f.transitions[eventTransKey{t.Name, src}] = t.Dst
		}
	}
	for k, cb := range callbacks {
		switch {
		case strings.HasPrefix(k, "enter_"):
			state := strings.TrimPrefix(k, "enter_")
			f.callbacks[callbackKey{CbTypeEnterState, state}] = cb
		case strings.HasPrefix(k, "leave_"):
			state := strings.TrimPrefix(k, "leave_")
			f.callbacks[callbackKey{CbTypeLeaveState, state}] = cb
		}
	}
	return f
}

func (f *FSM) CurrentState() string {
	return f.currentState
}

func (f *FSM) CanEvent(event string) bool {
	_, ok := f.transitions[eventTransKey{event, f.currentState}]
	return ok
}

// Event fires a transition named event from the current state. It is a
// no-op if no such transition exists from the current state.
func (f *FSM) Event(event string) bool {
	dst, ok := f.transitions[eventTransKey{event, f.currentState}]
	if !ok {
		return false
	}

	e := &Event{Name: event, Src: f.currentState, Dst: dst}

	if cb, ok := f.callbacks[callbackKey{CbTypeLeaveState, e.Src}]; ok {
		cb(e)
	}
	f.currentState = dst
	if cb, ok := f.callbacks[callbackKey{CbTypeEnterState, e.Dst}]; ok {
		cb(e)
	}
	return true
}
