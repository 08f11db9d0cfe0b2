package actorsys

// askActor is the throwaway actor spawned under /system for a single Ask
// call: it sends target the request (itself as sender), forwards whatever
// comes back into the Future, and kills itself either way. Grounded on
// original_source/src/actors/future.rs's FutureExtractor, which plays
// exactly this role in the original.
type askActor struct {
	fut *Future
}

func (a *askActor) Receive(ctx Context) {
	switch msg := ctx.Message().(type) {
	case Start:
		return
	case Stop, Restart, Terminated:
		return
	default:
		a.fut.resolve(msg, nil)
		ctx.KillMe()
	}
}

// Ask sends msg to target and returns a Future that resolves to whatever
// single reply target's Receive sends back to the sender it observes —
// which is this call's throwaway actor, not the original caller. Per
// spec.md §4.5, Ask itself never times out; wrap the returned Future in
// WaitTimeout if a deadline is wanted.
//
// askActor is spawned under /system, matching spec.md's "a per-Ask
// throwaway actor under /system" placement, so an Ask storm cannot be
// mistaken by an onlooker iterating Children() on /user for real
// application actors.
func Ask(system *ActorSystem, target ActorRef, msg interface{}) *Future {
	fut := newFuture()
	reply := make(chan spawnResult, 1)
	system.systemGuardianRef.sendSystem(spawnRequest{
		props: func() Actor { return &askActor{fut: fut} },
		reply: reply,
	})
	res := <-reply
	if res.err != nil {
		fut.resolve(nil, res.err)
		return fut
	}
	target.Tell(msg, res.ref)
	return fut
}
