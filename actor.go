package actorsys

// Actor is the behavior contract user code implements. Receive is called
// once per user message and for the Start, Stop and Restart system
// messages (plus Terminated for actors it watches), with no return value;
// Supervise, Monitoring and Failure never reach it. Failures
// surface by panicking (caught and converted into supervision, see
// ActorCell) or by the user code calling Context.KillMe.
//
// Grounded verbatim on src/framework/actor/actor.go's Actor interface.
type Actor interface {
	Receive(ctx Context)
}

// Props is the factory contract: a zero-argument constructor the system
// retains so it can rebuild a fresh behavior instance on restart.
type Props func() Actor
