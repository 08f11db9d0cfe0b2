package actorsys

import "strings"

// ActorPath is an actor's immutable logical address. It is either Local,
// rooted at "/" with an ordered sequence of name segments, or Distant, a
// placeholder for a future remoting implementation: the core preserves its
// equality and printability but — per spec — never routes to it; any Tell
// aimed at a Distant path is dead-lettered.
//
// Grounded on original_source/src/actors/actor_ref.rs's ActorPath enum
// (Local(String) / Distant(ConnectionInfo)).
type ActorPath struct {
	segments []string
	distant  *ConnectionInfo
}

// ConnectionInfo is the (inert) remoting placeholder a Distant ActorPath
// carries: a logical path at the remote node plus its address.
type ConnectionInfo struct {
	LogicalPath string
	AddrPort    string
}

// RootPath is the actor system's root, "/".
var RootPath = ActorPath{segments: nil}

// NewLocalPath builds a Local path from root-relative segments, e.g.
// NewLocalPath("user", "foo", "bar") is "/user/foo/bar".
func NewLocalPath(segments ...string) ActorPath {
	cp := make([]string, len(segments))
	copy(cp, segments)
	return ActorPath{segments: cp}
}

// NewDistantPath builds an inert Distant path: preserved for equality and
// printing, but never locally routable.
func NewDistantPath(logicalPath, addrPort string) ActorPath {
	return ActorPath{distant: &ConnectionInfo{LogicalPath: logicalPath, AddrPort: addrPort}}
}

// IsDistant reports whether this path names a (currently inert) remote
// actor rather than a local one.
func (p ActorPath) IsDistant() bool {
	return p.distant != nil
}

// Child returns the path of a child named name below p. Panics if p is
// Distant: remote actors are never locally spawnable, matching the
// original's ActorPath::child, which panics in the same situation.
func (p ActorPath) Child(name string) ActorPath {
	if p.IsDistant() {
		panic("actorsys: cannot create a child path under a distant actor")
	}
	child := make([]string, len(p.segments)+1)
	copy(child, p.segments)
	child[len(p.segments)] = name
	return ActorPath{segments: child}
}

// Segments returns a copy of the path's local name segments. Empty (and
// meaningless) for a Distant path.
func (p ActorPath) Segments() []string {
	cp := make([]string, len(p.segments))
	copy(cp, p.segments)
	return cp
}

// Name is the last segment of the path, or "" for the root or a Distant
// path.
func (p ActorPath) Name() string {
	if p.IsDistant() || len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// ConnectionInfo returns the remoting placeholder for a Distant path, or
// nil for a Local one.
func (p ActorPath) ConnectionInfo() *ConnectionInfo {
	return p.distant
}

// String renders "/" + segments joined by "/" for a Local path, or the
// distant logical path (still preserving printability, per spec.md §3)
// for a Distant one.
func (p ActorPath) String() string {
	if p.IsDistant() {
		return p.distant.LogicalPath
	}
	if len(p.segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.segments, "/")
}

// Equal compares two paths by their canonical string form, matching the
// derived structural equality original_source gives ActorPath.
func (p ActorPath) Equal(other ActorPath) bool {
	return p.String() == other.String()
}
