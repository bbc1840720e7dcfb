// Package api defines the narrow interfaces that couple the arena and
// recycler packages to their external collaborators: the concrete buffer
// types that wrap an allocation handle, the thread-cache layer sitting
// between callers and an Arena, and the sentinel errors both packages
// surface on contract violations.
package api
