// Package procgroup defines the collective-communication service shared by
// the processes cooperating on one distributed session.
//
// Broadcast is a collective: every member must call it, in the same order,
// for any of them to return. A member that never participates leaves the
// others blocked until their context is done.
package procgroup

import "context"

// Group is the view one process has of its process group.
type Group interface {
	// LocalRank returns the rank of this process, 0 being the coordinator.
	LocalRank() int
	// Size returns the number of processes in the group.
	Size() int
	// Broadcast distributes *value from origin to every member. On the origin
	// *value is read; on every other member it is overwritten.
	Broadcast(ctx context.Context, value *int, origin int) error
}

// Coordinator is the rank that performs rank-gated side effects.
const Coordinator = 0
