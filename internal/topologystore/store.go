// Package topologystore defines the interface for storing the nodes of a
// session and the producer/consumer links between them.
//
// # Why Topology Store Exists
//
// A session is a group-tagged registry: extract generators live in the
// "extract_generators" group, triggers in "extract_triggers", pipeline sources
// in "sources", and callers discover nodes by iterating a group. The store
// owns that registry as an explicit map from group name to an insertion-ordered
// set of nodes, so iteration order is stable and defined by registration.
//
// The store also records which registered nodes consume which others. A
// generator consumes the source it extracts from; when the source is removed,
// the session walks ConsumersOf to tear the generator down with it.
//
// # Lifecycle and Usage
//
// The topology store is:
//  1. **Created** once per session (ephemeral, not persistent across runs)
//  2. **Populated** by the authoring layer as sources, triggers and generators are registered
//  3. **Read** by discovery and dispatch on every time step
//  4. **Discarded** when the session ends
package topologystore

import (
	"context"

	"github.com/specialistvlad/extractgrid/internal/node"
	"github.com/specialistvlad/extractgrid/internal/nodeid"
)

// Store is the interface for the group-tagged node registry of a session.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use. The extraction core itself
// is single-threaded per process, but tests drive several simulated processes
// from goroutines.
//
// # Typical Implementation
//
// See internal/inmemorytopology for the reference in-memory implementation using
// maps, per-group slices and sync.RWMutex.
type Store interface {
	// AddNode registers a node under its address. The address must not be
	// taken by a different node; adding the same node twice is idempotent.
	AddNode(ctx context.Context, n *node.Node) error

	// RemoveNode unregisters a node and every link that mentions it.
	// Removing an unknown address is a no-op.
	RemoveNode(ctx context.Context, id nodeid.Address) error

	// GetNode retrieves a single node by its address.
	GetNode(ctx context.Context, id nodeid.Address) (*node.Node, bool)

	// NodesInGroup returns a snapshot of the nodes registered in group, in
	// registration order. Unknown groups yield an empty slice.
	NodesInGroup(ctx context.Context, group string) []*node.Node

	// AddDependency records that 'to' consumes 'from'. Both nodes must exist.
	AddDependency(ctx context.Context, from, to nodeid.Address) error

	// ConsumersOf returns the addresses of every node that consumes id, in the
	// order the links were added.
	ConsumersOf(ctx context.Context, id nodeid.Address) ([]nodeid.Address, error)
}
