// Package session defines the interfaces of the node universe the extraction
// core queries: a group-tagged registry of typed nodes, the prototypes of
// every registered node type, and the lifecycle hooks used when new nodes are
// created.
package session

import (
	"context"
	"sync"

	"github.com/specialistvlad/extractgrid/internal/node"
	"github.com/specialistvlad/extractgrid/internal/registry"
)

// SessionFactory creates a Session. Different implementations can back the
// node registry with different stores.
type SessionFactory interface {
	NewSession(ctx context.Context, reg *registry.Registry) (Session, error)
}

// Session is the addressable universe of nodes for one running instance.
type Session interface {
	// ID returns the unique identifier of the session.
	ID() string

	// Group returns the nodes registered in group, in registration order.
	Group(ctx context.Context, group string) []*node.Node
	// Lookup finds a registered node by group and name.
	Lookup(ctx context.Context, group, name string) (*node.Node, bool)

	// NewNode instantiates an unregistered node of a registered type. input is
	// the decoded configuration of the type, or nil for its zero value.
	NewNode(ctx context.Context, group, typeName string, input any) (*node.Node, error)
	// Prototypes returns one uninstantiated node per type registered in
	// group, in registration order. Prototypes are never registered.
	Prototypes(ctx context.Context, group string) []*node.Node
	// UniqueName derives a name from label that is not yet taken in group.
	UniqueName(ctx context.Context, group, label string) string

	// PreInitialize applies the default attribute values of the node's type.
	PreInitialize(ctx context.Context, n *node.Node) error
	// PostInitialize runs the capability's PostInitializer hook, if any.
	PostInitialize(ctx context.Context, n *node.Node) error

	// Register adds a node to group under name.
	Register(ctx context.Context, group, name string, n *node.Node) error
	// AddConsumer records that consumer depends on producer, so that
	// unregistering producer also unregisters consumer.
	AddConsumer(ctx context.Context, producer, consumer *node.Node) error
	// Unregister removes a node and, recursively, everything consuming it.
	Unregister(ctx context.Context, n *node.Node) error

	// Close releases any resources held by the session.
	Close(ctx context.Context) error
}

// PostInitializer is implemented by capabilities that need to run logic once
// their node's attributes have been bound.
type PostInitializer interface {
	PostInitialize(ctx context.Context, n *node.Node) error
}

// Of returns the session that owns n, if any.
func Of(n *node.Node) (Session, bool) {
	if n == nil {
		return nil, false
	}
	s, ok := n.Owner().(Session)
	return s, ok
}

// Holder tracks the active session of a process.
type Holder struct {
	mu     sync.RWMutex
	active Session
}

// Default is the process-wide holder used when none is configured.
var Default = &Holder{}

// Set makes s the active session. A nil s clears it.
func (h *Holder) Set(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active = s
}

// Active returns the active session.
func (h *Holder) Active() (Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.active, h.active != nil
}
