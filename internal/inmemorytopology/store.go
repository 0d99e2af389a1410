// Package inmemorytopology provides a simple, thread-safe, in-memory
// implementation of the topologystore.Store interface.
package inmemorytopology

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/specialistvlad/extractgrid/internal/node"
	"github.com/specialistvlad/extractgrid/internal/nodeid"
	"github.com/specialistvlad/extractgrid/internal/topologystore"
)

// Store implements the topologystore.Store interface using maps and a mutex
// for thread-safe concurrent access.
type Store struct {
	mu        sync.RWMutex
	nodes     map[nodeid.Address]*node.Node
	groups    map[string][]nodeid.Address          // Key: group, Value: addresses in registration order
	consumers map[nodeid.Address][]nodeid.Address // Key: producer, Value: consumers in link order
}

// New creates a new, empty in-memory topology store.
func New() topologystore.Store {
	return &Store{
		nodes:     make(map[nodeid.Address]*node.Node),
		groups:    make(map[string][]nodeid.Address),
		consumers: make(map[nodeid.Address][]nodeid.Address),
	}
}

// AddNode adds a new node to the store.
func (s *Store) AddNode(ctx context.Context, n *node.Node) error {
	key := n.Address()
	if key.IsZero() {
		return fmt.Errorf("cannot add node of type '%s' without an address", n.TypeName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, exists := s.nodes[key]; exists {
		if existing == n {
			// Adding the same node twice is not an error, it's idempotent.
			return nil
		}
		return fmt.Errorf("node '%s' is already registered", key)
	}
	s.nodes[key] = n
	s.groups[key.Group] = append(s.groups[key.Group], key)
	return nil
}

// RemoveNode deletes a node together with its links.
func (s *Store) RemoveNode(ctx context.Context, id nodeid.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[id]; !exists {
		return nil
	}
	delete(s.nodes, id)
	s.groups[id.Group] = slices.DeleteFunc(s.groups[id.Group], func(a nodeid.Address) bool { return a == id })
	delete(s.consumers, id)
	for producer, list := range s.consumers {
		s.consumers[producer] = slices.DeleteFunc(list, func(a nodeid.Address) bool { return a == id })
	}
	return nil
}

// GetNode retrieves a single node by its address.
func (s *Store) GetNode(ctx context.Context, id nodeid.Address) (*node.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	return n, ok
}

// NodesInGroup returns the nodes of a group in registration order.
func (s *Store) NodesInGroup(ctx context.Context, group string) []*node.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.groups[group]
	nodes := make([]*node.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, s.nodes[id])
	}
	return nodes
}

// AddDependency records that 'to' consumes 'from'.
func (s *Store) AddDependency(ctx context.Context, from, to nodeid.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[from]; !exists {
		return fmt.Errorf("producer node '%s' not found in topology", from)
	}
	if _, exists := s.nodes[to]; !exists {
		return fmt.Errorf("consumer node '%s' not found in topology", to)
	}
	if slices.Contains(s.consumers[from], to) {
		return nil
	}
	s.consumers[from] = append(s.consumers[from], to)
	return nil
}

// ConsumersOf returns the addresses of all nodes that consume the given node.
func (s *Store) ConsumersOf(ctx context.Context, id nodeid.Address) ([]nodeid.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.nodes[id]; !exists {
		return nil, fmt.Errorf("node '%s' not found in topology", id)
	}
	return slices.Clone(s.consumers[id]), nil
}
