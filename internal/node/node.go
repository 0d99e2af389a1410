// Package node defines the vertex type shared by every session: sources,
// output ports, extract generators, writers and triggers are all nodes.
//
// A node carries named attributes stored as cty values, references to other
// nodes, per-property value domains, and an opaque capability implementation
// that callers narrow with As.
package node

import (
	"sort"
	"sync"

	"github.com/specialistvlad/extractgrid/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

// Node is a single addressable entity of a session.
type Node struct {
	// TypeName is the registered type the node was created from, e.g. "Extractor".
	TypeName string
	// Label is the human-readable display label of the type.
	Label string
	// Category is the registry group the type is defined in. It may differ
	// from the group the node is registered under.
	Category string

	mu      sync.RWMutex
	id      nodeid.Address
	owner   any
	impl    any
	attrs   map[string]cty.Value
	refs    map[string]*Node
	domains map[string][]*Node
	dirty   map[string]struct{}

	// source and port are set for output ports only.
	source *Node
	port   int
}

// New creates an unregistered node. impl is the capability implementation the
// node exposes through As; it may be nil.
func New(typeName, label string, impl any) *Node {
	return &Node{
		TypeName: typeName,
		Label:    label,
		impl:     impl,
		attrs:    make(map[string]cty.Value),
		refs:     make(map[string]*Node),
		domains:  make(map[string][]*Node),
		dirty:    make(map[string]struct{}),
		port:     nodeid.NoPort,
	}
}

// NewPort creates the output port with the given index on source.
func NewPort(source *Node, port int) *Node {
	n := New(source.TypeName, source.Label, nil)
	n.source = source
	n.port = port
	return n
}

// ID returns the canonical string representation of the node's address.
func (n *Node) ID() string {
	return n.Address().String()
}

// Address returns the structured address of the node. Ports derive theirs
// from the source node, so it stays valid after the source is registered.
func (n *Node) Address() nodeid.Address {
	if n.source != nil {
		return n.source.Address().WithPort(n.port)
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.id
}

// SetAddress assigns the node's address. It is called by the session when the
// node is registered.
func (n *Node) SetAddress(id nodeid.Address) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.id = id
}

// Name returns the registration name, or "" for an unregistered node.
func (n *Node) Name() string {
	return n.Address().Name
}

// Group returns the group the node is registered in.
func (n *Node) Group() string {
	return n.Address().Group
}

// Owner returns the session the node belongs to, as stored by SetOwner.
func (n *Node) Owner() any {
	if n.source != nil {
		return n.source.Owner()
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.owner
}

// SetOwner records the session that owns the node.
func (n *Node) SetOwner(owner any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.owner = owner
}

// IsPort reports whether the node is an output port of another node.
func (n *Node) IsPort() bool {
	return n.source != nil
}

// Source returns the node owning this output port, or nil for a regular node.
func (n *Node) Source() *Node {
	return n.source
}

// Port returns the output port index, or nodeid.NoPort.
func (n *Node) Port() int {
	return n.port
}

// SameOutput reports whether a and b denote the same output: the same node, or
// the same port of the same source.
func SameOutput(a, b *Node) bool {
	if a == nil || b == nil {
		return false
	}
	if a == b {
		return true
	}
	return a.IsPort() && b.IsPort() && a.source == b.source && a.port == b.port
}

// Impl returns the raw capability implementation.
func (n *Node) Impl() any {
	if n == nil {
		return nil
	}
	return n.impl
}

// As narrows the node's capability implementation to T.
func As[T any](n *Node) (T, bool) {
	var zero T
	if n == nil || n.impl == nil {
		return zero, false
	}
	v, ok := n.impl.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// SetAttr sets a named attribute and marks it as uncommitted.
func (n *Node) SetAttr(name string, value cty.Value) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.attrs[name] = value
	n.dirty[name] = struct{}{}
}

// Attr returns a named attribute. Output ports fall back to the attributes of
// their source node.
func (n *Node) Attr(name string) (cty.Value, bool) {
	n.mu.RLock()
	v, ok := n.attrs[name]
	n.mu.RUnlock()
	if !ok && n.source != nil {
		return n.source.Attr(name)
	}
	return v, ok
}

// Bool interprets a named attribute as a flag. Only a known true boolean or
// the number 1 count as set.
func (n *Node) Bool(name string) bool {
	v, ok := n.Attr(name)
	if !ok || v.IsNull() || !v.IsKnown() {
		return false
	}
	switch v.Type() {
	case cty.Bool:
		return v.True()
	case cty.Number:
		return v.Equals(cty.NumberIntVal(1)).True()
	default:
		return false
	}
}

// String returns a string attribute, or "" if it is missing or not a string.
func (n *Node) String(name string) string {
	v, ok := n.Attr(name)
	if !ok || v.IsNull() || !v.IsKnown() || v.Type() != cty.String {
		return ""
	}
	return v.AsString()
}

// SetRef sets a node-reference attribute. A nil target clears it.
func (n *Node) SetRef(name string, target *Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if target == nil {
		delete(n.refs, name)
	} else {
		n.refs[name] = target
	}
	n.dirty[name] = struct{}{}
}

// Ref resolves a node-reference attribute, or returns nil.
func (n *Node) Ref(name string) *Node {
	if n == nil {
		return nil
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.refs[name]
}

// AddToDomain adds a candidate to the set of values a reference property may
// take. Editors use the domain to present the choices.
func (n *Node) AddToDomain(property string, candidate *Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, existing := range n.domains[property] {
		if existing == candidate {
			return
		}
	}
	n.domains[property] = append(n.domains[property], candidate)
}

// Domain returns the allowed values registered for a reference property.
func (n *Node) Domain(property string) []*Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]*Node(nil), n.domains[property]...)
}

// Dirty returns the sorted names of attributes modified since the last Commit.
func (n *Node) Dirty() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	names := make([]string, 0, len(n.dirty))
	for name := range n.dirty {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Commit marks all pending attribute modifications as applied and returns
// the names of the attributes that were pending.
func (n *Node) Commit() []string {
	names := n.Dirty()
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dirty = make(map[string]struct{})
	return names
}
