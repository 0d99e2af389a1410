// Package localsession provides a concrete implementation of the session.Session
// and session.SessionFactory interfaces for local, in-process sessions.
package localsession

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	"github.com/specialistvlad/extractgrid/internal/inmemorytopology"
	"github.com/specialistvlad/extractgrid/internal/node"
	"github.com/specialistvlad/extractgrid/internal/nodeid"
	"github.com/specialistvlad/extractgrid/internal/registry"
	"github.com/specialistvlad/extractgrid/internal/session"
	"github.com/specialistvlad/extractgrid/internal/topologystore"
)

// SessionFactory implements session.SessionFactory for local runs.
type SessionFactory struct{}

// NewSession creates and configures a new local session.
func (f *SessionFactory) NewSession(ctx context.Context, reg *registry.Registry) (session.Session, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("localsession.SessionFactory.NewSession called")
	if reg == nil {
		return nil, fmt.Errorf("a registry is required to create a session")
	}
	return New(reg, inmemorytopology.New()), nil
}

// Session implements session.Session for local runs.
type Session struct {
	id       string
	registry *registry.Registry
	store    topologystore.Store

	mu         sync.Mutex
	prototypes map[string]*node.Node // Key: "group/type"
}

var _ session.Session = (*Session)(nil)

// New creates a session over the given registry and topology store.
func New(reg *registry.Registry, store topologystore.Store) *Session {
	return &Session{
		id:         uuid.NewString(),
		registry:   reg,
		store:      store,
		prototypes: make(map[string]*node.Node),
	}
}

// ID returns the unique identifier of the session.
func (s *Session) ID() string {
	return s.id
}

// Group returns the registered nodes of a group in registration order.
func (s *Session) Group(ctx context.Context, group string) []*node.Node {
	return s.store.NodesInGroup(ctx, group)
}

// Lookup finds a registered node.
func (s *Session) Lookup(ctx context.Context, group, name string) (*node.Node, bool) {
	return s.store.GetNode(ctx, nodeid.New(group, name))
}

// NewNode instantiates an unregistered node of a registered type.
func (s *Session) NewNode(ctx context.Context, group, typeName string, input any) (*node.Node, error) {
	def, ok := s.registry.Lookup(group, typeName)
	if !ok {
		return nil, fmt.Errorf("unknown node type '%s' in group '%s'", typeName, group)
	}
	if input == nil && def.NewInput != nil {
		input = def.NewInput()
	}

	impl, err := def.New(input)
	if err != nil {
		return nil, fmt.Errorf("failed to create node of type '%s.%s': %w", group, typeName, err)
	}

	n := node.New(typeName, def.Label, impl)
	n.Category = group
	n.SetOwner(s)
	ctxlog.FromContext(ctx).Debug("Node instantiated.", "group", group, "type", typeName)
	return n, nil
}

// Prototypes returns the cached prototype nodes of a group.
func (s *Session) Prototypes(ctx context.Context, group string) []*node.Node {
	logger := ctxlog.FromContext(ctx)
	types := s.registry.Types(group)
	result := make([]*node.Node, 0, len(types))

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, typeName := range types {
		key := group + "/" + typeName
		proto, ok := s.prototypes[key]
		if !ok {
			var err error
			proto, err = s.NewNode(ctx, group, typeName, nil)
			if err != nil {
				logger.Warn("Skipping prototype that could not be created.", "group", group, "type", typeName, "error", err)
				continue
			}
			s.prototypes[key] = proto
		}
		result = append(result, proto)
	}
	return result
}

// UniqueName returns `<label>N` for the smallest N >= 1 not registered in group.
func (s *Session) UniqueName(ctx context.Context, group, label string) string {
	base := sanitizeLabel(label)
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s%d", base, i)
		if _, taken := s.Lookup(ctx, group, name); !taken {
			return name
		}
	}
}

// sanitizeLabel reduces a display label to characters valid in a node name.
func sanitizeLabel(label string) string {
	var sb strings.Builder
	for _, r := range label {
		if r == '_' || r == '-' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 || sb.String() == "-" {
		return "Node"
	}
	return sb.String()
}

// PreInitialize applies the default attribute values of the node's type
// without overriding values that were already set.
func (s *Session) PreInitialize(ctx context.Context, n *node.Node) error {
	def, ok := s.lookupDefinition(n)
	if !ok {
		return fmt.Errorf("no definition for node type '%s'", n.TypeName)
	}
	for name, value := range def.Defaults {
		if _, set := n.Attr(name); !set {
			n.SetAttr(name, value)
		}
	}
	return nil
}

// PostInitialize runs the node's PostInitializer hook, if it has one.
func (s *Session) PostInitialize(ctx context.Context, n *node.Node) error {
	if hook, ok := node.As[session.PostInitializer](n); ok {
		return hook.PostInitialize(ctx, n)
	}
	return nil
}

func (s *Session) lookupDefinition(n *node.Node) (*registry.RegisteredNode, bool) {
	group := n.Category
	if group == "" {
		group = n.Group()
	}
	return s.registry.Lookup(group, n.TypeName)
}

// Register adds a node to a group under name.
func (s *Session) Register(ctx context.Context, group, name string, n *node.Node) error {
	if n == nil {
		return fmt.Errorf("cannot register a nil node")
	}
	if n.IsPort() {
		return fmt.Errorf("output ports cannot be registered")
	}
	if !nodeid.ValidName(name) {
		return fmt.Errorf("invalid registration name: %q", name)
	}

	previous := n.Address()
	n.SetAddress(nodeid.New(group, name))
	if err := s.store.AddNode(ctx, n); err != nil {
		n.SetAddress(previous)
		return fmt.Errorf("failed to register '%s.%s': %w", group, name, err)
	}
	n.SetOwner(s)
	ctxlog.FromContext(ctx).Debug("Node registered.", "id", n.ID(), "type", n.TypeName)
	return nil
}

// AddConsumer links consumer to producer for cascading removal.
func (s *Session) AddConsumer(ctx context.Context, producer, consumer *node.Node) error {
	if producer == nil || consumer == nil {
		return fmt.Errorf("producer and consumer are required")
	}
	return s.store.AddDependency(ctx, producer.Address().Owner(), consumer.Address())
}

// Unregister removes a node and every node consuming it.
func (s *Session) Unregister(ctx context.Context, n *node.Node) error {
	if n == nil {
		return nil
	}
	id := n.Address()
	if _, ok := s.store.GetNode(ctx, id); !ok {
		return nil
	}

	consumers, err := s.store.ConsumersOf(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.RemoveNode(ctx, id); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Node unregistered.", "id", id.String(), "consumers", len(consumers))

	for _, cid := range consumers {
		consumer, ok := s.store.GetNode(ctx, cid)
		if !ok {
			continue
		}
		if err := s.Unregister(ctx, consumer); err != nil {
			return err
		}
	}
	return nil
}

// Close uses the provided context for logging during cleanup.
func (s *Session) Close(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("localsession.Session.Close called", "id", s.id)
	return nil
}
