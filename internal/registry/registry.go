package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/zclconf/go-cty/cty"
)

// Module is the interface that all modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// RegisteredNode holds the compiled Go parts of a node type.
type RegisteredNode struct {
	// Label is the display label; unique registration names derive from it.
	Label string
	// NewInput returns a pointer to the struct that configuration arguments
	// are decoded into. It is nil for types without options.
	NewInput func() any
	// New builds the capability implementation from the decoded input, which
	// is nil when NewInput is nil.
	New func(input any) (any, error)
	// Defaults are the attribute values applied by pre-initialization.
	Defaults map[string]cty.Value
}

// Registry holds all registered node types for a single application instance.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]map[string]*RegisteredNode
	order map[string][]string
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		defs:  make(map[string]map[string]*RegisteredNode),
		order: make(map[string][]string),
	}
}

// RegisterNode registers a node type under group.
func (r *Registry) RegisterNode(group, typeName string, def *RegisteredNode) {
	if def == nil || def.New == nil {
		panic(fmt.Sprintf("node type '%s.%s' registered without a constructor", group, typeName))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[group][typeName]; exists {
		panic(fmt.Sprintf("node type '%s.%s' already registered", group, typeName))
	}
	if r.defs[group] == nil {
		r.defs[group] = make(map[string]*RegisteredNode)
	}
	slog.Debug("Registering node type.", "group", group, "type", typeName, "label", def.Label)
	r.defs[group][typeName] = def
	r.order[group] = append(r.order[group], typeName)
}

// Lookup returns the definition of a node type.
func (r *Registry) Lookup(group, typeName string) (*RegisteredNode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[group][typeName]
	return def, ok
}

// Types returns the type names registered under group, in registration order.
func (r *Registry) Types(group string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order[group]...)
}
