package inmemorytopology

import (
	"context"
	"testing"

	"github.com/specialistvlad/extractgrid/internal/node"
	"github.com/specialistvlad/extractgrid/internal/nodeid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNode(group, name string) *node.Node {
	n := node.New("Test", "Test", nil)
	n.SetAddress(nodeid.New(group, name))
	return n
}

func TestAddAndGetNode(t *testing.T) {
	s := New()
	ctx := context.Background()
	n := newNode("sources", "wavelet")

	require.NoError(t, s.AddNode(ctx, n))
	require.NoError(t, s.AddNode(ctx, n), "re-adding the same node is idempotent")

	got, ok := s.GetNode(ctx, nodeid.New("sources", "wavelet"))
	require.True(t, ok)
	assert.Same(t, n, got)

	err := s.AddNode(ctx, newNode("sources", "wavelet"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	require.Error(t, s.AddNode(ctx, node.New("Test", "Test", nil)), "unaddressed nodes are rejected")
}

func TestNodesInGroup_RegistrationOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	names := []string{"zeta", "alpha", "mid"}
	for _, name := range names {
		require.NoError(t, s.AddNode(ctx, newNode("extract_generators", name)))
	}
	require.NoError(t, s.AddNode(ctx, newNode("sources", "other")))

	got := s.NodesInGroup(ctx, "extract_generators")
	require.Len(t, got, 3)
	for i, n := range got {
		assert.Equal(t, names[i], n.Name())
	}
	assert.Empty(t, s.NodesInGroup(ctx, "unknown"))
}

func TestDependenciesAndRemoval(t *testing.T) {
	s := New()
	ctx := context.Background()
	src := newNode("sources", "wavelet")
	gen := newNode("extract_generators", "Print1")
	require.NoError(t, s.AddNode(ctx, src))
	require.NoError(t, s.AddNode(ctx, gen))

	require.NoError(t, s.AddDependency(ctx, src.Address(), gen.Address()))
	require.NoError(t, s.AddDependency(ctx, src.Address(), gen.Address()))

	consumers, err := s.ConsumersOf(ctx, src.Address())
	require.NoError(t, err)
	assert.Equal(t, []nodeid.Address{gen.Address()}, consumers)

	require.Error(t, s.AddDependency(ctx, nodeid.New("sources", "missing"), gen.Address()))

	require.NoError(t, s.RemoveNode(ctx, gen.Address()))
	consumers, err = s.ConsumersOf(ctx, src.Address())
	require.NoError(t, err)
	assert.Empty(t, consumers)
	assert.Empty(t, s.NodesInGroup(ctx, "extract_generators"))

	require.NoError(t, s.RemoveNode(ctx, gen.Address()), "removing twice is a no-op")

	_, err = s.ConsumersOf(ctx, gen.Address())
	require.Error(t, err)
}
