package source

import (
	"context"
	"testing"

	"github.com/specialistvlad/extractgrid/internal/extract"
	"github.com/specialistvlad/extractgrid/internal/inmemorytopology"
	"github.com/specialistvlad/extractgrid/internal/localsession"
	"github.com/specialistvlad/extractgrid/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_InSession(t *testing.T) {
	ctx := context.Background()
	r := registry.New()
	(&Module{}).Register(r)
	require.NoError(t, r.ValidateRegistry(ctx))
	s := localsession.New(r, inmemorytopology.New())

	n, err := s.NewNode(ctx, extract.SourcesGroup, TypeName, &Input{DataType: "table", Ports: 2})
	require.NoError(t, err)
	require.NoError(t, s.Register(ctx, extract.SourcesGroup, "temperature", n))
	require.NoError(t, s.PostInitialize(ctx, n))
	assert.Equal(t, "table", n.String(extract.AttrDataType))

	src, ok := n.Impl().(*Source)
	require.True(t, ok)
	assert.Equal(t, 2, src.Ports())

	port, err := src.Port(n, 1)
	require.NoError(t, err)
	assert.Equal(t, "sources.temperature[1]", port.ID())
	assert.Same(t, n, port.Source())

	again, err := src.Port(n, 1)
	require.NoError(t, err)
	assert.Same(t, port, again, "a port keeps its identity across lookups")
	other, err := src.Port(n, 0)
	require.NoError(t, err)
	assert.NotSame(t, port, other)

	_, err = src.Port(n, 2)
	assert.ErrorContains(t, err, `source "temperature" has no port 2`)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(&Input{Ports: -1})
	assert.ErrorContains(t, err, "ports must not be negative")

	src, err := New(&Input{})
	require.NoError(t, err)
	assert.Zero(t, src.Ports())
}
