package node

import (
	"testing"

	"github.com/specialistvlad/extractgrid/internal/nodeid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type greeter interface{ Greet() string }

type hello struct{}

func (hello) Greet() string { return "hello" }

func TestAs(t *testing.T) {
	n := New("Greeter", "Greeter", hello{})

	g, ok := As[greeter](n)
	require.True(t, ok)
	assert.Equal(t, "hello", g.Greet())

	_, ok = As[error](n)
	assert.False(t, ok)

	_, ok = As[greeter](New("Plain", "Plain", nil))
	assert.False(t, ok)

	_, ok = As[greeter](nil)
	assert.False(t, ok)
}

func TestBool(t *testing.T) {
	n := New("T", "T", nil)
	assert.False(t, n.Bool("Enabled"), "missing attribute is not set")

	n.SetAttr("Enabled", cty.True)
	assert.True(t, n.Bool("Enabled"))

	n.SetAttr("Enabled", cty.False)
	assert.False(t, n.Bool("Enabled"))

	n.SetAttr("Enabled", cty.NumberIntVal(1))
	assert.True(t, n.Bool("Enabled"))

	n.SetAttr("Enabled", cty.NumberIntVal(2))
	assert.False(t, n.Bool("Enabled"))

	n.SetAttr("Enabled", cty.NullVal(cty.Bool))
	assert.False(t, n.Bool("Enabled"))

	n.SetAttr("Enabled", cty.StringVal("true"))
	assert.False(t, n.Bool("Enabled"))
}

func TestPort(t *testing.T) {
	src := New("Source", "Source", nil)
	src.SetAttr("data_type", cty.StringVal("image"))
	src.SetAddress(nodeid.New("sources", "wavelet"))
	owner := &struct{}{}
	src.SetOwner(owner)

	port := NewPort(src, 1)
	assert.True(t, port.IsPort())
	assert.Same(t, src, port.Source())
	assert.Equal(t, "sources.wavelet[1]", port.ID())
	assert.Equal(t, "image", port.String("data_type"), "ports inherit source attributes")
	assert.Same(t, owner, port.Owner())
	assert.False(t, src.IsPort())
}

func TestSameOutput(t *testing.T) {
	src := New("Source", "Source", nil)
	other := New("Source", "Source", nil)

	assert.True(t, SameOutput(src, src))
	assert.True(t, SameOutput(NewPort(src, 1), NewPort(src, 1)), "two lookups of one port")
	assert.False(t, SameOutput(NewPort(src, 1), NewPort(src, 0)))
	assert.False(t, SameOutput(NewPort(src, 1), NewPort(other, 1)))
	assert.False(t, SameOutput(src, NewPort(src, 0)))
	assert.False(t, SameOutput(src, other))
	assert.False(t, SameOutput(nil, src))
	assert.False(t, SameOutput(nil, nil))
}

func TestRefsAndDomain(t *testing.T) {
	g := New("Extractor", "Extractor", nil)
	w := New("Print", "Print", nil)

	g.SetRef("Writer", w)
	assert.Same(t, w, g.Ref("Writer"))

	g.SetRef("Writer", nil)
	assert.Nil(t, g.Ref("Writer"))
	assert.Nil(t, (*Node)(nil).Ref("Writer"))

	g.AddToDomain("Writer", w)
	g.AddToDomain("Writer", w)
	assert.Equal(t, []*Node{w}, g.Domain("Writer"))
}

func TestCommit(t *testing.T) {
	n := New("T", "T", nil)
	n.SetAttr("b", cty.True)
	n.SetRef("a", New("U", "U", nil))

	assert.Equal(t, []string{"a", "b"}, n.Dirty())
	assert.Equal(t, []string{"a", "b"}, n.Commit())
	assert.Empty(t, n.Dirty())
}
