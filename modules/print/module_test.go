package print

import (
	"bytes"
	"context"
	"testing"

	"github.com/specialistvlad/extractgrid/internal/extract"
	"github.com/specialistvlad/extractgrid/internal/node"
	"github.com/specialistvlad/extractgrid/internal/nodeid"
	"github.com/specialistvlad/extractgrid/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type fakeContext struct {
	dirOK   bool
	created int
}

func (f *fakeContext) Time() float64                        { return 2.5 }
func (f *fakeContext) TimeStep() int                        { return 5 }
func (f *fakeContext) DataExtractsOutputDirectory() string  { return "out/data" }
func (f *fakeContext) ImageExtractsOutputDirectory() string { return "out/images" }
func (f *fakeContext) CreateDataExtractsOutputDirectory(context.Context) bool {
	f.created++
	return f.dirOK
}
func (f *fakeContext) CreateImageExtractsOutputDirectory(context.Context) bool { return f.dirOK }

func source(name, dataType string) *node.Node {
	n := node.New("Source", "Source", nil)
	n.SetAddress(nodeid.New(extract.SourcesGroup, name))
	if dataType != "" {
		n.SetAttr(extract.AttrDataType, cty.StringVal(dataType))
	}
	return n
}

func TestWriter_Write(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out, &Input{Prefix: "csv"})
	w.SetInput(source("temperature", "table"))
	ec := &fakeContext{dirOK: true}

	assert.True(t, w.Write(context.Background(), ec))
	assert.Equal(t, "csv step=5 time=2.5 producer=sources.temperature dir=out/data\n", out.String())
	assert.Equal(t, 1, ec.created)
}

func TestWriter_WriteFailures(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out, nil)

	assert.False(t, w.Write(context.Background(), &fakeContext{dirOK: true}), "no input bound")

	w.SetInput(source("temperature", ""))
	assert.False(t, w.Write(context.Background(), &fakeContext{dirOK: false}), "directory unavailable")
	assert.Empty(t, out.String())
}

func TestWriter_DefaultPrefix(t *testing.T) {
	var out bytes.Buffer
	w := NewWriter(&out, nil)
	w.SetInput(source("p", ""))

	require.True(t, w.Write(context.Background(), &fakeContext{dirOK: true}))
	assert.Contains(t, out.String(), "extract step=5")
}

func TestWriter_CanExtract(t *testing.T) {
	w := NewWriter(nil, nil)
	assert.True(t, w.CanExtract(source("a", "table")))
	assert.True(t, w.CanExtract(source("b", "")))
	assert.False(t, w.CanExtract(nil))

	require.NoError(t, w.Configure(&Input{DataTypes: []string{"image"}}))
	assert.False(t, w.CanExtract(source("a", "table")))
	assert.True(t, w.CanExtract(source("c", "image")))

	assert.Error(t, w.Configure(Input{}))
}

func TestModule_Register(t *testing.T) {
	var out bytes.Buffer
	r := registry.New()
	(&Module{Out: &out}).Register(r)
	require.NoError(t, r.ValidateRegistry(context.Background()))

	def, ok := r.Lookup(extract.WritersGroup, TypeName)
	require.True(t, ok)
	impl, err := def.New(def.NewInput())
	require.NoError(t, err)

	w, ok := impl.(extract.Writer)
	require.True(t, ok)
	_, ok = impl.(extract.Configurable)
	assert.True(t, ok)

	w.SetInput(source("p", ""))
	assert.True(t, w.Write(context.Background(), &fakeContext{dirOK: true}))
	assert.NotEmpty(t, out.String())
}
