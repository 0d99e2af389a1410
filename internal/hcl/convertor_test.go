package hcl

import (
	"context"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type sampleInput struct {
	Frequency int      `cty:"frequency"`
	Prefix    string   `cty:"prefix"`
	Enabled   bool     `cty:"enabled"`
	Tags      []string `cty:"tags"`
	internal  int
}

func parseArgs(t *testing.T, src string) map[string]hcl.Expression {
	t.Helper()
	file, diags := hclsyntax.ParseConfig([]byte(src), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	attrs, diags := file.Body.JustAttributes()
	require.False(t, diags.HasErrors(), diags.Error())
	args := make(map[string]hcl.Expression, len(attrs))
	for name, attr := range attrs {
		args[name] = attr.Expr
	}
	return args
}

func TestDecodeArguments(t *testing.T) {
	c := NewConverter()
	input := &sampleInput{Frequency: 1, Prefix: "default"}

	args := parseArgs(t, `
frequency = "3"
enabled   = true
tags      = ["a", "b"]
`)
	require.NoError(t, c.DecodeArguments(context.Background(), input, args, nil))

	assert.Equal(t, 3, input.Frequency, "strings convert to numbers")
	assert.Equal(t, "default", input.Prefix, "missing arguments keep their value")
	assert.True(t, input.Enabled)
	assert.Equal(t, []string{"a", "b"}, input.Tags)
	assert.Zero(t, input.internal)
}

func TestDecodeArguments_Errors(t *testing.T) {
	c := NewConverter()

	err := c.DecodeArguments(context.Background(), &sampleInput{}, parseArgs(t, `bogus = 1
other = 2`), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported argument(s): bogus, other")

	err = c.DecodeArguments(context.Background(), &sampleInput{}, parseArgs(t, `frequency = "often"`), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode argument 'frequency'")

	err = c.DecodeArguments(context.Background(), &sampleInput{}, parseArgs(t, `prefix = var.missing`), nil)
	require.Error(t, err)

	err = c.DecodeArguments(context.Background(), sampleInput{}, nil, nil)
	require.Error(t, err)
}

func TestDecodeArguments_EvalContext(t *testing.T) {
	c := NewConverter()
	input := &sampleInput{}
	evalCtx := &hcl.EvalContext{Variables: map[string]cty.Value{
		"run": cty.ObjectVal(map[string]cty.Value{"name": cty.StringVal("nightly")}),
	}}

	require.NoError(t, c.DecodeArguments(context.Background(), input, parseArgs(t, `prefix = "${run.name}-csv"`), evalCtx))
	assert.Equal(t, "nightly-csv", input.Prefix)
}

func TestToCtyValue(t *testing.T) {
	c := NewConverter()

	v, err := c.ToCtyValue(nil)
	require.NoError(t, err)
	assert.Equal(t, cty.NilVal, v)

	v, err = c.ToCtyValue(true)
	require.NoError(t, err)
	assert.True(t, v.True())

	_, err = c.ToCtyValue(make(chan int))
	assert.Error(t, err)
}
