package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given paths, translates it into the
	// format-agnostic model, and returns a matching Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
}

// Converter is the interface for a format-specific data binding and type
// conversion implementation. It acts as the bridge between the raw configuration
// and the Go types used by modules.
type Converter interface {
	// DecodeArguments decodes raw arguments into the `cty`-tagged fields of
	// inputStruct. Fields without an argument keep their current value;
	// arguments without a field are an error.
	DecodeArguments(
		ctx context.Context,
		inputStruct any,
		args map[string]hcl.Expression,
		evalCtx *hcl.EvalContext,
	) error

	// ToCtyValue converts a native Go value into its equivalent cty.Value.
	ToCtyValue(v any) (cty.Value, error)
}
