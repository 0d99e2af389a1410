package hcl

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Converter is the HCL-specific implementation of the config.Converter interface.
type Converter struct{}

// NewConverter creates a new HCL converter.
func NewConverter() *Converter {
	return &Converter{}
}

// DecodeArguments evaluates HCL expressions and populates the `cty`-tagged
// fields of the provided Go struct using reflection.
func (c *Converter) DecodeArguments(
	ctx context.Context,
	inputStruct any,
	args map[string]hcl.Expression,
	evalCtx *hcl.EvalContext,
) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting HCL argument decoding.", "arguments", len(args))

	structVal := reflect.ValueOf(inputStruct)
	if structVal.Kind() != reflect.Ptr || structVal.IsNil() || structVal.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("inputStruct must be a non-nil pointer to a struct, got %T", inputStruct)
	}
	structVal = structVal.Elem()
	structType := structVal.Type()

	consumed := make(map[string]struct{}, len(args))
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldVal := structVal.Field(i)

		if !field.IsExported() || !fieldVal.CanSet() {
			continue
		}
		name := strings.Split(field.Tag.Get("cty"), ",")[0]
		if name == "" || name == "-" {
			continue
		}

		argExpr, provided := args[name]
		if !provided {
			continue
		}
		consumed[name] = struct{}{}

		val, diags := argExpr.Value(evalCtx)
		if diags.HasErrors() {
			return diags
		}
		if err := c.decode(ctx, val, fieldVal.Addr().Interface()); err != nil {
			return fmt.Errorf("failed to decode argument '%s': %w", name, err)
		}
	}

	var unknown []string
	for name := range args {
		if _, ok := consumed[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unsupported argument(s): %s", strings.Join(unknown, ", "))
	}

	logger.Debug("Finished HCL argument decoding successfully.")
	return nil
}

// decode handles the conversion and decoding of a cty.Value into a Go pointer.
func (c *Converter) decode(ctx context.Context, val cty.Value, goVal any) error {
	logger := ctxlog.FromContext(ctx)
	valPtr := reflect.ValueOf(goVal)
	if valPtr.Kind() != reflect.Ptr {
		return fmt.Errorf("target for decoding must be a pointer, got %T", goVal)
	}

	impliedType, err := gocty.ImpliedType(valPtr.Elem().Interface())
	if err != nil {
		logger.Debug("Could not imply cty.Type from Go type, attempting direct decoding.", "go_type", valPtr.Elem().Type().String(), "error", err)
		return gocty.FromCtyValue(val, goVal)
	}

	convertedVal, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to required type %s: %w", val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}

	if !val.Type().Equals(convertedVal.Type()) {
		logger.Debug("Implicitly converted value type.",
			"from", val.Type().FriendlyName(),
			"to", convertedVal.Type().FriendlyName(),
		)
	}

	return gocty.FromCtyValue(convertedVal, goVal)
}

// ToCtyValue converts a native Go value into its corresponding cty.Value.
func (c *Converter) ToCtyValue(v any) (cty.Value, error) {
	if v == nil {
		return cty.NilVal, nil
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}
