package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ValidateRegistry checks that every input struct can be decoded from
// configuration: NewInput must return a pointer to a struct, and every
// exported field needs a `cty` tag and a type go-cty can represent.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for group, types := range r.order {
		for _, typeName := range types {
			def := r.defs[group][typeName]
			if def.Label == "" {
				errs = append(errs, fmt.Sprintf("node type '%s.%s': missing label", group, typeName))
			}
			if def.NewInput == nil {
				continue
			}

			input := def.NewInput()
			inputType := reflect.TypeOf(input)
			if inputType == nil || inputType.Kind() != reflect.Pointer || inputType.Elem().Kind() != reflect.Struct {
				errs = append(errs, fmt.Sprintf("node type '%s.%s': NewInput must return a pointer to a struct, got %v", group, typeName, inputType))
				continue
			}

			structType := inputType.Elem()
			for i := 0; i < structType.NumField(); i++ {
				field := structType.Field(i)
				if !field.IsExported() {
					continue
				}
				tagName := strings.Split(field.Tag.Get("cty"), ",")[0]
				if tagName == "" || tagName == "-" {
					errs = append(errs, fmt.Sprintf("node type '%s.%s': field '%s' has no cty tag", group, typeName, field.Name))
					continue
				}
				if _, err := gocty.ImpliedType(reflect.Zero(field.Type).Interface()); err != nil {
					errs = append(errs, fmt.Sprintf("node type '%s.%s', input '%s': could not imply cty type from Go field type %s: %v", group, typeName, tagName, field.Type, err))
				}
			}
			logger.Debug("Validated node type input.", "group", group, "type", typeName)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
