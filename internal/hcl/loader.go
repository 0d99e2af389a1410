package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/extractgrid/internal/config"
	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	"github.com/specialistvlad/extractgrid/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths and merges their blocks into
// one model. Singleton blocks (extracts, run, coordination, tracing) may
// appear at most once across all files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	model := &config.Model{}
	parser := hclparse.NewParser()

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if err := l.merge(ctx, model, &root); err != nil {
			return nil, nil, fmt.Errorf("in HCL file %s: %w", file, err)
		}
	}

	logger.Debug("HCL loading complete.", "sources", len(model.Sources), "triggers", len(model.Triggers), "generators", len(model.Generators))
	return model, NewConverter(), nil
}

// merge translates the blocks of one file into the model.
func (l *Loader) merge(ctx context.Context, model *config.Model, root *fileRoot) error {
	if err := mergeSingleton(&model.Extracts, root.Extracts, "extracts", translateExtracts); err != nil {
		return err
	}
	if err := mergeSingleton(&model.Run, root.Run, "run", translateRun); err != nil {
		return err
	}
	if err := mergeSingleton(&model.Coordination, root.Coordination, "coordination", translateCoordination); err != nil {
		return err
	}
	if err := mergeSingleton(&model.Tracing, root.Tracing, "tracing", translateTracing); err != nil {
		return err
	}

	for _, s := range root.Sources {
		model.Sources = append(model.Sources, translateSource(s))
	}
	for _, t := range root.Triggers {
		model.Triggers = append(model.Triggers, l.translateTrigger(ctx, t))
	}
	for _, g := range root.Generators {
		model.Generators = append(model.Generators, l.translateGenerator(ctx, g))
	}
	return nil
}

// mergeSingleton stores the only block of a kind, rejecting repeats.
func mergeSingleton[B any, M any](dst **M, blocks []*B, kind string, translate func(*B) *M) error {
	if len(blocks) == 0 {
		return nil
	}
	if len(blocks) > 1 || *dst != nil {
		return fmt.Errorf("the %q block may only be defined once", kind)
	}
	*dst = translate(blocks[0])
	return nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		files, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		for _, f := range files {
			if _, wasSeen := seen[f]; !wasSeen {
				allFiles = append(allFiles, f)
				seen[f] = struct{}{}
			}
		}
	}
	return allFiles, nil
}

// extractBodyAttributes converts an arguments block into a map of expressions.
func extractBodyAttributes(block *ArgumentsBlock) map[string]hcl.Expression {
	if block == nil || block.Body == nil {
		return nil
	}
	attrs, _ := block.Body.JustAttributes()
	if attrs == nil {
		return nil
	}
	exprMap := make(map[string]hcl.Expression, len(attrs))
	for name, attr := range attrs {
		exprMap[name] = attr.Expr
	}
	return exprMap
}
