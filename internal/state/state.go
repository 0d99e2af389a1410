// Package state captures the extract configuration of a session as a YAML
// manifest, so that a pipeline set up interactively can be replayed in
// batch runs.
package state

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	"github.com/specialistvlad/extractgrid/internal/extract"
	"github.com/specialistvlad/extractgrid/internal/node"
	"github.com/specialistvlad/extractgrid/internal/session"
	"gopkg.in/yaml.v3"
)

// Version is the manifest format version written by Save.
const Version = 1

// Manifest is the saved extract configuration of a session.
type Manifest struct {
	Version    int         `yaml:"version"`
	Options    Options     `yaml:"options"`
	Sources    []Source    `yaml:"sources,omitempty"`
	Triggers   []Trigger   `yaml:"triggers,omitempty"`
	Generators []Generator `yaml:"generators"`
}

// Options are the process-wide extract settings.
type Options struct {
	DataExtractsOutputDirectory  string `yaml:"data_extracts_output_directory"`
	ImageExtractsOutputDirectory string `yaml:"image_extracts_output_directory"`
}

// Source is a registered source node.
type Source struct {
	Name     string `yaml:"name"`
	DataType string `yaml:"data_type,omitempty"`
}

// Trigger is a registered trigger node.
type Trigger struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Generator is a registered extract generator.
type Generator struct {
	Name       string `yaml:"name"`
	WriterType string `yaml:"writer_type"`
	// Producer is the source the generator follows; Input is what its writer
	// extracts, which differs when a port is extracted.
	Producer string `yaml:"producer"`
	Input    string `yaml:"input"`
	Trigger  string `yaml:"trigger,omitempty"`
	Enabled  bool   `yaml:"enabled"`
}

// Capture builds the manifest of s.
func Capture(ctx context.Context, s session.Session, opts Options) *Manifest {
	m := &Manifest{Version: Version, Options: opts, Generators: []Generator{}}

	for _, n := range s.Group(ctx, extract.SourcesGroup) {
		m.Sources = append(m.Sources, Source{Name: n.Name(), DataType: n.String(extract.AttrDataType)})
	}
	for _, n := range s.Group(ctx, extract.TriggersGroup) {
		m.Triggers = append(m.Triggers, Trigger{Name: n.Name(), Type: n.TypeName})
	}
	for _, g := range s.Group(ctx, extract.GeneratorsGroup) {
		entry := Generator{
			Name:    g.Name(),
			Enabled: g.Bool(extract.AttrEnabled),
		}
		if w := g.Ref(extract.AttrWriter); w != nil {
			entry.WriterType = w.TypeName
			if writer, ok := node.As[extract.Writer](w); ok && writer.Input() != nil {
				entry.Input = writer.Input().ID()
			}
		}
		if p := g.Ref(extract.AttrProducer); p != nil {
			entry.Producer = p.ID()
		}
		if t := g.Ref(extract.AttrTrigger); t != nil {
			entry.Trigger = t.Name()
		}
		m.Generators = append(m.Generators, entry)
	}

	ctxlog.FromContext(ctx).Debug("Captured extract state.", "sources", len(m.Sources), "generators", len(m.Generators))
	return m
}

// Save writes the manifest to path, replacing any existing file.
func (m *Manifest) Save(ctx context.Context, path string) error {
	logger := ctxlog.FromContext(ctx)

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		logger.Info("Removing existing output file.", "path", path)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing manifest %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	logger.Debug("Manifest saved.", "path", path, "bytes", len(data))
	return nil
}

// Load reads a manifest written by Save.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.Version != Version {
		return nil, fmt.Errorf("unsupported manifest version %d (supported: %d)", m.Version, Version)
	}
	return &m, nil
}
