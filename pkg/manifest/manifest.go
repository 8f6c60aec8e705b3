// Package manifest loads the YAML list of extensions and layers a driver
// wants generated, and turns it into extension descriptors.
package manifest

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nguyenanhgiau/external-mesa3d/pkg/extension"
	"github.com/nguyenanhgiau/external-mesa3d/pkg/version"
)

// RawManifest is the manifest document as written.
type RawManifest struct {
	Version  string            `yaml:"version" jsonschema:"description=Manifest format version"`
	MaxAPI   string            `yaml:"max_api,omitempty" jsonschema:"pattern=^[0-9]+\\.[0-9]+(\\.[0-9]+)?$,description=Highest core API version the driver exposes"`
	Device   []RawExtensionDef `yaml:"device,omitempty"`
	Instance []RawExtensionDef `yaml:"instance,omitempty"`
	Layers   []RawExtensionDef `yaml:"layers,omitempty"`
}

// RawExtensionDef describes one extension or layer.
type RawExtensionDef struct {
	Name        string   `yaml:"name" jsonschema:"minLength=1"`
	Alias       string   `yaml:"alias,omitempty"`
	Required    bool     `yaml:"required,omitempty"`
	Nonstandard bool     `yaml:"nonstandard,omitempty"`
	Properties  bool     `yaml:"properties,omitempty"`
	Features    bool     `yaml:"features,omitempty"`
	Conditions  []string `yaml:"conditions,omitempty"`
	Guard       bool     `yaml:"guard,omitempty"`
	CoreSince   string   `yaml:"core_since,omitempty" jsonschema:"pattern=^[0-9]+\\.[0-9]+(\\.[0-9]+)?$"`
	Functions   []string `yaml:"functions,omitempty"`
}

// Set is a built manifest.
type Set struct {
	// MaxAPI is nil when the manifest does not cap the core version.
	MaxAPI   *version.Version
	Device   []*extension.Extension
	Instance []*extension.Extension
	Layers   []*extension.Layer
}

// All returns device extensions, instance extensions and layers in that order.
func (s *Set) All() []*extension.Extension {
	out := make([]*extension.Extension, 0, len(s.Device)+len(s.Instance)+len(s.Layers))
	out = append(out, s.Device...)
	out = append(out, s.Instance...)
	return append(out, s.Layers...)
}

// Parse parses a manifest from YAML bytes.
func Parse(data []byte) (*RawManifest, error) {
	var m RawManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	for _, section := range []struct {
		name string
		defs []RawExtensionDef
	}{{"device", m.Device}, {"instance", m.Instance}, {"layers", m.Layers}} {
		for i, def := range section.defs {
			if def.Name == "" {
				return nil, fmt.Errorf("manifest %s[%d] missing name", section.name, i)
			}
		}
	}
	return &m, nil
}

// Load loads and parses a manifest from a file.
func Load(path string) (*RawManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Build constructs the descriptors. Every invalid definition is reported,
// not just the first.
func (m *RawManifest) Build() (*Set, error) {
	var errs []error
	set := &Set{}

	if m.MaxAPI != "" {
		v, err := version.Parse(m.MaxAPI)
		if err != nil {
			errs = append(errs, fmt.Errorf("max_api: %w", err))
		} else {
			set.MaxAPI = &v
		}
	}

	build := func(defs []RawExtensionDef) []*extension.Extension {
		out := make([]*extension.Extension, 0, len(defs))
		for _, def := range defs {
			ext, err := def.Build()
			if err != nil {
				errs = append(errs, err)
				continue
			}
			out = append(out, ext)
		}
		return out
	}
	set.Device = build(m.Device)
	set.Instance = build(m.Instance)
	set.Layers = build(m.Layers)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return set, nil
}

// Build constructs the descriptor for a single definition.
func (d RawExtensionDef) Build() (*extension.Extension, error) {
	cfg := extension.Config{
		Alias:       d.Alias,
		Required:    d.Required,
		Nonstandard: d.Nonstandard,
		Properties:  d.Properties,
		Features:    d.Features,
		Conditions:  d.Conditions,
		Guard:       d.Guard,
		Functions:   d.Functions,
	}
	if d.CoreSince != "" {
		v, err := version.Parse(d.CoreSince)
		if err != nil {
			return nil, fmt.Errorf("extension %s: core_since: %w", d.Name, err)
		}
		cfg.CoreSince = &v
	}
	return extension.New(d.Name, cfg)
}
