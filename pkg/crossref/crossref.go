// Package crossref checks hand-written extension descriptors against the
// registry and settles the metadata the generator emits for each of them:
// capability struct names, the core version the extension was promoted to and
// the functions to load.
package crossref

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/nguyenanhgiau/external-mesa3d/pkg/extension"
	"github.com/nguyenanhgiau/external-mesa3d/pkg/registry"
	"github.com/nguyenanhgiau/external-mesa3d/pkg/version"
)

// Struct kinds as they appear in type names and sTypes.
const (
	KindFeatures   = "Features"
	KindProperties = "Properties"
)

var (
	ErrNotRegistered  = errors.New("not found in the registry")
	ErrStructMismatch = errors.New("capability struct is named differently in the registry")
	ErrMissingStruct  = errors.New("registry has no capability struct")
)

// Lookup is the part of *registry.Registry the resolver needs.
type Lookup interface {
	Entry(name string) (*registry.Entry, bool)
}

// Compile-time interface satisfaction check.
var _ Lookup = (*registry.Registry)(nil)

// Problem is a disagreement between a descriptor and the registry.
type Problem struct {
	Extension string
	Detail    string
	Err       error
}

func (p *Problem) Error() string {
	if p.Detail == "" {
		return fmt.Sprintf("%s: %v", p.Extension, p.Err)
	}
	return fmt.Sprintf("%s: %v (%s)", p.Extension, p.Err, p.Detail)
}

func (p *Problem) Unwrap() error {
	return p.Err
}

// Descriptor is an extension with everything the templates need settled.
type Descriptor struct {
	Ext *extension.Extension

	// Entry is nil for nonstandard extensions missing from the registry.
	Entry *registry.Entry

	// Core is the version the extension is part of core since, if any.
	Core *version.Version

	FeaturesStruct   string
	PropertiesStruct string

	// Functions are the entry points to load: the descriptor's own list
	// when it has one, otherwise the registry commands.
	Functions []string
}

// Promoted reports whether the extension has a core version.
func (d *Descriptor) Promoted() bool {
	return d.Core != nil
}

// FeaturesSType returns the sType of the extension's features struct.
func (d *Descriptor) FeaturesSType() string {
	return d.Ext.SType("FEATURES")
}

// PropertiesSType returns the sType of the extension's properties struct.
func (d *Descriptor) PropertiesSType() string {
	return d.Ext.SType("PROPERTIES")
}

// Resolver cross-references descriptors against a registry.
type Resolver struct {
	Lookup Lookup

	// MaxAPI caps which promotions are honored. Nil honors all of them.
	MaxAPI *version.Version

	// Logger receives per-extension debug output. Nil discards it.
	Logger *slog.Logger
}

// Resolve returns one descriptor per extension, in input order. Problems are
// joined into the returned error; descriptors are returned regardless so
// callers can decide whether problems are fatal.
func (r *Resolver) Resolve(exts []*extension.Extension) ([]*Descriptor, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var problems []error
	out := make([]*Descriptor, 0, len(exts))
	for _, ext := range exts {
		d, probs := r.resolve(ext)
		problems = append(problems, probs...)
		out = append(out, d)

		logger.LogAttrs(context.Background(), slog.LevelDebug, "resolved extension",
			slog.String("name", ext.Name()),
			slog.Bool("registered", d.Entry != nil),
			slog.Bool("promoted", d.Promoted()),
			slog.Int("functions", len(d.Functions)),
		)
	}
	return out, errors.Join(problems...)
}

func (r *Resolver) resolve(ext *extension.Extension) (*Descriptor, []error) {
	d := &Descriptor{Ext: ext}
	var problems []error

	if core, ok := ext.CoreSince(); ok {
		d.Core = &core
	}
	if funcs, ok := ext.InstanceFuncs(); ok {
		d.Functions = funcs
	}

	entry, ok := r.Lookup.Entry(ext.Name())
	if !ok {
		if !ext.Nonstandard() {
			problems = append(problems, &Problem{Extension: ext.Name(), Err: ErrNotRegistered})
		}
		if ext.HasFeatures() {
			d.FeaturesStruct = ext.PhysicalDeviceStruct(KindFeatures)
		}
		if ext.HasProperties() {
			d.PropertiesStruct = ext.PhysicalDeviceStruct(KindProperties)
		}
		return d, problems
	}
	d.Entry = entry

	if ext.HasFeatures() {
		name, prob := capabilityStruct(ext, KindFeatures, entry.FeaturesStruct)
		d.FeaturesStruct = name
		if prob != nil {
			problems = append(problems, prob)
		}
	}
	if ext.HasProperties() {
		name, prob := capabilityStruct(ext, KindProperties, entry.PropertiesStruct)
		d.PropertiesStruct = name
		if prob != nil {
			problems = append(problems, prob)
		}
	}

	if d.Core == nil && entry.PromotedIn != nil {
		core := version.FromAPI(entry.PromotedIn.Major, entry.PromotedIn.Minor)
		if r.MaxAPI == nil || r.MaxAPI.AtLeast(core) {
			d.Core = &core
		}
	}

	if d.Functions == nil {
		d.Functions = slices.Clone(entry.Commands)
	}
	return d, problems
}

// capabilityStruct picks the struct name for kind, preferring the registry's
// spelling and reporting when the derived name disagrees with it.
func capabilityStruct(ext *extension.Extension, kind string, registered *string) (string, error) {
	derived := ext.PhysicalDeviceStruct(kind)
	if registered == nil {
		return derived, &Problem{
			Extension: ext.Name(),
			Detail:    kind,
			Err:       ErrMissingStruct,
		}
	}
	if *registered != derived {
		return *registered, &Problem{
			Extension: ext.Name(),
			Detail:    fmt.Sprintf("derived %s, registry has %s", derived, *registered),
			Err:       ErrStructMismatch,
		}
	}
	return derived, nil
}
