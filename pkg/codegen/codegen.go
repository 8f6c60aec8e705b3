// Package codegen renders resolved extension descriptors through
// text/template into driver source.
package codegen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/nguyenanhgiau/external-mesa3d/pkg/crossref"
	"github.com/nguyenanhgiau/external-mesa3d/pkg/version"
)

// Data is what templates are executed with.
type Data struct {
	// Prefix namespaces generated C symbols, e.g. "zink".
	Prefix string

	// Package is the Go package name for the "go" template.
	Package string

	MaxAPI   *version.Version
	Device   []*crossref.Descriptor
	Instance []*crossref.Descriptor
	Layers   []*crossref.Descriptor
}

// All returns device, instance and layer descriptors in that order.
func (d *Data) All() []*crossref.Descriptor {
	out := make([]*crossref.Descriptor, 0, len(d.Device)+len(d.Instance)+len(d.Layers))
	out = append(out, d.Device...)
	out = append(out, d.Instance...)
	return append(out, d.Layers...)
}

// Generator holds the built-in templates plus any loaded from files.
type Generator struct {
	tmpl *template.Template
}

// New returns a Generator with the built-in templates.
func New() *Generator {
	return &Generator{tmpl: template.Must(builtinTemplates.Clone())}
}

// AddFile parses a template file. The file's base name is usable as a
// template name in Render, along with any templates it defines.
func (g *Generator) AddFile(path string) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if _, err := g.tmpl.New(filepath.Base(path)).Parse(string(text)); err != nil {
		return fmt.Errorf("parsing template %s: %w", path, err)
	}
	return nil
}

// Names returns the names of all templates that can be rendered.
func (g *Generator) Names() []string {
	var names []string
	for _, t := range g.tmpl.Templates() {
		if t.Name() != "" {
			names = append(names, t.Name())
		}
	}
	slices.Sort(names)
	return names
}

// Render executes the named template.
func (g *Generator) Render(name string, data *Data) ([]byte, error) {
	if g.tmpl.Lookup(name) == nil {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// FormatGo formats generated Go source with goimports. filename is only
// used for error messages and import resolution.
func FormatGo(filename string, src []byte) ([]byte, error) {
	formatted, err := imports.Process(filename, src, nil)
	if err != nil {
		return nil, fmt.Errorf("goimports %s: %w", filepath.Base(filename), err)
	}
	return formatted, nil
}
