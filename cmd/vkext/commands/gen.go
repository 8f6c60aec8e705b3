package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nguyenanhgiau/external-mesa3d/pkg/codegen"
	"github.com/nguyenanhgiau/external-mesa3d/pkg/crossref"
	"github.com/nguyenanhgiau/external-mesa3d/pkg/extension"
	"github.com/nguyenanhgiau/external-mesa3d/pkg/manifest"
)

// GenOptions configures RunGen.
type GenOptions struct {
	RegistryPath string
	ManifestPath string

	// Template is a built-in template name or the base name of one of
	// TemplateFiles. Go output ("go" or "*.go.tmpl") is run through goimports.
	Template      string
	TemplateFiles []string

	Prefix  string
	Package string

	// Strict turns registry disagreements into a failure instead of warnings.
	Strict bool
}

// RunGen renders the manifest's extensions through a template.
func RunGen(env Env, opts GenOptions) error {
	data, err := buildData(env, opts.RegistryPath, opts.ManifestPath, opts.Strict)
	if err != nil {
		return err
	}
	data.Prefix = opts.Prefix
	data.Package = opts.Package

	g := codegen.New()
	for _, path := range opts.TemplateFiles {
		if err := g.AddFile(path); err != nil {
			return err
		}
	}

	out, err := g.Render(opts.Template, data)
	if err != nil {
		return err
	}
	if opts.Template == codegen.TemplateGo || strings.HasSuffix(opts.Template, ".go.tmpl") {
		out, err = codegen.FormatGo(opts.Package+"_gen.go", out)
		if err != nil {
			return err
		}
	}

	if _, err := env.Out.Write(out); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// buildData loads both documents and resolves every manifest section.
func buildData(env Env, registryPath, manifestPath string, strict bool) (*codegen.Data, error) {
	logger := env.logger()

	reg, err := env.loadRegistry(registryPath)
	if err != nil {
		return nil, err
	}
	set, err := loadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	r := &crossref.Resolver{Lookup: reg, MaxAPI: set.MaxAPI, Logger: logger}
	var problems []error
	resolve := func(exts []*extension.Extension) []*crossref.Descriptor {
		descs, err := r.Resolve(exts)
		if err != nil {
			problems = append(problems, err)
		}
		return descs
	}

	data := &codegen.Data{
		MaxAPI:   set.MaxAPI,
		Device:   resolve(set.Device),
		Instance: resolve(set.Instance),
		Layers:   resolve(set.Layers),
	}

	if err := errors.Join(problems...); err != nil {
		if strict {
			return nil, err
		}
		logger.Warn("registry cross-reference problems", slog.String("details", err.Error()))
	}
	return data, nil
}

func loadManifest(path string) (*manifest.Set, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest path required")
	}
	m, err := manifest.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}
	set, err := m.Build()
	if err != nil {
		return nil, fmt.Errorf("building manifest: %w", err)
	}
	return set, nil
}
