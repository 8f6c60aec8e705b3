// Package commands implements the vkext subcommands.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/nguyenanhgiau/external-mesa3d/pkg/registry"
)

// Env carries what every subcommand writes to.
type Env struct {
	Out    io.Writer
	Logger *slog.Logger
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

func (e Env) loadRegistry(path string) (*registry.Registry, error) {
	if path == "" {
		return nil, fmt.Errorf("registry path required")
	}
	reg, err := registry.Loader{Logger: e.logger()}.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}
	return reg, nil
}

// writeEntry prints an entry in the indented text form used by show and shell.
func writeEntry(w io.Writer, e *registry.Entry) {
	fmt.Fprintf(w, "%s\n", e.Name)
	fmt.Fprintf(w, "  type:        %s\n", e.Type)
	if e.Number != 0 {
		fmt.Fprintf(w, "  number:      %d\n", e.Number)
	}
	if e.Author != "" {
		fmt.Fprintf(w, "  author:      %s\n", e.Author)
	}
	if e.PromotedIn != nil {
		fmt.Fprintf(w, "  promoted in: %s\n", e.PromotedIn)
	}
	if e.Depends != "" {
		fmt.Fprintf(w, "  depends:     %s\n", e.Depends)
	}
	if e.DeprecatedBy != "" {
		fmt.Fprintf(w, "  deprecated:  %s\n", e.DeprecatedBy)
	}
	if e.ObsoletedBy != "" {
		fmt.Fprintf(w, "  obsoleted:   %s\n", e.ObsoletedBy)
	}
	if e.Platform != "" {
		fmt.Fprintf(w, "  platform:    %s\n", e.Platform)
	}
	if e.Provisional {
		fmt.Fprintf(w, "  provisional: true\n")
	}
	if e.FeaturesStruct != nil {
		fmt.Fprintf(w, "  features:    %s\n", *e.FeaturesStruct)
	}
	if e.PropertiesStruct != nil {
		fmt.Fprintf(w, "  properties:  %s\n", *e.PropertiesStruct)
	}
	writeList(w, "commands", e.Commands)
	writeList(w, "constants", e.Constants)
}

func writeList(w io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", label)
	for _, item := range items {
		fmt.Fprintf(w, "    - %s\n", item)
	}
}

// parseTypeFlag validates an extension type filter.
func parseTypeFlag(s string) (string, error) {
	switch strings.ToLower(s) {
	case "":
		return "", nil
	case registry.TypeInstance, registry.TypeDevice:
		return strings.ToLower(s), nil
	default:
		return "", fmt.Errorf("invalid type %q (valid: instance, device)", s)
	}
}
