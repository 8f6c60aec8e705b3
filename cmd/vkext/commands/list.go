package commands

import (
	"fmt"

	"github.com/nguyenanhgiau/external-mesa3d/pkg/registry"
)

// ListFilter narrows the extensions printed by RunList.
type ListFilter struct {
	Match    string
	Type     string
	Promoted bool
}

// RunList prints the names of registry extensions matching filter.
func RunList(env Env, path string, filter ListFilter) error {
	reg, err := env.loadRegistry(path)
	if err != nil {
		return err
	}
	names, err := listNames(reg, filter)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(env.Out, name)
	}
	return nil
}

func listNames(reg *registry.Registry, filter ListFilter) ([]string, error) {
	typ, err := parseTypeFlag(filter.Type)
	if err != nil {
		return nil, err
	}

	names := reg.Names()
	if filter.Match != "" {
		names, err = reg.Match(filter.Match)
		if err != nil {
			return nil, err
		}
	}

	out := names[:0]
	for _, name := range names {
		e, _ := reg.Entry(name)
		if typ != "" && e.Type != typ {
			continue
		}
		if filter.Promoted && e.PromotedIn == nil {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}
