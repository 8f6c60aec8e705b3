package commands

import (
	"errors"
	"fmt"

	"github.com/nguyenanhgiau/external-mesa3d/pkg/crossref"
)

// RunShow prints the registry entry of each named extension. Unknown names
// are reported after the known ones are printed.
func RunShow(env Env, path string, names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("at least one extension name required")
	}
	reg, err := env.loadRegistry(path)
	if err != nil {
		return err
	}

	var errs []error
	for i, name := range names {
		e, ok := reg.Entry(name)
		if !ok {
			errs = append(errs, &crossref.Problem{Extension: name, Err: crossref.ErrNotRegistered})
			continue
		}
		if i > 0 {
			fmt.Fprintln(env.Out)
		}
		writeEntry(env.Out, e)
	}
	return errors.Join(errs...)
}
