package commands

import (
	"fmt"

	"github.com/nguyenanhgiau/external-mesa3d/pkg/manifest"
)

// RunSchema prints the manifest JSON schema.
func RunSchema(env Env) error {
	data, err := manifest.Schema()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(env.Out, "%s\n", data); err != nil {
		return fmt.Errorf("writing schema: %w", err)
	}
	return nil
}
