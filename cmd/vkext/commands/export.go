package commands

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// RunExport writes every registry entry in the given format.
func RunExport(env Env, path, format string) error {
	reg, err := env.loadRegistry(path)
	if err != nil {
		return err
	}
	entries := reg.Entries()

	switch format {
	case "json":
		enc := json.NewEncoder(env.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode entries: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(env.Out)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("failed to encode entries: %w", err)
		}
		return enc.Close()
	case "cbor":
		em, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			return err
		}
		if err := em.NewEncoder(env.Out).Encode(entries); err != nil {
			return fmt.Errorf("failed to encode entries: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s (supported: json, yaml, cbor)", format)
	}
	return nil
}
