package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/nguyenanhgiau/external-mesa3d/pkg/manifest"
)

// ErrCheckFailed is returned by RunCheck when problems were found.
var ErrCheckFailed = errors.New("check failed")

// RunCheck validates a manifest against the schema and cross-references it
// against the registry, printing one line per problem.
func RunCheck(env Env, registryPath, manifestPath string) error {
	if manifestPath == "" {
		return fmt.Errorf("manifest path required")
	}
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", manifestPath, err)
	}
	if err := manifest.Validate(raw); err != nil {
		fmt.Fprintf(env.Out, "schema: %v\n", err)
		return ErrCheckFailed
	}

	_, err = buildData(env, registryPath, manifestPath, true)
	if err == nil {
		fmt.Fprintln(env.Out, "ok")
		return nil
	}

	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return err
	}
	for _, e := range flatten(joined.(error)) {
		fmt.Fprintln(env.Out, e)
	}
	return ErrCheckFailed
}

// flatten expands nested errors.Join results into their leaves.
func flatten(err error) []error {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, flatten(e)...)
	}
	return out
}
