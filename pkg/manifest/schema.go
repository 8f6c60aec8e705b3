package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const schemaURL = "manifest.schema.json"

var (
	compileOnce sync.Once
	compiled    *santhosh.Schema
	compileErr  error
)

// Schema returns the JSON schema of the manifest format.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		FieldNameTag:   "yaml",
		ExpandedStruct: true,
		Anonymous:      true,
	}
	s := r.Reflect(&RawManifest{})
	s.Title = "vkext extension manifest"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding manifest schema: %w", err)
	}
	return data, nil
}

func compiledSchema() (*santhosh.Schema, error) {
	compileOnce.Do(func() {
		data, err := Schema()
		if err != nil {
			compileErr = err
			return
		}
		c := santhosh.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(data)); err != nil {
			compileErr = fmt.Errorf("loading manifest schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Validate checks a YAML manifest against the schema: unknown keys, wrong
// value types and malformed versions are reported.
func Validate(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing manifest: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	// Round-trip through JSON so numbers and maps have the shapes the
	// validator expects.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("manifest is not representable as JSON: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("re-decoding manifest: %w", err)
	}

	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("validating manifest: %w", err)
	}
	return nil
}
