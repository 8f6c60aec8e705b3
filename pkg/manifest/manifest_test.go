package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenanhgiau/external-mesa3d/pkg/extension"
	"github.com/nguyenanhgiau/external-mesa3d/pkg/version"
)

func TestLoad_File(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "zink.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "1.0", m.Version)
	assert.Equal(t, "1.2", m.MaxAPI)
	require.Len(t, m.Device, 3)
	require.Len(t, m.Instance, 2)
	require.Len(t, m.Layers, 1)

	rb2 := m.Device[0]
	assert.Equal(t, "VK_EXT_robustness2", rb2.Name)
	assert.Equal(t, "rb2", rb2.Alias)
	assert.True(t, rb2.Features)
	assert.True(t, rb2.Properties)
	assert.Equal(t, []string{"$feats.nullDescriptor"}, rb2.Conditions)
	assert.True(t, m.Device[2].Guard)
}

func TestParse_MissingName(t *testing.T) {
	_, err := Parse([]byte("device:\n  - alias: rb2\n"))
	assert.ErrorContains(t, err, "device[0] missing name")
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("device: [\n"))
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "zink.yaml"))
	require.NoError(t, err)

	set, err := m.Build()
	require.NoError(t, err)

	require.NotNil(t, set.MaxAPI)
	assert.Equal(t, version.New(1, 2, 0), *set.MaxAPI)
	require.Len(t, set.Device, 3)
	require.Len(t, set.Instance, 2)
	require.Len(t, set.Layers, 1)
	assert.Len(t, set.All(), 6)

	gpdp2 := set.Instance[0]
	assert.True(t, gpdp2.Required())
	funcs, ok := gpdp2.InstanceFuncs()
	assert.True(t, ok)
	assert.Equal(t, []string{"vkGetPhysicalDeviceFeatures2KHR", "vkGetPhysicalDeviceProperties2KHR"}, funcs)

	_, ok = set.Device[0].InstanceFuncs()
	assert.False(t, ok)

	assert.True(t, set.Layers[0].Nonstandard())
	assert.Equal(t, "VK_LAYER_KHRONOS_validation", set.All()[5].Name())
}

func TestBuild_CoreSince(t *testing.T) {
	m, err := Parse([]byte(`
instance:
  - name: VK_KHR_get_physical_device_properties2
    core_since: "1.1.0"
`))
	require.NoError(t, err)
	set, err := m.Build()
	require.NoError(t, err)

	core, ok := set.Instance[0].CoreSince()
	require.True(t, ok)
	assert.Equal(t, "VK_MAKE_VERSION(1,1,0)", core.MakeVersion())
}

func TestBuild_ReportsAllErrors(t *testing.T) {
	m, err := Parse([]byte(`
max_api: "one"
device:
  - name: VK_EXT_robustness2
    features: true
  - name: VK_KHR_timeline_semaphore
    properties: true
instance:
  - name: VK_KHR_surface
    core_since: "x"
`))
	require.NoError(t, err)

	set, err := m.Build()
	require.Error(t, err)
	assert.Nil(t, set)
	assert.True(t, errors.Is(err, extension.ErrMissingAlias))
	assert.ErrorContains(t, err, "VK_EXT_robustness2")
	assert.ErrorContains(t, err, "VK_KHR_timeline_semaphore")
	assert.ErrorContains(t, err, "core_since")
	assert.ErrorContains(t, err, "max_api")
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "object", doc["type"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "device")
	assert.Contains(t, props, "instance")
	assert.Contains(t, props, "layers")
	assert.Contains(t, props, "max_api")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "valid",
			doc: `
version: "1.0"
device:
  - name: VK_EXT_robustness2
    alias: rb2
    features: true
`,
		},
		{
			name: "unknown top-level key",
			doc: `
version: "1.0"
extensions: []
`,
			wantErr: true,
		},
		{
			name: "unknown extension key",
			doc: `
version: "1.0"
device:
  - name: VK_EXT_robustness2
    feature: true
`,
			wantErr: true,
		},
		{
			name: "wrong type",
			doc: `
version: "1.0"
device:
  - name: VK_EXT_robustness2
    features: "yes"
`,
			wantErr: true,
		},
		{
			name: "bad core_since",
			doc: `
version: "1.0"
instance:
  - name: VK_KHR_surface
    core_since: "one.two"
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.doc))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_File(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "zink.yaml"))
	require.NoError(t, err)
	assert.NoError(t, Validate(data))
}
