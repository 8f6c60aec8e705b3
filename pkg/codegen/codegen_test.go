package codegen

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyenanhgiau/external-mesa3d/pkg/crossref"
	"github.com/nguyenanhgiau/external-mesa3d/pkg/extension"
	"github.com/nguyenanhgiau/external-mesa3d/pkg/manifest"
	"github.com/nguyenanhgiau/external-mesa3d/pkg/registry"
)

func testData(t *testing.T) *Data {
	t.Helper()
	reg, err := registry.Load(filepath.Join("..", "registry", "testdata", "vk_subset.xml"))
	require.NoError(t, err)
	m, err := manifest.Load(filepath.Join("..", "manifest", "testdata", "zink.yaml"))
	require.NoError(t, err)
	set, err := m.Build()
	require.NoError(t, err)

	r := &crossref.Resolver{Lookup: reg, MaxAPI: set.MaxAPI}
	resolve := func(exts []*extension.Extension) []*crossref.Descriptor {
		descs, err := r.Resolve(exts)
		require.NoError(t, err)
		return descs
	}
	return &Data{
		Prefix:   "zink",
		Package:  "vkext",
		MaxAPI:   set.MaxAPI,
		Device:   resolve(set.Device),
		Instance: resolve(set.Instance),
		Layers:   resolve(set.Layers),
	}
}

func TestRender_CHeader(t *testing.T) {
	out, err := New().Render(TemplateCHeader, testData(t))
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "#ifndef ZINK_EXTENSION_INFO_H")
	assert.Contains(t, src, "struct zink_device_info {")
	assert.Contains(t, src, "   bool have_EXT_robustness2;")
	assert.Contains(t, src, "   VkPhysicalDeviceRobustness2FeaturesEXT rb2_feats;")
	assert.Contains(t, src, "   VkPhysicalDeviceRobustness2PropertiesEXT rb2_props;")
	assert.Contains(t, src, "   VkPhysicalDeviceTimelineSemaphoreFeaturesKHR timeline_feats;")
	assert.NotContains(t, src, "timeline_props")
	assert.Contains(t, src, "#ifdef VK_ENABLE_BETA_EXTENSIONS\n   bool have_KHR_portability_subset;")
	assert.Contains(t, src, "   PFN_vkGetPhysicalDeviceFeatures2KHR vkGetPhysicalDeviceFeatures2KHR;")
	assert.Contains(t, src, "   bool have_layer_KHRONOS_validation;")
}

func TestRender_CSource(t *testing.T) {
	out, err := New().Render(TemplateCSource, testData(t))
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, `   "VK_EXT_robustness2",`)
	assert.Contains(t, src, "if (!strcmp(name, VK_EXT_ROBUSTNESS2_EXTENSION_NAME)) {")
	assert.Contains(t, src, "if (info->device_version >= VK_MAKE_VERSION(1,2,0))\n      info->have_KHR_timeline_semaphore = true;")
	assert.Contains(t, src, "info->rb2_feats.sType = VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_ROBUSTNESS2_FEATURES_EXT;")
	assert.Contains(t, src, "info->rb2_props.sType = VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_ROBUSTNESS2_PROPERTIES_EXT;")
	assert.Contains(t, src, "info->loader_version >= VK_MAKE_VERSION(1,1,0)")
	assert.Contains(t, src, `get_proc_addr(instance, "vkGetPhysicalDeviceProperties2KHR");`)

	// robustness2 was promoted to another extension, not to core
	assert.NotContains(t, src, "have_EXT_robustness2 = true;\n}")
	assert.Equal(t, 1, strings.Count(src, "info->device_version >= "))
}

func TestRender_Go(t *testing.T) {
	out, err := New().Render(TemplateGo, testData(t))
	require.NoError(t, err)

	formatted, err := FormatGo("extensions_gen.go", out)
	require.NoError(t, err)
	src := string(formatted)

	_, err = parser.ParseFile(token.NewFileSet(), "extensions_gen.go", formatted, 0)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(src, "// Code generated by vkext. DO NOT EDIT."))
	assert.Contains(t, src, "package vkext")
	assert.Regexp(t, regexp.MustCompile(`EXTRobustness2\s+= "VK_EXT_robustness2"`), src)
	assert.Regexp(t, regexp.MustCompile(`LAYERKhronosValidation\s+= "VK_LAYER_KHRONOS_validation"`), src)
	assert.Regexp(t, regexp.MustCompile(`KHRTimelineSemaphore:\s+"1.2.0"`), src)
	assert.Contains(t, src, `"vkGetPhysicalDeviceFeatures2KHR", "vkGetPhysicalDeviceProperties2KHR"`)
}

func TestFormatGo_Invalid(t *testing.T) {
	_, err := FormatGo("broken.go", []byte("package x\nfunc {"))
	assert.Error(t, err)
}

func TestRender_Unknown(t *testing.T) {
	_, err := New().Render("nope", &Data{})
	assert.ErrorContains(t, err, `unknown template "nope"`)
}

func TestAddFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.tmpl")
	tmpl := `{{range .Device}}{{if .Ext.HasFeatures}}{{.Ext.Field "feats"}} {{upper .Ext.PureName}}
{{end}}{{end}}`
	require.NoError(t, os.WriteFile(path, []byte(tmpl), 0o644))

	g := New()
	require.NoError(t, g.AddFile(path))
	assert.Contains(t, g.Names(), "fields.tmpl")
	assert.Contains(t, g.Names(), TemplateCHeader)

	out, err := g.Render("fields.tmpl", testData(t))
	require.NoError(t, err)
	assert.Equal(t, "rb2_feats ROBUSTNESS2\ntimeline_feats TIMELINE_SEMAPHORE\nportability_subset_feats PORTABILITY_SUBSET\n", string(out))
}

func TestAddFile_Errors(t *testing.T) {
	g := New()
	assert.Error(t, g.AddFile(filepath.Join(t.TempDir(), "missing.tmpl")))

	path := filepath.Join(t.TempDir(), "bad.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("{{range}}"), 0o644))
	assert.Error(t, g.AddFile(path))
}

func TestAddFile_DoesNotAffectOtherGenerators(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	g := New()
	require.NoError(t, g.AddFile(path))
	assert.NotContains(t, New().Names(), "extra.tmpl")
}
