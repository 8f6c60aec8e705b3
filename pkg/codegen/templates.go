package codegen

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/nguyenanhgiau/external-mesa3d/pkg/extension"
)

// funcMap provides helper functions available to all templates.
var funcMap = template.FuncMap{
	"upper":   strings.ToUpper,
	"lower":   strings.ToLower,
	"join":    strings.Join,
	"quote":   func(s string) string { return fmt.Sprintf("%q", s) },
	"goConst": goConst,
}

// goConst names the Go constant for an extension, e.g. "EXTRobustness2".
func goConst(ext *extension.Extension) string {
	return ext.Vendor() + ext.NameInCamelCase()
}

// Built-in template names.
const (
	TemplateCHeader = "c-header"
	TemplateCSource = "c-source"
	TemplateGo      = "go"
)

// Builtins lists the built-in templates.
var Builtins = []string{TemplateCHeader, TemplateCSource, TemplateGo}

var builtinTemplates = template.Must(template.New("").Funcs(funcMap).Parse(
	cHeaderTmpl +
		cSourceTmpl +
		goTmpl,
))

const cHeaderTmpl = `{{define "c-header" -}}
/* Generated by vkext. Do not edit. */

#ifndef {{upper .Prefix}}_EXTENSION_INFO_H
#define {{upper .Prefix}}_EXTENSION_INFO_H

#include <stdbool.h>
#include <stdint.h>
#include <vulkan/vulkan_core.h>

struct {{.Prefix}}_device_info {
   uint32_t device_version;
{{- range .Device}}
{{- if .Ext.Guarded}}
#ifdef VK_ENABLE_BETA_EXTENSIONS
{{- end}}
   bool have_{{.Ext.NameWithVendor}};
{{- if .Ext.HasFeatures}}
   {{.FeaturesStruct}} {{.Ext.Field "feats"}};
{{- end}}
{{- if .Ext.HasProperties}}
   {{.PropertiesStruct}} {{.Ext.Field "props"}};
{{- end}}
{{- if .Ext.Guarded}}
#endif
{{- end}}
{{- end}}
};

struct {{.Prefix}}_instance_info {
   uint32_t loader_version;
{{- range .Instance}}
   bool have_{{.Ext.NameWithVendor}};
{{- range .Functions}}
   PFN_{{.}} {{.}};
{{- end}}
{{- end}}
{{- range .Layers}}
   bool have_layer_{{.Ext.PureName}};
{{- end}}
};

bool
{{.Prefix}}_get_device_info(struct {{.Prefix}}_device_info *info, VkPhysicalDevice pdev);

bool
{{.Prefix}}_create_instance_info(struct {{.Prefix}}_instance_info *info, uint32_t loader_version);

#endif
{{end}}`

const cSourceTmpl = `{{define "c-source" -}}
/* Generated by vkext. Do not edit. */

#include <string.h>
#include "{{.Prefix}}_extension_info.h"

static const char *{{.Prefix}}_device_extensions[] = {
{{- range .Device}}
   {{.Ext.ExtensionNameLiteral}},
{{- end}}
};

static const char *{{.Prefix}}_instance_extensions[] = {
{{- range .Instance}}
   {{.Ext.ExtensionNameLiteral}},
{{- end}}
};

static void
{{.Prefix}}_mark_device_extension(struct {{.Prefix}}_device_info *info, const char *name)
{
{{- range .Device}}
{{- if .Ext.Guarded}}
#ifdef VK_ENABLE_BETA_EXTENSIONS
{{- end}}
   if (!strcmp(name, {{.Ext.ExtensionName}})) {
      info->have_{{.Ext.NameWithVendor}} = true;
      return;
   }
{{- if .Ext.Guarded}}
#endif
{{- end}}
{{- end}}
}

static void
{{.Prefix}}_mark_core_device_extensions(struct {{.Prefix}}_device_info *info)
{
{{- range .Device}}
{{- if .Promoted}}
   if (info->device_version >= {{.Core.MakeVersion}})
      info->have_{{.Ext.NameWithVendor}} = true;
{{- end}}
{{- end}}
}

static void
{{.Prefix}}_chain_device_structs(struct {{.Prefix}}_device_info *info,
                                 VkPhysicalDeviceFeatures2 *feats,
                                 VkPhysicalDeviceProperties2 *props)
{
{{- range .Device}}
{{- if or .Ext.HasFeatures .Ext.HasProperties}}
{{- if .Ext.Guarded}}
#ifdef VK_ENABLE_BETA_EXTENSIONS
{{- end}}
   if (info->have_{{.Ext.NameWithVendor}}) {
{{- if .Ext.HasFeatures}}
      info->{{.Ext.Field "feats"}}.sType = {{.FeaturesSType}};
      info->{{.Ext.Field "feats"}}.pNext = feats->pNext;
      feats->pNext = &info->{{.Ext.Field "feats"}};
{{- end}}
{{- if .Ext.HasProperties}}
      info->{{.Ext.Field "props"}}.sType = {{.PropertiesSType}};
      info->{{.Ext.Field "props"}}.pNext = props->pNext;
      props->pNext = &info->{{.Ext.Field "props"}};
{{- end}}
   }
{{- if .Ext.Guarded}}
#endif
{{- end}}
{{- end}}
{{- end}}
}

static void
{{.Prefix}}_load_instance_functions(struct {{.Prefix}}_instance_info *info, VkInstance instance,
                                    PFN_vkGetInstanceProcAddr get_proc_addr)
{
{{- range .Instance}}
{{- if .Functions}}
{{- if .Promoted}}
   if (info->have_{{.Ext.NameWithVendor}} || info->loader_version >= {{.Core.MakeVersion}}) {
{{- else}}
   if (info->have_{{.Ext.NameWithVendor}}) {
{{- end}}
{{- range .Functions}}
      info->{{.}} = (PFN_{{.}})get_proc_addr(instance, "{{.}}");
{{- end}}
   }
{{- end}}
{{- end}}
}
{{end}}`

const goTmpl = `{{define "go" -}}
// Code generated by vkext. DO NOT EDIT.

package {{.Package}}

// Extension and layer names.
const (
{{- range .All}}
	{{goConst .Ext}} = {{quote .Ext.Name}}
{{- end}}
)

// CoreSince maps promoted extensions to the core version that absorbed them.
var CoreSince = map[string]string{
{{- range .All}}
{{- if .Promoted}}
	{{goConst .Ext}}: {{quote .Core.String}},
{{- end}}
{{- end}}
}

// Functions lists the entry points each extension provides.
var Functions = map[string][]string{
{{- range .All}}
{{- if .Functions}}
	{{goConst .Ext}}: { {{- range $i, $f := .Functions}}{{if $i}}, {{end}}{{quote $f}}{{end -}} },
{{- end}}
{{- end}}
}
{{end}}`
