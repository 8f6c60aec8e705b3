// Package extension describes a single Vulkan extension or layer as the code
// generator sees it, and derives the identifiers that get interpolated into
// generated driver source.
//
// Names are expected to follow the registry convention of a namespace token,
// a vendor token and a feature tail ("VK_EXT_robustness2"). Derivations on
// names that break the convention return meaningless strings, not errors.
package extension

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/nguyenanhgiau/external-mesa3d/pkg/version"
)

// ErrMissingAlias is returned by New when feature or property struct tracking
// is requested without an alias to name the storage fields.
var ErrMissingAlias = errors.New("alias must be available when properties and/or features are used")

// ConfigError reports an invalid Extension configuration.
type ConfigError struct {
	Name string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("extension %s: %v", e.Name, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config holds the caller-supplied description of an extension.
type Config struct {
	Alias       string
	Required    bool
	Nonstandard bool
	Properties  bool
	Features    bool
	Conditions  []string
	Guard       bool

	// Instance extensions only.
	CoreSince *version.Version
	Functions []string
}

// Extension is an immutable extension descriptor.
type Extension struct {
	name        string
	alias       string
	required    bool
	nonstandard bool
	properties  bool
	features    bool
	conditions  []string
	guard       bool

	coreSince     *version.Version
	instanceFuncs []string
	hasFuncs      bool
}

// Layer is described exactly like an extension.
type Layer = Extension

// New validates cfg and returns the descriptor for name.
func New(name string, cfg Config) (*Extension, error) {
	if cfg.Alias == "" && (cfg.Properties || cfg.Features) {
		return nil, &ConfigError{Name: name, Err: ErrMissingAlias}
	}

	e := &Extension{
		name:        name,
		alias:       cfg.Alias,
		required:    cfg.Required,
		nonstandard: cfg.Nonstandard,
		properties:  cfg.Properties,
		features:    cfg.Features,
		conditions:  slices.Clone(cfg.Conditions),
		guard:       cfg.Guard,
	}
	if cfg.CoreSince != nil {
		v := *cfg.CoreSince
		e.coreSince = &v
	}
	if cfg.Functions != nil {
		e.instanceFuncs = slices.Clone(cfg.Functions)
		e.hasFuncs = true
	}
	return e, nil
}

// NewLayer returns the descriptor for a layer.
func NewLayer(name string, cfg Config) (*Layer, error) {
	return New(name, cfg)
}

// Name returns the registry name, e.g. "VK_EXT_robustness2".
func (e *Extension) Name() string { return e.name }

// Alias returns the short field prefix and whether one was configured.
func (e *Extension) Alias() (string, bool) { return e.alias, e.alias != "" }

func (e *Extension) Required() bool      { return e.required }
func (e *Extension) Nonstandard() bool   { return e.nonstandard }
func (e *Extension) HasProperties() bool { return e.properties }
func (e *Extension) HasFeatures() bool   { return e.features }
func (e *Extension) Guarded() bool       { return e.guard }

// Conditions returns the enable conditions. The returned slice is a copy.
func (e *Extension) Conditions() []string {
	return slices.Clone(e.conditions)
}

// CoreSince returns the API version in which the extension became core.
func (e *Extension) CoreSince() (version.Version, bool) {
	if e.coreSince == nil {
		return version.Version{}, false
	}
	return *e.coreSince, true
}

// InstanceFuncs returns the functions the extension introduces, if listed.
func (e *Extension) InstanceFuncs() ([]string, bool) {
	return slices.Clone(e.instanceFuncs), e.hasFuncs
}

// PureName strips the namespace and vendor tokens: "VK_EXT_robustness2" -> "robustness2".
func (e *Extension) PureName() string {
	return strings.Join(tail(e.name), "_")
}

// NameWithVendor drops the leading "VK_": "VK_EXT_robustness2" -> "EXT_robustness2".
func (e *Extension) NameWithVendor() string {
	if len(e.name) < 3 {
		return ""
	}
	return e.name[3:]
}

// NameInCamelCase title-cases the feature tail: "VK_EXT_robustness2" -> "Robustness2".
func (e *Extension) NameInCamelCase() string {
	var b strings.Builder
	for _, tok := range tail(e.name) {
		b.WriteString(title(tok))
	}
	return b.String()
}

// ExtensionName returns the extension-name macro, e.g.
// "VK_EXT_ROBUSTNESS2_EXTENSION_NAME".
//
// The headers are not consistent about this (VK_EXT_ROBUSTNESS_2_EXTENSION_NAME
// next to VK_KHR_MAINTENANCE1_EXTENSION_NAME); generated code relies on the
// plain upper-cased form.
func (e *Extension) ExtensionName() string {
	return strings.ToUpper(e.name) + "_EXTENSION_NAME"
}

// ExtensionNameLiteral returns the name as a C string literal.
func (e *Extension) ExtensionNameLiteral() string {
	return `"` + e.name + `"`
}

// Field names the info-struct member holding this extension's feature or
// property data, e.g. "rb2_feats".
func (e *Extension) Field(suffix string) string {
	return e.alias + "_" + suffix
}

// PhysicalDeviceStruct returns the capability struct type name, e.g.
// "VkPhysicalDeviceRobustness2FeaturesEXT" for kind "Features".
func (e *Extension) PhysicalDeviceStruct(kind string) string {
	camel := e.NameInCamelCase()
	if strings.HasSuffix(camel, kind) {
		kind = ""
	}
	return "VkPhysicalDevice" + camel + kind + e.Vendor()
}

// SType returns the sType of the extension's capability struct, e.g.
// VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_TRANSFORM_FEEDBACK_FEATURES_EXT for
// VK_EXT_transform_feedback and kind "FEATURES".
func (e *Extension) SType(kind string) string {
	return "VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_" +
		strings.ToUpper(e.PureName()) +
		"_" + kind + "_" +
		e.Vendor()
}

// Vendor returns the vendor token, e.g. "EXT" in "VK_EXT_robustness2".
func (e *Extension) Vendor() string {
	parts := strings.Split(e.name, "_")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func (e *Extension) String() string {
	return e.name
}

// tail returns the underscore-separated tokens after namespace and vendor.
func tail(name string) []string {
	parts := strings.Split(name, "_")
	if len(parts) <= 2 {
		return nil
	}
	return parts[2:]
}

// title upper-cases the first letter of every run of letters and lower-cases
// the rest, so "8bit" becomes "8Bit" and "float16" becomes "Float16".
func title(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case isLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return b.String()
}
