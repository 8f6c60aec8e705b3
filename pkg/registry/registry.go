// Package registry reads the extension section of the Vulkan capability
// registry (vk.xml) into name-keyed entries.
//
// The registry is parsed once and is read-only afterwards; lookups are safe
// for concurrent use.
package registry

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Extension types found in the registry.
const (
	TypeInstance = "instance"
	TypeDevice   = "device"
)

// versionPrefix is the promotedto form naming a core API version.
const versionPrefix = "VK_VERSION_"

var (
	featuresPattern   = regexp.MustCompile(`^VkPhysicalDevice.*Features`)
	propertiesPattern = regexp.MustCompile(`^VkPhysicalDevice.*Properties`)
)

// APIVersion is a core API version as named by promotedto ("VK_VERSION_1_2").
type APIVersion struct {
	Major int `json:"major" yaml:"major" cbor:"major"`
	Minor int `json:"minor" yaml:"minor" cbor:"minor"`
}

func (v APIVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Entry is what the registry says about one extension.
type Entry struct {
	Name string `json:"name" yaml:"name" cbor:"name"`

	// Type is "instance" or "device".
	Type string `json:"type" yaml:"type" cbor:"type"`

	// PromotedIn is set when the extension was promoted to a core version.
	PromotedIn *APIVersion `json:"promoted_in,omitempty" yaml:"promoted_in,omitempty" cbor:"promoted_in,omitempty"`

	// Commands are the functions the extension adds, in document order.
	Commands []string `json:"commands" yaml:"commands" cbor:"commands"`

	// Constants are the enums that do not extend another enum, which in
	// practice are the *_SPEC_VERSION and *_EXTENSION_NAME defines.
	Constants []string `json:"constants" yaml:"constants" cbor:"constants"`

	FeaturesStruct   *string `json:"features_struct,omitempty" yaml:"features_struct,omitempty" cbor:"features_struct,omitempty"`
	PropertiesStruct *string `json:"properties_struct,omitempty" yaml:"properties_struct,omitempty" cbor:"properties_struct,omitempty"`

	Number       int    `json:"number,omitempty" yaml:"number,omitempty" cbor:"number,omitempty"`
	Author       string `json:"author,omitempty" yaml:"author,omitempty" cbor:"author,omitempty"`
	Platform     string `json:"platform,omitempty" yaml:"platform,omitempty" cbor:"platform,omitempty"`
	Depends      string `json:"depends,omitempty" yaml:"depends,omitempty" cbor:"depends,omitempty"`
	DeprecatedBy string `json:"deprecated_by,omitempty" yaml:"deprecated_by,omitempty" cbor:"deprecated_by,omitempty"`
	ObsoletedBy  string `json:"obsoleted_by,omitempty" yaml:"obsoleted_by,omitempty" cbor:"obsoleted_by,omitempty"`
	Provisional  bool   `json:"provisional,omitempty" yaml:"provisional,omitempty" cbor:"provisional,omitempty"`
}

// Registry maps extension names to entries. Extensions marked
// supported="disabled" are not present.
type Registry struct {
	entries map[string]*Entry
	names   []string
}

// Loader parses registry documents.
type Loader struct {
	// Logger receives debug output about skipped and parsed extensions.
	// Nil discards it.
	Logger *slog.Logger
}

// Load reads and parses the registry at path.
func Load(path string) (*Registry, error) {
	return Loader{}.Load(path)
}

// Parse parses a registry document from r.
func Parse(r io.Reader) (*Registry, error) {
	return Loader{}.Parse(r)
}

// Load reads and parses the registry at path. The file is closed before
// Load returns.
func (l Loader) Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	reg, err := l.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Parse parses a registry document from r.
func (l Loader) Parse(r io.Reader) (*Registry, error) {
	logger := l.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var doc xmlRegistry
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}

	reg := &Registry{entries: make(map[string]*Entry, len(doc.Extensions))}
	skipped := 0
	for i := range doc.Extensions {
		ext := &doc.Extensions[i]

		// Reserved extensions are marked with supported="disabled".
		if ext.Supported == "disabled" {
			skipped++
			continue
		}
		if ext.Name == "" {
			return nil, fmt.Errorf("parsing registry: extension #%d has no name", i)
		}

		entry := newEntry(ext)
		if _, dup := reg.entries[entry.Name]; !dup {
			reg.names = append(reg.names, entry.Name)
		}
		reg.entries[entry.Name] = entry
	}

	logger.LogAttrs(context.Background(), slog.LevelDebug, "registry parsed",
		slog.Int("extensions", len(reg.names)),
		slog.Int("disabled", skipped),
	)
	return reg, nil
}

func newEntry(ext *xmlExtension) *Entry {
	entry := &Entry{
		Name:         ext.Name,
		Type:         ext.Type,
		Commands:     []string{},
		Constants:    []string{},
		Author:       ext.Author,
		Platform:     ext.Platform,
		Depends:      ext.Depends,
		DeprecatedBy: ext.DeprecatedBy,
		ObsoletedBy:  ext.ObsoletedBy,
		Provisional:  ext.Provisional == "true",
	}
	if entry.Depends == "" {
		// older registries spell it "requires", comma separated
		entry.Depends = ext.Requires
	}
	if n, err := strconv.Atoi(ext.Number); err == nil {
		entry.Number = n
	}
	if v, ok := ParsePromotedTo(ext.PromotedTo); ok {
		entry.PromotedIn = &v
	}

	for _, req := range ext.Require {
		for _, cmd := range req.Commands {
			if cmd.Name != "" {
				entry.Commands = append(entry.Commands, cmd.Name)
			}
		}
		for _, enum := range req.Enums {
			if enum.Name != "" && enum.Extends == "" {
				entry.Constants = append(entry.Constants, enum.Name)
			}
		}
		for _, ty := range req.Types {
			switch {
			case IsFeaturesStruct(ty.Name):
				entry.FeaturesStruct = &ty.Name
			case IsPropertiesStruct(ty.Name):
				entry.PropertiesStruct = &ty.Name
			}
		}
	}
	return entry
}

// InRegistry reports whether name is a registered, non-disabled extension.
func (r *Registry) InRegistry(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Entry returns the entry for name. The second result is false when the
// extension is unknown or disabled.
func (r *Registry) Entry(name string) (*Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns the extension names in document order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.names)
}

// Entries returns all entries in document order.
func (r *Registry) Entries() []*Entry {
	out := make([]*Entry, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.entries[name])
	}
	return out
}

// Match returns the names matching a glob such as "VK_KHR_*", in document order.
func (r *Registry) Match(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	var out []string
	for _, name := range r.names {
		if ok, _ := doublestar.Match(pattern, name); ok {
			out = append(out, name)
		}
	}
	return out, nil
}

// ParsePromotedTo parses "VK_VERSION_x_y" into x and y. Any other value,
// including promotion to another extension, reports false.
func ParsePromotedTo(promotedTo string) (APIVersion, bool) {
	if !strings.HasPrefix(promotedTo, versionPrefix) {
		return APIVersion{}, false
	}
	parts := strings.Split(promotedTo, "_")
	if len(parts) < 2 {
		return APIVersion{}, false
	}
	major, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return APIVersion{}, false
	}
	minor, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return APIVersion{}, false
	}
	return APIVersion{Major: major, Minor: minor}, true
}

// IsFeaturesStruct reports whether name looks like VkPhysicalDevice*Features*.
func IsFeaturesStruct(name string) bool {
	return featuresPattern.MatchString(name)
}

// IsPropertiesStruct reports whether name looks like VkPhysicalDevice*Properties*.
func IsPropertiesStruct(name string) bool {
	return propertiesPattern.MatchString(name)
}
