// Package version models Vulkan API versions and the strings derived from them
// for code generation: VK_MAKE_VERSION invocations, struct suffixes and the
// sType enumerants of core-promoted capability structs.
package version

import (
	"fmt"
	"strconv"

	"github.com/Masterminds/semver/v3"
)

// Version is an API version together with the version used to name the
// core capability structs (VkPhysicalDeviceVulkan12Features and friends).
type Version struct {
	Device    [3]int
	StructVer [2]int
}

// New returns a Version whose struct version is the device major.minor.
func New(major, minor, patch int) Version {
	return Version{
		Device:    [3]int{major, minor, patch},
		StructVer: [2]int{major, minor},
	}
}

// NewWithStruct returns a Version with an explicit struct version. Used for
// versions whose capability structs were not bumped, e.g. 1.0 reusing the
// 1.1 structs.
func NewWithStruct(device [3]int, structVer [2]int) Version {
	return Version{Device: device, StructVer: structVer}
}

// FromAPI returns the Version for a promotion target such as VK_VERSION_1_2.
func FromAPI(major, minor int) Version {
	return New(major, minor, 0)
}

// Parse parses "major.minor" or "major.minor.patch".
func Parse(s string) (Version, error) {
	sv, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	if sv.Prerelease() != "" || sv.Metadata() != "" {
		return Version{}, fmt.Errorf("invalid version %q: pre-release and build metadata are not API versions", s)
	}
	return New(int(sv.Major()), int(sv.Minor()), int(sv.Patch())), nil
}

// MakeVersion returns the VK_MAKE_VERSION invocation, e.g. "VK_MAKE_VERSION(1,2,0)".
func (v Version) MakeVersion() string {
	return "VK_MAKE_VERSION(" +
		strconv.Itoa(v.Device[0]) + "," +
		strconv.Itoa(v.Device[1]) + "," +
		strconv.Itoa(v.Device[2]) + ")"
}

// Struct returns the struct version digits, e.g. "12".
func (v Version) Struct() string {
	return strconv.Itoa(v.StructVer[0]) + strconv.Itoa(v.StructVer[1])
}

// SType returns the sType of the core capability struct of the given kind,
// e.g. VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_VULKAN_1_2_FEATURES for kind "FEATURES".
func (v Version) SType(kind string) string {
	return "VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_VULKAN_" +
		strconv.Itoa(v.StructVer[0]) + "_" + strconv.Itoa(v.StructVer[1]) +
		"_" + kind
}

// String returns the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Device[0], v.Device[1], v.Device[2])
}

// Compare orders two versions by device version. It returns -1, 0 or 1.
func (v Version) Compare(other Version) int {
	for i := range v.Device {
		switch {
		case v.Device[i] < other.Device[i]:
			return -1
		case v.Device[i] > other.Device[i]:
			return 1
		}
	}
	return 0
}

// AtLeast reports whether v is the same as or newer than other.
func (v Version) AtLeast(other Version) bool {
	return v.Compare(other) >= 0
}
