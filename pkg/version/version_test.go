package version

import (
	"testing"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  [3]int
	}{
		{"1.0", [3]int{1, 0, 0}},
		{"1.2", [3]int{1, 2, 0}},
		{"1.3.0", [3]int{1, 3, 0}},
		{"1.2.197", [3]int{1, 2, 197}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if v.Device != tt.want {
				t.Errorf("Device = %v, want %v", v.Device, tt.want)
			}
			if v.StructVer != [2]int{tt.want[0], tt.want[1]} {
				t.Errorf("StructVer = %v, want %v", v.StructVer, tt.want[:2])
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"",
		"abc",
		"1.x",
		"1.2.0-rc1",
		"1.2.0+build",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Errorf("Parse(%q) should return error", input)
			}
		})
	}
}

func TestMakeVersion(t *testing.T) {
	v := New(1, 2, 0)
	if got := v.MakeVersion(); got != "VK_MAKE_VERSION(1,2,0)" {
		t.Errorf("MakeVersion() = %q, want %q", got, "VK_MAKE_VERSION(1,2,0)")
	}
}

func TestStruct(t *testing.T) {
	tests := []struct {
		v    Version
		want string
	}{
		{New(1, 2, 0), "12"},
		{New(1, 3, 0), "13"},
		{NewWithStruct([3]int{1, 0, 0}, [2]int{1, 1}), "11"},
	}
	for _, tt := range tests {
		if got := tt.v.Struct(); got != tt.want {
			t.Errorf("%v.Struct() = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestSType(t *testing.T) {
	v := New(1, 2, 0)
	if got := v.SType("FEATURES"); got != "VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_VULKAN_1_2_FEATURES" {
		t.Errorf("SType(FEATURES) = %q", got)
	}

	// struct version overrides the device version
	v = NewWithStruct([3]int{1, 0, 0}, [2]int{1, 1})
	if got := v.SType("PROPERTIES"); got != "VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_VULKAN_1_1_PROPERTIES" {
		t.Errorf("SType(PROPERTIES) = %q", got)
	}
}

func TestString(t *testing.T) {
	if got := FromAPI(1, 3).String(); got != "1.3.0" {
		t.Errorf("String() = %q, want 1.3.0", got)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b Version
		want int
	}{
		{New(1, 2, 0), New(1, 2, 0), 0},
		{New(1, 1, 0), New(1, 2, 0), -1},
		{New(1, 3, 0), New(1, 2, 5), 1},
		{New(1, 2, 1), New(1, 2, 0), 1},
		{New(2, 0, 0), New(1, 9, 9), 1},
	}
	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}

	if !New(1, 2, 0).AtLeast(New(1, 2, 0)) {
		t.Error("1.2.0 should be at least 1.2.0")
	}
	if New(1, 1, 0).AtLeast(New(1, 2, 0)) {
		t.Error("1.1.0 should not be at least 1.2.0")
	}
}
