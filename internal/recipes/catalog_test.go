package recipes

import (
	"testing"

	"github.com/depforge/depforge/internal/deps"
	"github.com/depforge/depforge/internal/platform"
)

var (
	linuxHost = platform.Info{OS: "linux", Arch: "amd64", Machine: "x86_64"}
	macHost   = platform.Info{OS: "darwin", Arch: "arm64", Machine: "arm64"}
)

func names(list []*deps.Dependency) map[string]*deps.Dependency {
	out := make(map[string]*deps.Dependency, len(list))
	for _, d := range list {
		out[d.Name] = d
	}
	return out
}

func TestCatalogLinuxModernClang(t *testing.T) {
	comp := platform.Compiler{Family: platform.FamilyClang, SingleFamily: true, Version: "11.1.0"}
	cat := Catalog(linuxHost, comp)
	byName := names(cat)

	for _, want := range []string{"llvm1x_libunwind", "llvm1x_libcxxabi", "llvm1x_libcxx"} {
		if byName[want] == nil {
			t.Errorf("catalog missing %s", want)
		}
	}
	if byName["libunwind"] != nil {
		t.Errorf("modern clang catalog must not carry the nongnu libunwind")
	}
	if d := byName["llvm1x_libcxx"]; d != nil && d.Version != "11.1.0" {
		t.Errorf("llvm runtime version %q does not follow the compiler", d.Version)
	}
}

func TestCatalogLinuxGCC(t *testing.T) {
	comp := platform.Compiler{Family: platform.FamilyGCC, SingleFamily: true, Version: "9.3.0"}
	byName := names(Catalog(linuxHost, comp))
	if byName["libunwind"] == nil {
		t.Errorf("gcc catalog missing libunwind")
	}
	if byName["llvm1x_libcxx"] != nil {
		t.Errorf("gcc catalog must not build the LLVM runtime")
	}
	for _, want := range []string{"libuuid", "libbacktrace"} {
		if byName[want] == nil {
			t.Errorf("linux catalog missing %s", want)
		}
	}
}

func TestCatalogMacOS(t *testing.T) {
	comp := platform.Compiler{Family: platform.FamilyClang, SingleFamily: true, Version: "12.0.5"}
	byName := names(Catalog(macHost, comp))
	for _, linuxOnly := range []string{"libuuid", "libunwind", "libbacktrace", "llvm1x_libcxx"} {
		if byName[linuxOnly] != nil {
			t.Errorf("macOS catalog must not carry %s", linuxOnly)
		}
	}
	for _, want := range []string{"zlib", "openssl", "boost", "cassandra_cpp_driver"} {
		if byName[want] == nil {
			t.Errorf("macOS catalog missing %s", want)
		}
	}
}

func TestCatalogOrderingAndGroups(t *testing.T) {
	comp := platform.Compiler{Family: platform.FamilyClang, SingleFamily: true, Version: "11.1.0"}
	cat := Catalog(linuxHost, comp)

	index := make(map[string]int, len(cat))
	for i, d := range cat {
		if prev, dup := index[d.Name]; dup {
			t.Fatalf("duplicate catalog entry %s at %d and %d", d.Name, prev, i)
		}
		index[d.Name] = i
	}

	// Link-order constraints: a library must come after what it links.
	ordered := [][2]string{
		{"openssl", "curl"},
		{"llvm1x_libcxxabi", "llvm1x_libcxx"},
		{"llvm1x_libunwind", "llvm1x_libcxxabi"},
		{"gflags", "glog"},
		{"libuv", "cassandra_cpp_driver"},
		{"openssl", "cassandra_cpp_driver"},
	}
	for _, pair := range ordered {
		if index[pair[0]] >= index[pair[1]] {
			t.Errorf("%s must precede %s", pair[0], pair[1])
		}
	}

	for _, d := range cat {
		if d.Recipe == nil {
			t.Errorf("%s has no recipe", d.Name)
		}
		if d.BuildGroup != deps.GroupCommon && d.BuildGroup != deps.GroupInstrumented {
			t.Errorf("%s has invalid build group %q", d.Name, d.BuildGroup)
		}
	}

	// C libraries everything links against belong to the common group.
	byName := names(cat)
	for _, name := range []string{"zlib", "openssl", "libev", "curl"} {
		if byName[name].BuildGroup != deps.GroupCommon {
			t.Errorf("%s must be in the common group", name)
		}
	}
	for _, name := range []string{"boost", "glog", "llvm1x_libcxx"} {
		if byName[name].BuildGroup != deps.GroupInstrumented {
			t.Errorf("%s must be in the instrumented group", name)
		}
	}
}
