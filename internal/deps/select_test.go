package deps

import (
	"errors"
	"strings"
	"testing"

	"github.com/depforge/depforge/internal/faults"
)

func catalogOf(names ...string) []*Dependency {
	out := make([]*Dependency, len(names))
	for i, name := range names {
		out[i] = &Dependency{Name: name, Version: "1.0"}
	}
	return out
}

func namesOf(list []*Dependency) []string {
	out := make([]string, len(list))
	for i, d := range list {
		out[i] = d.Name
	}
	return out
}

func TestSelectFullCatalog(t *testing.T) {
	all := catalogOf("zlib", "openssl", "glog")
	got, err := Select(all, nil, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("selected %v, want the full catalog", namesOf(got))
	}
}

func TestSelectIncludePreservesCatalogOrder(t *testing.T) {
	all := catalogOf("zlib", "openssl", "glog")
	got, err := Select(all, []string{"glog", "zlib"}, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if names := namesOf(got); len(names) != 2 || names[0] != "zlib" || names[1] != "glog" {
		t.Errorf("selected %v, want [zlib glog] in catalog order", names)
	}
}

func TestSelectSkip(t *testing.T) {
	all := catalogOf("zlib", "openssl", "glog")
	got, err := Select(all, nil, []string{"openssl"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if names := namesOf(got); len(names) != 2 || names[0] != "zlib" || names[1] != "glog" {
		t.Errorf("selected %v, want [zlib glog]", names)
	}
}

func TestSelectIncludeAndSkipAreExclusive(t *testing.T) {
	all := catalogOf("zlib")
	_, err := Select(all, []string{"zlib"}, []string{"zlib"})
	var ce *faults.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConfigError, got %v", err)
	}
}

func TestSelectUnknownIncludeListsValidNames(t *testing.T) {
	all := catalogOf("zlib", "openssl")
	_, err := Select(all, []string{"libfoo"}, nil)
	var ce *faults.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConfigError, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "libfoo") || !strings.Contains(msg, "    openssl\n    zlib") {
		t.Errorf("error does not list valid names: %q", msg)
	}
}

func TestSelectUnknownSkip(t *testing.T) {
	all := catalogOf("zlib")
	_, err := Select(all, nil, []string{"libfoo", "libbar"})
	var ce *faults.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConfigError, got %v", err)
	}
	if !strings.Contains(err.Error(), "libbar, libfoo") {
		t.Errorf("error does not name the unknown skips sorted: %q", err)
	}
}

func TestParseBuildType(t *testing.T) {
	for _, s := range []string{"common", "uninstrumented", "asan", "tsan"} {
		if _, err := ParseBuildType(s); err != nil {
			t.Errorf("ParseBuildType(%q): %v", s, err)
		}
	}
	_, err := ParseBuildType("release")
	var ce *faults.ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("ParseBuildType(release) = %v, want ConfigError", err)
	}
}

func TestBuildTypeGroups(t *testing.T) {
	if TypeCommon.Group() != GroupCommon {
		t.Errorf("common build type not in common group")
	}
	for _, bt := range []BuildType{TypeUninstrumented, TypeASAN, TypeTSAN} {
		if bt.Group() != GroupInstrumented {
			t.Errorf("%s not in instrumented group", bt)
		}
	}
	if TypeUninstrumented.Sanitizer() || !TypeASAN.Sanitizer() || !TypeTSAN.Sanitizer() {
		t.Errorf("sanitizer classification wrong")
	}
}

func TestDependencyAccessors(t *testing.T) {
	d := &Dependency{
		Name:       "lz4",
		Version:    "1.9.2",
		URLPattern: "https://github.com/lz4/lz4/archive/v{version}.tar.gz",
	}
	if got, want := d.DownloadURL(), "https://github.com/lz4/lz4/archive/v1.9.2.tar.gz"; got != want {
		t.Errorf("DownloadURL = %q, want %q", got, want)
	}
	if got, want := d.ArchiveName(), "v1.9.2.tar.gz"; got != want {
		t.Errorf("ArchiveName = %q, want %q", got, want)
	}
	if got, want := d.SourceDirName(), "lz4-1.9.2"; got != want {
		t.Errorf("SourceDirName = %q, want %q", got, want)
	}
	if got, want := d.RecipeFile(), "lz4.go"; got != want {
		t.Errorf("RecipeFile = %q, want %q", got, want)
	}

	shared := &Dependency{Name: "llvm1x_libcxxabi", RecipeSource: "llvm1x_libcxx", DirName: "libcxxabi-11.1.0.src"}
	if got, want := shared.RecipeFile(), "llvm1x_libcxx.go"; got != want {
		t.Errorf("RecipeFile = %q, want %q", got, want)
	}
	if got, want := shared.SourceDirName(), "libcxxabi-11.1.0.src"; got != want {
		t.Errorf("SourceDirName = %q, want %q", got, want)
	}
}
