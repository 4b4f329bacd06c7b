package recipes

import (
	"os"
	"strings"
	"testing"

	"github.com/depforge/depforge/internal/deps"
	"github.com/depforge/depforge/internal/platform"
)

type fakeHost struct {
	buildType deps.BuildType
	plat      platform.Info
	comp      platform.Compiler
	commands  [][]string
}

func (h *fakeHost) BuildType() deps.BuildType { return h.buildType }

func (h *fakeHost) Platform() platform.Info { return h.plat }

func (h *fakeHost) Compiler() platform.Compiler { return h.comp }

func (h *fakeHost) Jobs() int { return 4 }

func (h *fakeHost) DylibSuffix() string { return "so" }

func (h *fakeHost) DefaultInstallPrefix() string { return "/tp/installed/uninstrumented" }

func (h *fakeHost) CommonInstallPrefix() string { return "/tp/installed/common" }

func (h *fakeHost) CompilerFlags() []string { return []string{"-O2", "-fPIC"} }

func (h *fakeHost) CXXFlags() []string { return []string{"-std=c++14"} }

func (h *fakeHost) LDFlags() []string { return []string{"-L/tp/installed/common/lib"} }

func (h *fakeHost) InstallPrefix(d *deps.Dependency) string {
	if p, ok := d.Recipe.(deps.InstallPrefixProvider); ok {
		return p.InstallPrefix(h)
	}
	return h.DefaultInstallPrefix()
}

func (h *fakeHost) SourceDir(d *deps.Dependency) string {
	return "/tp/src/" + d.SourceDirName()
}

func (h *fakeHost) ConfigureBuild(d *deps.Dependency, opts deps.ConfigureOptions) error {
	return nil
}

func (h *fakeHost) CMakeBuild(d *deps.Dependency, opts deps.CMakeOptions) error {
	return nil
}

func (h *fakeHost) RunCommand(logPrefix string, args ...string) error {
	h.commands = append(h.commands, args)
	return nil
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func TestWriteBoostToolset(t *testing.T) {
	chdir(t, t.TempDir())
	original := `# Boost.Build Configuration
import option ;

using gcc ;

libraries = --with-regex ;

project : default-build <toolset>gcc ;

option.set keep-going : false ;
`
	if err := os.WriteFile("project-config.jam", []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	h := &fakeHost{
		buildType: deps.TypeUninstrumented,
		plat:      platform.Info{OS: "linux", Arch: "amd64", Machine: "x86_64"},
		comp:      platform.Compiler{Family: platform.FamilyClang, SingleFamily: true, Version: "11.1.0"},
	}
	if err := writeBoostToolset(h); err != nil {
		t.Fatalf("writeBoostToolset: %v", err)
	}

	data, err := os.ReadFile("project-config.jam")
	if err != nil {
		t.Fatal(err)
	}
	config := string(data)
	if strings.Contains(config, "using gcc ;") {
		t.Errorf("bootstrap toolset guess survived the rewrite:\n%s", config)
	}
	if strings.Contains(config, "libraries = --with-regex ;") {
		t.Errorf("bootstrap library guess survived the rewrite:\n%s", config)
	}
	if strings.Contains(config, "project : default-build") {
		t.Errorf("bootstrap default-build line survived the rewrite:\n%s", config)
	}
	wantLibs := "libraries = --with-system --with-thread --with-atomic" +
		" --with-chrono --with-date_time --with-regex ;"
	if !strings.Contains(config, wantLibs) {
		t.Errorf("rewritten config missing the full library list %q:\n%s", wantLibs, config)
	}
	if !strings.Contains(config, "using clang : : clang++ :") {
		t.Errorf("rewritten config missing clang toolset:\n%s", config)
	}
	for _, want := range []string{`<compileflags>"-O2"`, `<compileflags>"-std=c++14"`, `<linkflags>"-L/tp/installed/common/lib"`} {
		if !strings.Contains(config, want) {
			t.Errorf("rewritten config missing %s:\n%s", want, config)
		}
	}
	if !strings.Contains(config, "option.set keep-going : false ;") {
		t.Errorf("unrelated configuration lines must survive:\n%s", config)
	}
}

func TestBoostBuildCommands(t *testing.T) {
	chdir(t, t.TempDir())
	original := "using gcc ;\n\nlibraries = --with-regex ;\n"
	if err := os.WriteFile("project-config.jam", []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	h := &fakeHost{
		buildType: deps.TypeUninstrumented,
		plat:      platform.Info{OS: "linux", Arch: "amd64", Machine: "x86_64"},
		comp:      platform.Compiler{Family: platform.FamilyClang, SingleFamily: true, Version: "11.1.0"},
	}
	d := boost()
	if err := d.Recipe.Build(h, d); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(h.commands) != 2 {
		t.Fatalf("ran %d commands, want bootstrap and b2: %v", len(h.commands), h.commands)
	}
	// bootstrap.sh only takes the prefix; its --with-libraries option
	// keeps just the last occurrence, so the selection lives in the jam
	// file instead.
	bootstrap := h.commands[0]
	if bootstrap[0] != "./bootstrap.sh" || len(bootstrap) != 2 ||
		!strings.HasPrefix(bootstrap[1], "--prefix=") {
		t.Errorf("bootstrap command = %v, want ./bootstrap.sh --prefix=...", bootstrap)
	}
	if h.commands[1][0] != "./b2" {
		t.Errorf("second command = %v, want a b2 invocation", h.commands[1])
	}

	config, err := os.ReadFile("project-config.jam")
	if err != nil {
		t.Fatal(err)
	}
	for _, lib := range boostLibs {
		if !strings.Contains(string(config), "--with-"+lib) {
			t.Errorf("jam file does not select %s:\n%s", lib, config)
		}
	}
}

func TestBoostDescriptorCarriesPatches(t *testing.T) {
	d := boost()
	want := []string{
		"boost-1-69-remove-pending-integer_log2-include.patch",
		"boost-1-69-mac-compiler-flags.patch",
	}
	if len(d.Patches) != len(want) {
		t.Fatalf("Patches = %v, want %v", d.Patches, want)
	}
	for i, p := range want {
		if d.Patches[i] != p {
			t.Errorf("Patches[%d] = %q, want %q", i, d.Patches[i], p)
		}
	}
	if d.PatchStrip != 1 {
		t.Errorf("PatchStrip = %d, want 1", d.PatchStrip)
	}
}

func TestInstallPrefixOverrides(t *testing.T) {
	h := &fakeHost{buildType: deps.TypeUninstrumented}
	comp := platform.Compiler{Family: platform.FamilyClang, SingleFamily: true, Version: "11.1.0"}
	byName := names(Catalog(linuxHost, comp))

	if got := h.InstallPrefix(byName["llvm1x_libcxx"]); got != "/tp/installed/uninstrumented/libcxx" {
		t.Errorf("libc++ install prefix = %q", got)
	}
	if got := h.InstallPrefix(byName["llvm1x_libcxxabi"]); got != "/tp/installed/uninstrumented/libcxx" {
		t.Errorf("libc++abi install prefix = %q", got)
	}
	if got := h.InstallPrefix(byName["zlib"]); got != "/tp/installed/uninstrumented" {
		t.Errorf("default install prefix = %q", got)
	}
}
