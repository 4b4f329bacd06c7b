package recipes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/depforge/depforge/internal/deps"
	"github.com/depforge/depforge/internal/platform"
)

func boost() *deps.Dependency {
	return &deps.Dependency{
		Name:        "boost",
		Version:     "1.69.0",
		URLPattern:  "https://boostorg.jfrog.io/artifactory/main/release/{version}/source/boost_1_69_0.tar.bz2",
		BuildGroup:  deps.GroupInstrumented,
		License:     "BSL-1.0",
		DirName:     "boost_1_69_0",
		CopySources: true,
		Patches: []string{
			"boost-1-69-remove-pending-integer_log2-include.patch",
			"boost-1-69-mac-compiler-flags.patch",
		},
		PatchStrip: 1,
		Recipe:     boostRecipe{},
	}
}

// Only the libraries with separately compiled parts are built; everything
// else in boost is header-only and comes along with the install step.
var boostLibs = []string{"system", "thread", "atomic", "chrono", "date_time", "regex"}

type boostRecipe struct{}

func (boostRecipe) Build(h deps.Host, d *deps.Dependency) error {
	logPrefix := fmt.Sprintf("%s (%s)", d.Name, h.BuildType())
	prefix := h.InstallPrefix(d)

	// The library selection goes into project-config.jam, not onto the
	// bootstrap command line: bootstrap.sh overwrites its library list on
	// every --with-libraries occurrence, and the jam rewrite below
	// replaces its guesses anyway.
	if err := h.RunCommand(logPrefix, "./bootstrap.sh", "--prefix="+prefix); err != nil {
		return err
	}
	if err := writeBoostToolset(h); err != nil {
		return err
	}
	if err := h.RunCommand(logPrefix, "./b2", "install", "cxxstd=14",
		fmt.Sprintf("-j%d", h.Jobs())); err != nil {
		return err
	}
	if h.Platform().IsMacOS() {
		return fixBoostInstallNames(h, prefix)
	}
	return nil
}

// writeBoostToolset rewrites the bootstrap-generated project-config.jam,
// replacing its toolset guess and library list with the orchestrated
// compiler, the derived flag environment, and the declared boostLibs.
// b2 ignores CXXFLAGS/LDFLAGS, so the flags have to be spelled out in
// the jam file.
func writeBoostToolset(h deps.Host) error {
	const configFile = "project-config.jam"
	data, err := os.ReadFile(configFile)
	if err != nil {
		return err
	}
	var kept []string
	skipping := false
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "using ") ||
			strings.HasPrefix(trimmed, "libraries =") ||
			strings.HasPrefix(trimmed, "project : default-build") {
			skipping = !strings.HasSuffix(trimmed, ";")
			continue
		}
		if skipping {
			skipping = !strings.HasSuffix(trimmed, ";")
			continue
		}
		kept = append(kept, line)
	}

	comp := h.Compiler()
	toolset := "gcc"
	if comp.Family == platform.FamilyClang {
		toolset = "clang"
	}
	compileFlags := append(h.CompilerFlags(), h.CXXFlags()...)
	var b strings.Builder
	b.WriteString(strings.Join(kept, "\n"))
	b.WriteString("\nlibraries =")
	for _, lib := range boostLibs {
		b.WriteString(" --with-" + lib)
	}
	b.WriteString(" ;\n")
	fmt.Fprintf(&b, "using %s : : %s :\n", toolset, comp.CXXCompiler())
	for _, f := range compileFlags {
		fmt.Fprintf(&b, "    <compileflags>%q\n", f)
	}
	for _, f := range h.LDFlags() {
		fmt.Fprintf(&b, "    <linkflags>%q\n", f)
	}
	b.WriteString("    ;\n")
	return os.WriteFile(configFile, []byte(b.String()), 0o644)
}

// fixBoostInstallNames rewrites the install names of the built dylibs to
// absolute paths. b2 installs them with bare basenames, which breaks
// anything that links boost without -rpath tricks.
func fixBoostInstallNames(h deps.Host, prefix string) error {
	libDir := filepath.Join(prefix, "lib")
	pattern := filepath.Join(libDir, "libboost_*."+h.DylibSuffix())
	libs, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}
	for _, lib := range libs {
		if err := h.RunCommand("boost", "install_name_tool", "-id", lib, lib); err != nil {
			return err
		}
		for _, other := range libs {
			if other == lib {
				continue
			}
			if err := h.RunCommand("boost", "install_name_tool", "-change",
				filepath.Base(other), other, lib); err != nil {
				return err
			}
		}
	}
	return nil
}
