package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/depforge/depforge/internal/faults"
)

// Family identifies a compiler family.
type Family string

const (
	FamilyGCC   Family = "gcc"
	FamilyClang Family = "clang"
)

// Compiler describes the toolchain selected for a run.
type Compiler struct {
	Family Family
	// SingleFamily is true when the build uses exclusively one compiler
	// family. When false, gcc builds the common group and clang is only
	// activated for instrumented configurations.
	SingleFamily bool
	Prefix       string // directory whose bin/ subdirectory holds the compilers
	Suffix       string // executable name suffix, e.g. "-15"
	Version      string // full version, e.g. "15.0.7"
	// RuntimeLibDir is the clang compiler-rt library directory. Probed
	// once at detection time for clang-only builds on Linux with a
	// modern major version.
	RuntimeLibDir string
}

// MajorVersion returns the major component of Version, or 0 if the
// version is not a valid semantic version.
func (c Compiler) MajorVersion() int {
	major := semver.Major("v" + c.Version)
	if major == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(major, "v"))
	if err != nil {
		return 0
	}
	return n
}

// UseOnlyClang reports whether every configuration is built with clang.
func (c Compiler) UseOnlyClang() bool {
	return c.SingleFamily && c.Family == FamilyClang
}

// ActiveFamily returns the family used for a configuration. In the dual
// (non-single-family) setup, clang is only used for sanitizer builds.
func (c Compiler) ActiveFamily(sanitizer bool) Family {
	if c.SingleFamily {
		return c.Family
	}
	if sanitizer {
		return FamilyClang
	}
	return FamilyGCC
}

// CCompiler returns the path or name of the C compiler executable.
func (c Compiler) CCompiler() string {
	name := "gcc"
	if c.Family == FamilyClang {
		name = "clang"
	}
	return c.executable(name)
}

// CXXCompiler returns the path or name of the C++ compiler executable.
func (c Compiler) CXXCompiler() string {
	name := "g++"
	if c.Family == FamilyClang {
		name = "clang++"
	}
	return c.executable(name)
}

func (c Compiler) executable(name string) string {
	name += c.Suffix
	if c.Prefix != "" {
		return filepath.Join(c.Prefix, "bin", name)
	}
	return name
}

// DetectOptions configures compiler detection. The probe functions can be
// replaced in tests; nil selects the exec-based defaults.
type DetectOptions struct {
	SingleFamily    string // "", "gcc" or "clang"
	Prefix          string
	Suffix          string
	ExpectedMajor   int
	VersionProbe    func(compilerPath string) (string, error)
	RuntimeDirProbe func(compilerPath string) (string, error)
}

// Detect builds the Compiler description for a run from the requested
// options and the probed compiler version.
func Detect(host Info, opts DetectOptions) (Compiler, error) {
	c := Compiler{
		Family: FamilyGCC,
		Prefix: opts.Prefix,
		Suffix: opts.Suffix,
	}
	switch opts.SingleFamily {
	case "":
		// Dual-compiler setup: gcc for common, clang for sanitizers.
	case "gcc", "clang":
		c.Family = Family(opts.SingleFamily)
		c.SingleFamily = true
	default:
		return Compiler{}, faults.Configf(
			"invalid compiler family %q (expected gcc or clang)", opts.SingleFamily)
	}

	probe := opts.VersionProbe
	if probe == nil {
		probe = probeVersion
	}
	version, err := probe(c.CCompiler())
	if err != nil {
		return Compiler{}, fmt.Errorf("probe compiler version: %w", err)
	}
	if !semver.IsValid("v" + version) {
		return Compiler{}, faults.Configf(
			"cannot parse version %q reported by %s", version, c.CCompiler())
	}
	c.Version = version

	if opts.ExpectedMajor != 0 && c.MajorVersion() != opts.ExpectedMajor {
		return Compiler{}, faults.Configf(
			"compiler major version mismatch: expected %d, %s reports %s",
			opts.ExpectedMajor, c.CCompiler(), version)
	}

	if host.IsLinux() && c.UseOnlyClang() && c.MajorVersion() >= 10 {
		dirProbe := opts.RuntimeDirProbe
		if dirProbe == nil {
			dirProbe = probeClangRuntimeDir
		}
		dir, err := dirProbe(c.CCompiler())
		if err != nil {
			return Compiler{}, fmt.Errorf("probe clang runtime library dir: %w", err)
		}
		c.RuntimeLibDir = dir
	}
	return c, nil
}

var versionRE = regexp.MustCompile(`(\d+\.\d+\.\d+)`)

// probeVersion runs the compiler with --version and extracts the first
// dotted version number from its output.
func probeVersion(compilerPath string) (string, error) {
	out, err := exec.Command(compilerPath, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", compilerPath, err)
	}
	m := versionRE.Find(out)
	if m == nil {
		return "", fmt.Errorf("no version number in output of %s --version", compilerPath)
	}
	return string(m), nil
}

// probeClangRuntimeDir locates the compiler-rt library directory of a
// clang installation.
func probeClangRuntimeDir(compilerPath string) (string, error) {
	out, err := exec.Command(compilerPath, "-print-resource-dir").Output()
	if err != nil {
		return "", fmt.Errorf("%s -print-resource-dir: %w", compilerPath, err)
	}
	resourceDir := strings.TrimSpace(string(out))
	if resourceDir == "" {
		return "", fmt.Errorf("%s -print-resource-dir produced no output", compilerPath)
	}
	return filepath.Join(resourceDir, "lib", "linux"), nil
}
