// Package deps defines the buildable-unit descriptor, the recipe capability
// interface recipes implement, and catalog selection.
package deps

import (
	"path"
	"strings"

	"github.com/depforge/depforge/internal/platform"
)

// Dependency is the static descriptor of one buildable unit. Immutable
// after catalog construction; only its Recipe performs side effects.
type Dependency struct {
	Name       string // unique key
	Version    string
	URLPattern string // source archive URL; "{version}" is interpolated
	BuildGroup Group
	License    string

	// DirName is the extracted source directory name under src/.
	// Empty means "<name>-<version>".
	DirName string

	// RecipeSource is the basename (without extension) of the recipe file
	// tracked by the fingerprint. Empty means the dependency name. Recipes
	// that share one source file share one RecipeSource.
	RecipeSource string

	// CopySources requests building from a fresh mirror of the extracted
	// source tree instead of building in place.
	CopySources bool

	// Patches are applied to the extracted sources by the download
	// manager, with PatchStrip as the -p level.
	Patches    []string
	PatchStrip int

	Recipe Recipe
}

// SourceDirName returns the name of the extracted source directory.
func (d *Dependency) SourceDirName() string {
	if d.DirName != "" {
		return d.DirName
	}
	return d.Name + "-" + d.Version
}

// DownloadURL returns the archive URL with the version interpolated.
func (d *Dependency) DownloadURL() string {
	return strings.ReplaceAll(d.URLPattern, "{version}", d.Version)
}

// ArchiveName returns the basename of the source archive, or "" when the
// dependency has no archive to download.
func (d *Dependency) ArchiveName() string {
	if d.URLPattern == "" {
		return ""
	}
	return path.Base(d.DownloadURL())
}

// RecipeFile returns the repository-relative basename of the recipe
// source file used as a fingerprint input.
func (d *Dependency) RecipeFile() string {
	name := d.RecipeSource
	if name == "" {
		name = d.Name
	}
	return name + ".go"
}

// Recipe is the build operation of one dependency. The scheduler and
// executor depend only on this interface, never on concrete recipe types.
// Build runs with the working directory set to the prepared build
// directory and the flag environment exported.
type Recipe interface {
	Build(h Host, d *Dependency) error
}

// Optional recipe capabilities. The executor and flag composition check
// for these; absent means no additions.
type (
	// CompilerFlagsProvider adds flags applied to both C and C++ compiles.
	CompilerFlagsProvider interface {
		AdditionalCompilerFlags(h Host) []string
	}
	CFlagsProvider interface {
		AdditionalCFlags(h Host) []string
	}
	CXXFlagsProvider interface {
		AdditionalCXXFlags(h Host) []string
	}
	LDFlagsProvider interface {
		AdditionalLDFlags(h Host) []string
	}
	// CMakeArgsProvider adds arguments to the cmake configure invocation.
	CMakeArgsProvider interface {
		AdditionalCMakeArgs(h Host) []string
	}
	// InstallPrefixProvider overrides the default per-configuration
	// install prefix (e.g. the bundled libc++ installs under a
	// libcxx/ subdirectory).
	InstallPrefixProvider interface {
		InstallPrefix(h Host) string
	}
)

// Host provides the services a recipe may use while building. It is
// implemented by the build executor; the environment (CFLAGS etc.) is
// already materialized when Build is called.
type Host interface {
	BuildType() BuildType
	Platform() platform.Info
	Compiler() platform.Compiler
	Jobs() int
	DylibSuffix() string

	// InstallPrefix resolves the install prefix for a dependency,
	// honoring InstallPrefixProvider.
	InstallPrefix(d *Dependency) string
	// DefaultInstallPrefix is the per-configuration prefix without any
	// per-dependency override. InstallPrefixProvider implementations
	// derive their prefix from this.
	DefaultInstallPrefix() string
	// CommonInstallPrefix is the prefix of the common configuration,
	// where baseline libraries like openssl land.
	CommonInstallPrefix() string
	SourceDir(d *Dependency) string

	// Base flag snapshots for recipes that render their own build
	// configuration (e.g. boost's project-config.jam).
	CompilerFlags() []string
	CXXFlags() []string
	LDFlags() []string

	// ConfigureBuild drives an autotools-style configure/make/install.
	ConfigureBuild(d *Dependency, opts ConfigureOptions) error
	// CMakeBuild drives a cmake configure/build/install, including the
	// post-build sanitizer flag verification.
	CMakeBuild(d *Dependency, opts CMakeOptions) error
	// RunCommand executes one external command in the current directory,
	// logging its output under the dependency's log prefix.
	RunCommand(logPrefix string, args ...string) error
}

// ConfigureOptions parameterizes Host.ConfigureBuild.
type ConfigureOptions struct {
	ExtraArgs      []string
	ConfigureCmd   []string // default {"./configure"}
	InstallTargets []string // default {"install"}; nil-able via SkipInstall
	SkipInstall    bool
	RunAutogen     bool
	Autoconf       bool
	SrcSubdir      string
}

// CMakeOptions parameterizes Host.CMakeBuild.
type CMakeOptions struct {
	ExtraArgs          []string
	SrcSubdir          string
	ExtraBuildToolArgs []string
	SkipInstall        bool
	InstallTargets     []string // default {"install"}
	NoNinja            bool     // force make even when ninja is available
}
