// Package build holds the orchestration core: the configuration
// scheduler that decides which build types run in which order, and the
// executor that drives one (dependency, build type) pair through
// download, flag derivation, rebuild decision and the actual build.
//
// Execution is strictly sequential. Any failure aborts the whole run;
// re-running skips completed pairs through fingerprint matching.
package build

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/qiniu/x/log"

	"github.com/depforge/depforge/internal/deps"
	"github.com/depforge/depforge/internal/download"
	"github.com/depforge/depforge/internal/env"
	"github.com/depforge/depforge/internal/faults"
	"github.com/depforge/depforge/internal/flags"
	"github.com/depforge/depforge/internal/layout"
	"github.com/depforge/depforge/internal/license"
	"github.com/depforge/depforge/internal/platform"
	"github.com/depforge/depforge/internal/stamp"
)

const separator = "--------------------------------------------------------------------------------"

// Options is the validated configuration of one orchestrator run.
type Options struct {
	BuildType           string   // restrict to a single build type ("" = all)
	SkipSanitizers      bool     // never schedule asan/tsan
	Include             []string // explicit dependency names to build
	Skip                []string // dependency names to skip (exclusive with Include)
	Jobs                int      // parallelism passed to make/ninja
	DownloadExtractOnly bool
	Clean               bool
	CleanDownloads      bool
	Verbose             bool
}

// Orchestrator owns all mutable state of a run. It is used from a single
// goroutine; long external tool invocations block it until they exit.
type Orchestrator struct {
	opts     Options
	plat     platform.Info
	comp     platform.Compiler
	lay      *layout.Layout
	stamps   *stamp.Store
	dl       download.Manager
	manifest *license.Manifest

	selected      []*deps.Dependency
	requestedType deps.BuildType // "" means all

	// Per-configuration state, reset by runBuildType / processDependency.
	buildType deps.BuildType
	fset      *flags.Set

	allowedLibPaths []string
	allowedSeen     map[string]bool

	// flagStat overrides the existence probe used during flag
	// derivation. Tests only.
	flagStat func(string) error
}

// New validates the options, selects the dependencies to visit, and
// returns a ready orchestrator. All configuration errors surface here,
// before any download or build step.
func New(opts Options, plat platform.Info, comp platform.Compiler,
	catalog []*deps.Dependency, lay *layout.Layout, stamps *stamp.Store,
	dl download.Manager) (*Orchestrator, error) {

	var requested deps.BuildType
	if opts.BuildType != "" {
		bt, err := deps.ParseBuildType(opts.BuildType)
		if err != nil {
			return nil, err
		}
		requested = bt
	}
	selected, err := deps.Select(catalog, opts.Include, opts.Skip)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		opts:          opts,
		plat:          plat,
		comp:          comp,
		lay:           lay,
		stamps:        stamps,
		dl:            dl,
		manifest:      &license.Manifest{},
		selected:      selected,
		requestedType: requested,
		allowedSeen:   make(map[string]bool),
	}, nil
}

// ConfigurationSequence returns the build types this run will visit, in
// order. The common configuration always runs first and unconditionally:
// it installs the tools and baseline libraries everything downstream
// links against. Sanitizer configurations require Linux with a
// clang-only toolchain and sanitizers not disabled. A requested single
// build type suppresses every other configuration except common.
func (o *Orchestrator) ConfigurationSequence() []deps.BuildType {
	seq := []deps.BuildType{deps.TypeCommon}
	if o.requestedType == deps.TypeCommon {
		return seq
	}
	rest := []deps.BuildType{deps.TypeUninstrumented}
	if o.plat.IsLinux() && o.comp.UseOnlyClang() && !o.opts.SkipSanitizers {
		rest = append(rest, deps.TypeASAN, deps.TypeTSAN)
	}
	for _, bt := range rest {
		if o.requestedType != "" && bt != o.requestedType {
			continue
		}
		seq = append(seq, bt)
	}
	return seq
}

// Run executes the whole schedule and writes the license manifest at the
// end. The first error aborts the run; no fingerprint is persisted for
// the failing pair.
func (o *Orchestrator) Run() error {
	if o.opts.Clean || o.opts.CleanDownloads {
		if err := o.lay.Clean(o.selected, o.opts.CleanDownloads); err != nil {
			return err
		}
	}
	if err := o.lay.PrepareOutDirs(o.opts.Verbose); err != nil {
		return err
	}

	// Tools installed by common-group dependencies (flex, bison, ...)
	// must be visible to later builds.
	commonBin := filepath.Join(o.lay.InstallPrefix(deps.TypeCommon), "bin")
	os.Setenv("PATH", commonBin+string(os.PathListSeparator)+os.Getenv("PATH"))

	seq := o.ConfigurationSequence()
	log.Infof("Full list of build types: %v", seq)
	for _, bt := range seq {
		if err := o.runBuildType(bt); err != nil {
			return err
		}
	}
	return o.manifest.WriteFile(filepath.Join(o.lay.Root, "license_manifest.json"))
}

// runBuildType visits every selected dependency whose build group matches
// the configuration, in catalog order, exactly once.
func (o *Orchestrator) runBuildType(bt deps.BuildType) error {
	o.buildType = bt
	comp := o.activeCompiler()
	color.Yellow("Building %s dependencies (compiler family: %s)", bt, comp.Family)
	log.Infof("C compiler: %s", comp.CCompiler())
	log.Infof("C++ compiler: %s", comp.CXXCompiler())

	for _, d := range o.selected {
		if d.BuildGroup != bt.Group() {
			continue
		}
		if err := o.processDependency(d); err != nil {
			return err
		}
	}
	return nil
}

// processDependency performs the pre-build steps, derives the flag set
// (whose path-accounting side effects must happen even on a skip), and
// builds the dependency unless it is already up to date.
func (o *Orchestrator) processDependency(d *deps.Dependency) error {
	color.Yellow(separator)
	color.Yellow("Building %s (%s)", d.Name, o.buildType)
	color.Yellow(separator)

	if err := o.dl.Download(d, o.lay.SourceDir(d), o.lay.ArchivePath(d)); err != nil {
		return fmt.Errorf("download %s: %w", d.Name, err)
	}
	if archive := d.ArchiveName(); archive != "" {
		sum, _ := o.dl.ExpectedChecksum(archive)
		o.manifest.Add(license.Record{
			Name:     d.Name + "-" + d.Version,
			Type:     "raw",
			Archive:  archive,
			URL:      d.DownloadURL(),
			Checksum: sum,
		})
	}

	fset, err := flags.Derive(flags.DeriveInput{
		Platform:     o.plat,
		Compiler:     o.activeCompiler(),
		BuildType:    o.buildType,
		InstalledDir: o.lay.InstalledDir(),
		Dep:          d,
		Stat:         o.flagStat,
	})
	if err != nil {
		return err
	}
	o.fset = fset

	// Inter-dependency discovery at runtime: every dependency can find
	// libraries installed by this configuration, and instrumented
	// configurations can find the common ones. Recorded even when the
	// build is skipped so path accounting stays consistent.
	o.fset.AddRPath(filepath.Join(o.lay.InstallPrefix(o.buildType), "lib"))
	if o.buildType != deps.TypeCommon {
		o.fset.AddRPath(filepath.Join(o.lay.InstallPrefix(deps.TypeCommon), "lib"))
	}
	o.mergeAllowedPaths(o.fset.AllowedLibPaths())

	upToDate, err := o.stamps.UpToDate(d, o.buildType)
	if err != nil {
		return err
	}
	if upToDate {
		log.Infof("Not rebuilding %s (%s) -- nothing changed.", d.Name, o.buildType)
		return nil
	}
	if o.opts.DownloadExtractOnly {
		log.Infof("Skipping build of %s (%s): download/extract only.", d.Name, o.buildType)
		return nil
	}
	return o.buildDependency(d)
}

// buildDependency prepares the build directory, materializes the flag
// environment for the duration of the recipe invocation, and persists the
// fingerprint on success only.
func (o *Orchestrator) buildDependency(d *deps.Dependency) error {
	buildDir, err := o.prepareBuildDir(d)
	if err != nil {
		return err
	}

	envVars := map[string]string{
		"CC":       o.activeCompiler().CCompiler(),
		"CXX":      o.activeCompiler().CXXCompiler(),
		"CPPFLAGS": strings.Join(o.fset.EffectivePreprocessorFlags(d), " "),
		"CXXFLAGS": strings.Join(o.fset.EffectiveCXXFlags(d, o), " "),
		"CFLAGS":   strings.Join(o.fset.EffectiveCFlags(d, o), " "),
		"LDFLAGS":  strings.Join(o.fset.EffectiveLDFlags(d, o), " "),
		"LIBS":     strings.Join(o.fset.Libs, " "),
	}
	if o.buildType == deps.TypeASAN {
		// Configure-time probe programs leak; leak detection during the
		// build itself would fail the configure step.
		envVars["ASAN_OPTIONS"] = "detect_odr_violation=0:detect_leaks=0"
	}

	err = env.Pushd(buildDir, func() error {
		return env.With(envVars, func() error {
			if err := env.WriteScript("dependency_env.sh", envVars); err != nil {
				return err
			}
			return d.Recipe.Build(o, d)
		})
	})
	if err != nil {
		return fmt.Errorf("build %s (%s): %w", d.Name, o.buildType, err)
	}

	if err := o.stamps.Persist(d, o.buildType); err != nil {
		return err
	}
	log.Infof("Finished building %s (%s)", d.Name, o.buildType)
	return nil
}

// prepareBuildDir returns the directory the recipe runs in. Dependencies
// that build in their source tree get a fresh mirror of the pristine
// sources; out-of-tree builds get an empty directory.
func (o *Orchestrator) prepareBuildDir(d *deps.Dependency) (string, error) {
	srcDir := o.lay.SourceDir(d)
	if _, err := os.Stat(srcDir); err != nil {
		return "", faults.MissingInput(srcDir, "source directory")
	}
	buildDir := o.lay.BuildDir(d, o.buildType)
	if d.CopySources {
		log.Infof("Bootstrapping %s from %s", buildDir, srcDir)
		if err := os.RemoveAll(buildDir); err != nil {
			return "", err
		}
		if err := mirrorTree(srcDir, buildDir); err != nil {
			return "", err
		}
		return buildDir, nil
	}
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		return "", err
	}
	return buildDir, nil
}

func (o *Orchestrator) activeCompiler() platform.Compiler {
	c := o.comp
	c.Family = o.comp.ActiveFamily(o.buildType.Sanitizer())
	return c
}

func (o *Orchestrator) mergeAllowedPaths(paths []string) {
	for _, p := range paths {
		if o.allowedSeen[p] {
			continue
		}
		o.allowedSeen[p] = true
		o.allowedLibPaths = append(o.allowedLibPaths, p)
	}
}

// AllowedLibPaths returns the shared-library search paths collected over
// the whole run, for the packaging/verification step.
func (o *Orchestrator) AllowedLibPaths() []string {
	out := make([]string, len(o.allowedLibPaths))
	copy(out, o.allowedLibPaths)
	return out
}

// Manifest exposes the license manifest accumulated so far.
func (o *Orchestrator) Manifest() *license.Manifest {
	return o.manifest
}

func (o *Orchestrator) jobs() int {
	if o.opts.Jobs > 0 {
		return o.opts.Jobs
	}
	return runtime.NumCPU()
}
