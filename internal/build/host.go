package build

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/depforge/depforge/internal/deps"
	"github.com/depforge/depforge/internal/platform"
	"github.com/depforge/depforge/pkgs/buildsys"
	"github.com/depforge/depforge/pkgs/buildsys/autotools"
	"github.com/depforge/depforge/pkgs/buildsys/cmake"
)

// The orchestrator is the Host recipes build against. Recipes run with
// the working directory set to their prepared build directory and the
// flag environment already exported.
var _ deps.Host = (*Orchestrator)(nil)

func (o *Orchestrator) BuildType() deps.BuildType { return o.buildType }

func (o *Orchestrator) Platform() platform.Info { return o.plat }

func (o *Orchestrator) Compiler() platform.Compiler { return o.activeCompiler() }

func (o *Orchestrator) Jobs() int { return o.jobs() }

func (o *Orchestrator) DylibSuffix() string { return o.fset.DylibSuffix }

func (o *Orchestrator) DefaultInstallPrefix() string {
	return o.lay.InstallPrefix(o.buildType)
}

func (o *Orchestrator) CommonInstallPrefix() string {
	return o.lay.InstallPrefix(deps.TypeCommon)
}

func (o *Orchestrator) InstallPrefix(d *deps.Dependency) string {
	if p, ok := d.Recipe.(deps.InstallPrefixProvider); ok {
		return p.InstallPrefix(o)
	}
	return o.DefaultInstallPrefix()
}

func (o *Orchestrator) SourceDir(d *deps.Dependency) string {
	return o.lay.SourceDir(d)
}

func (o *Orchestrator) CompilerFlags() []string {
	return append([]string(nil), o.fset.Compiler...)
}

func (o *Orchestrator) CXXFlags() []string {
	return append([]string(nil), o.fset.CXX...)
}

func (o *Orchestrator) LDFlags() []string {
	return append([]string(nil), o.fset.LD...)
}

func (o *Orchestrator) RunCommand(logPrefix string, args ...string) error {
	return buildsys.Run(logPrefix, "", nil, args...)
}

func (o *Orchestrator) logPrefix(d *deps.Dependency) string {
	return fmt.Sprintf("%s (%s)", d.Name, o.buildType)
}

// ConfigureBuild drives an autotools build in the current (build)
// directory, which holds a mirror of the sources for CopySources
// dependencies.
func (o *Orchestrator) ConfigureBuild(d *deps.Dependency, opts deps.ConfigureOptions) error {
	dir := "."
	if opts.SrcSubdir != "" {
		dir = opts.SrcSubdir
	}
	tool := &autotools.Tool{
		Dir:          dir,
		Prefix:       o.InstallPrefix(d),
		Jobs:         o.jobs(),
		LogPrefix:    o.logPrefix(d),
		ConfigureCmd: opts.ConfigureCmd,
		RunAutogen:   opts.RunAutogen,
		Autoconf:     opts.Autoconf,
	}
	if err := tool.Configure(opts.ExtraArgs...); err != nil {
		return err
	}
	if err := tool.Build(); err != nil {
		return err
	}
	if opts.SkipInstall {
		return nil
	}
	return tool.Install(opts.InstallTargets...)
}

// CMakeBuild drives an out-of-tree cmake build in the current (build)
// directory and verifies that sanitizer configurations actually reached
// the compiler.
func (o *Orchestrator) CMakeBuild(d *deps.Dependency, opts deps.CMakeOptions) error {
	srcPath := o.lay.SourceDir(d)
	if opts.SrcSubdir != "" {
		srcPath = filepath.Join(srcPath, opts.SrcSubdir)
	}

	args := o.commonCMakeArgs(d)
	args = append(args, opts.ExtraArgs...)
	if p, ok := d.Recipe.(deps.CMakeArgsProvider); ok {
		args = append(args, p.AdditionalCMakeArgs(o)...)
	}
	if !hasArgWithPrefix(args, "-DBUILD_SHARED_LIBS=") {
		args = append(args, "-DBUILD_SHARED_LIBS=ON")
	}

	generator := ""
	if !opts.NoNinja && buildsys.NinjaAvailable() {
		generator = "Ninja"
	}
	tool := &cmake.Tool{
		SourceDir: srcPath,
		Generator: generator,
		Jobs:      o.jobs(),
		LogPrefix: o.logPrefix(d),
		Args:      args,
	}
	if err := tool.Configure(); err != nil {
		return err
	}
	if err := tool.Build(opts.ExtraBuildToolArgs...); err != nil {
		return err
	}
	if !opts.SkipInstall {
		if err := tool.Install(opts.InstallTargets...); err != nil {
			return err
		}
	}
	switch o.buildType {
	case deps.TypeASAN:
		return tool.VerifyCompileCommands("-fsanitize=address", "-fsanitize=undefined")
	case deps.TypeTSAN:
		return tool.VerifyCompileCommands("-fsanitize=thread")
	}
	return nil
}

// commonCMakeArgs renders the effective flags for a dependency as cmake
// command-line definitions.
func (o *Orchestrator) commonCMakeArgs(d *deps.Dependency) []string {
	return []string{
		"-DCMAKE_C_FLAGS=" + strings.Join(o.fset.EffectiveCFlags(d, o), " "),
		"-DCMAKE_CXX_FLAGS=" + strings.Join(o.fset.EffectiveCXXFlags(d, o), " "),
		"-DCMAKE_SHARED_LINKER_FLAGS=" + strings.Join(o.fset.EffectiveLDFlags(d, o), " "),
		"-DCMAKE_EXE_LINKER_FLAGS=" + strings.Join(o.fset.EffectiveExecutableLDFlags(d, o), " "),
		"-DCMAKE_EXPORT_COMPILE_COMMANDS=ON",
		"-DCMAKE_INSTALL_PREFIX=" + o.InstallPrefix(d),
		"-DCMAKE_POSITION_INDEPENDENT_CODE=ON",
	}
}

func hasArgWithPrefix(args []string, prefix string) bool {
	for _, a := range args {
		if strings.HasPrefix(a, prefix) {
			return true
		}
	}
	return false
}
