package flags

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/depforge/depforge/internal/deps"
	"github.com/depforge/depforge/internal/faults"
	"github.com/depforge/depforge/internal/platform"
)

var asanFlags = []string{
	"-fsanitize=address",
	"-fsanitize=undefined",
	"-DADDRESS_SANITIZER",
}

var tsanFlags = []string{
	"-fsanitize=thread",
	"-DTHREAD_SANITIZER",
}

// DeriveInput are the inputs of flag derivation. Derivation is a pure
// function of these values except for the existence probes, which can be
// replaced through Stat.
type DeriveInput struct {
	Platform     platform.Info
	Compiler     platform.Compiler
	BuildType    deps.BuildType
	InstalledDir string // root of the per-build-type install prefixes
	Dep          *deps.Dependency

	// Stat is the existence probe used for runtime-library and libc++
	// checks. Nil means os.Stat.
	Stat func(path string) error
}

func (in *DeriveInput) stat(path string) error {
	if in.Stat != nil {
		return in.Stat(path)
	}
	_, err := os.Stat(path)
	return err
}

// Derive builds the full flag set for one (dependency, build type) pair
// from platform rules, sanitizer additives and toolchain wiring. It never
// reads prior flag state.
func Derive(in DeriveInput) (*Set, error) {
	s := &Set{}

	// Headers and libraries installed by the common configuration are
	// visible to every configuration; instrumented configurations also
	// see their own prefix.
	for _, component := range installComponents(in.BuildType) {
		s.AddIncludePath(filepath.Join(in.InstalledDir, component, "include"))
		s.AddLibDirAndRPath(filepath.Join(in.InstalledDir, component, "lib"))
	}

	// -fPIC applies to static libraries too, so that they can be linked
	// into shared objects later.
	s.Compiler = append(s.Compiler,
		"-fno-omit-frame-pointer", "-fPIC", "-O2", "-Wall")

	switch {
	case in.Platform.IsLinux():
		s.AddRPath(PlaceholderRPath)
		s.DylibSuffix = "so"
	case in.Platform.IsMacOS():
		s.DylibSuffix = "dylib"
		s.CXX = append(s.CXX, "-stdlib=libc++")
		s.LD = append(s.LD, "-lc++", "-lc++abi")
		s.Compiler = append(s.Compiler, "-mmacosx-version-min=10.14")
		s.LD = append(s.LD, "-Wl,-headerpad_max_install_names")
	default:
		return nil, faults.Configf("unsupported platform: %s", in.Platform.OS)
	}

	s.CXX = append(s.CXX, "-std=c++14", "-frtti")

	switch in.BuildType {
	case deps.TypeASAN:
		s.Compiler = append(s.Compiler, asanFlags...)
	case deps.TypeTSAN:
		s.Compiler = append(s.Compiler, tsanFlags...)
	}

	if in.Platform.IsLinux() &&
		in.Compiler.ActiveFamily(in.BuildType.Sanitizer()) == platform.FamilyClang {
		if err := deriveLinuxClang(in, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// installComponents returns the install prefixes whose include/ and lib/
// directories the build type consumes, common first.
func installComponents(bt deps.BuildType) []string {
	if bt == deps.TypeCommon {
		return []string{string(deps.TypeCommon)}
	}
	return []string{string(deps.TypeCommon), string(bt)}
}

func deriveLinuxClang(in DeriveInput, s *Set) error {
	major := in.Compiler.MajorVersion()
	switch {
	case in.Compiler.UseOnlyClang() && major >= 10:
		return deriveLinuxClangModern(in, s)
	case major == 7 || !in.Compiler.SingleFamily:
		deriveLinuxClangLegacy(in, s)
		return nil
	default:
		return faults.Configf("unsupported clang major version: %d", major)
	}
}

// deriveLinuxClangLegacy wires the bundled libc++ built as part of the
// common group. Its include and library paths go at the front of their
// flag lists so they shadow the system standard library.
func deriveLinuxClangLegacy(in DeriveInput, s *Set) {
	if in.BuildType == deps.TypeTSAN {
		// The TSAN runtime is compiled with -fPIE and cannot be linked
		// into -fPIC shared libraries, so it is linked statically into
		// executables only.
		s.ExecutableLD = append(s.ExecutableLD, "-fsanitize=thread")
	}

	stdlibPath := filepath.Join(in.InstalledDir, string(in.BuildType), "libcxx")
	stdlibInclude := filepath.Join(stdlibPath, "include", "c++", "v1")
	stdlibLib := filepath.Join(stdlibPath, "lib")
	s.CXX = append([]string{
		"-Wno-error=unused-command-line-argument",
		"-stdlib=libc++",
		"-isystem", stdlibInclude,
		"-nostdinc++",
	}, s.CXX...)
	s.PrependLibDirAndRPath(stdlibLib)
}

// deriveLinuxClangModern wires clang 10+ with compiler-provided runtime
// libraries (compiler-rt, LLVM libunwind) instead of a bundled one.
func deriveLinuxClangModern(in DeriveInput, s *Set) error {
	s.LD = append(s.LD, "-rtlib=compiler-rt")

	if in.BuildType == deps.TypeCommon {
		return nil
	}

	isLibcxxabi := strings.HasSuffix(in.Dep.Name, "_libcxxabi")
	isLibcxx := strings.HasSuffix(in.Dep.Name, "_libcxx")

	if in.BuildType == deps.TypeASAN {
		s.Compiler = append(s.Compiler, "-shared-libasan")

		if isLibcxxabi {
			// vptr sanitization of libc++abi triggers an infinite loop
			// in UBSAN (chromium issue 609786).
			s.Compiler = append(s.Compiler, "-fno-sanitize=vptr")
		}

		runtimeLibDir := in.Compiler.RuntimeLibDir
		s.AddLibDirAndRPath(runtimeLibDir)
		ubsanLibName := "clang_rt.ubsan_minimal-" + in.Platform.Machine
		ubsanLibPath := filepath.Join(runtimeLibDir, "lib"+ubsanLibName+".so")
		if err := in.stat(ubsanLibPath); err != nil {
			return faults.MissingInput(ubsanLibPath, "UBSAN runtime library")
		}
		s.LD = append(s.LD, "-l"+ubsanLibName)
	}

	s.LD = append(s.LD, "-lunwind")

	libcxxPath := filepath.Join(in.InstalledDir, string(in.BuildType), "libcxx")
	libcxxInclude := filepath.Join(libcxxPath, "include", "c++", "v1")
	libcxxLib := filepath.Join(libcxxPath, "lib")

	if !isLibcxx && !isLibcxxabi {
		s.LD = append(s.LD, "-lc++", "-lc++abi")
		s.CXX = append([]string{
			"-stdlib=libc++",
			"-isystem", libcxxInclude,
			"-nostdinc++",
		}, s.CXX...)
		s.PrependLibDirAndRPath(libcxxLib)
	}

	if isLibcxx {
		// libc++ needs the libc++abi headers and library installed by
		// the preceding catalog entry.
		if err := in.stat(libcxxInclude); err != nil {
			return faults.MissingInput(libcxxInclude, "libc++abi headers")
		}
		s.CXX = append(s.CXX, "-I"+libcxxInclude)
		s.LD = append(s.LD, "-L"+libcxxLib)
	}

	if isLibcxx || isLibcxxabi {
		// libc++abi must find libc++ at runtime even though it is built
		// first and cannot find it at build time.
		s.AddRPath(libcxxLib)
	}

	s.CXX = append(s.CXX, "-Wno-error=unused-command-line-argument")
	return nil
}
