package recipes

import (
	"path/filepath"

	"github.com/depforge/depforge/internal/deps"
)

// The bundled C++ runtime is built per configuration from the LLVM
// release matching the active clang: instrumented standard libraries are
// what make sanitized builds usable. Both halves install under a
// libcxx/ subdirectory of the configuration prefix so they never shadow
// the toolchain's own runtime, and both are fingerprinted against this
// one source file.

func llvm1xLibcxxabi(version string) *deps.Dependency {
	return &deps.Dependency{
		Name:         "llvm1x_libcxxabi",
		Version:      version,
		URLPattern:   "https://github.com/llvm/llvm-project/releases/download/llvmorg-{version}/libcxxabi-{version}.src.tar.xz",
		BuildGroup:   deps.GroupInstrumented,
		License:      "Apache-2.0 WITH LLVM-exception",
		DirName:      "libcxxabi-" + version + ".src",
		RecipeSource: "llvm1x_libcxx",
		Recipe:       llvmLibcxxabiRecipe{},
	}
}

func llvm1xLibcxx(version string) *deps.Dependency {
	return &deps.Dependency{
		Name:         "llvm1x_libcxx",
		Version:      version,
		URLPattern:   "https://github.com/llvm/llvm-project/releases/download/llvmorg-{version}/libcxx-{version}.src.tar.xz",
		BuildGroup:   deps.GroupInstrumented,
		License:      "Apache-2.0 WITH LLVM-exception",
		DirName:      "libcxx-" + version + ".src",
		RecipeSource: "llvm1x_libcxx",
		Recipe:       llvmLibcxxRecipe{},
	}
}

func libcxxPrefix(h deps.Host) string {
	return filepath.Join(h.DefaultInstallPrefix(), "libcxx")
}

type llvmLibcxxabiRecipe struct{}

func (llvmLibcxxabiRecipe) InstallPrefix(h deps.Host) string { return libcxxPrefix(h) }

func (llvmLibcxxabiRecipe) Build(h deps.Host, d *deps.Dependency) error {
	return h.CMakeBuild(d, deps.CMakeOptions{
		ExtraArgs: []string{
			"-DLIBCXXABI_USE_COMPILER_RT=ON",
			"-DLIBCXXABI_USE_LLVM_UNWINDER=ON",
			"-DLIBCXXABI_ENABLE_SHARED=ON",
			"-DLIBCXXABI_ENABLE_STATIC=ON",
		},
	})
}

type llvmLibcxxRecipe struct{}

func (llvmLibcxxRecipe) InstallPrefix(h deps.Host) string { return libcxxPrefix(h) }

func (llvmLibcxxRecipe) Build(h deps.Host, d *deps.Dependency) error {
	return h.CMakeBuild(d, deps.CMakeOptions{
		ExtraArgs: []string{
			"-DLIBCXX_USE_COMPILER_RT=ON",
			"-DLIBCXX_CXX_ABI=libcxxabi",
			"-DLIBCXX_CXX_ABI_INCLUDE_PATHS=" + filepath.Join(libcxxPrefix(h), "include"),
			"-DLIBCXX_CXX_ABI_LIBRARY_PATH=" + filepath.Join(libcxxPrefix(h), "lib"),
			"-DLIBCXX_ENABLE_SHARED=ON",
			"-DLIBCXX_ENABLE_STATIC=ON",
		},
	})
}
