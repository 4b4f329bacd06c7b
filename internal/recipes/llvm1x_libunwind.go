package recipes

import "github.com/depforge/depforge/internal/deps"

// llvm1xLibunwind builds the LLVM unwinder matching the active clang
// release. Clang builds link it through -lunwind instead of the
// gcc-oriented nongnu libunwind.
func llvm1xLibunwind(version string) *deps.Dependency {
	return &deps.Dependency{
		Name:       "llvm1x_libunwind",
		Version:    version,
		URLPattern: "https://github.com/llvm/llvm-project/releases/download/llvmorg-{version}/libunwind-{version}.src.tar.xz",
		BuildGroup: deps.GroupInstrumented,
		License:    "Apache-2.0 WITH LLVM-exception",
		DirName:    "libunwind-" + version + ".src",
		Recipe:     llvmLibunwindRecipe{},
	}
}

type llvmLibunwindRecipe struct{}

func (llvmLibunwindRecipe) Build(h deps.Host, d *deps.Dependency) error {
	return h.CMakeBuild(d, deps.CMakeOptions{
		ExtraArgs: []string{
			"-DLIBUNWIND_USE_COMPILER_RT=ON",
			"-DLIBUNWIND_ENABLE_SHARED=ON",
			"-DLIBUNWIND_ENABLE_STATIC=ON",
		},
	})
}
