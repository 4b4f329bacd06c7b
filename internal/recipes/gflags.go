package recipes

import "github.com/depforge/depforge/internal/deps"

func gflags() *deps.Dependency {
	return &deps.Dependency{
		Name:       "gflags",
		Version:    "2.2.2",
		URLPattern: "https://github.com/gflags/gflags/archive/v{version}.tar.gz",
		BuildGroup: deps.GroupInstrumented,
		License:    "BSD-3",
		Recipe:     gflagsRecipe{},
	}
}

type gflagsRecipe struct{}

func (gflagsRecipe) Build(h deps.Host, d *deps.Dependency) error {
	return h.CMakeBuild(d, deps.CMakeOptions{
		ExtraArgs: []string{
			"-DBUILD_SHARED_LIBS=ON",
			"-DBUILD_STATIC_LIBS=ON",
			"-DINSTALL_SHARED_LIBS=ON",
			"-DINSTALL_STATIC_LIBS=ON",
			"-DBUILD_gflags_nothreads_LIB=OFF",
		},
	})
}
