package recipes

import "github.com/depforge/depforge/internal/deps"

func snappy() *deps.Dependency {
	return &deps.Dependency{
		Name:       "snappy",
		Version:    "1.1.8",
		URLPattern: "https://github.com/google/snappy/archive/{version}.tar.gz",
		BuildGroup: deps.GroupInstrumented,
		License:    "BSD-3",
		Recipe:     snappyRecipe{},
	}
}

type snappyRecipe struct{}

func (snappyRecipe) Build(h deps.Host, d *deps.Dependency) error {
	return h.CMakeBuild(d, deps.CMakeOptions{
		ExtraArgs: []string{
			"-DSNAPPY_BUILD_TESTS=OFF",
			"-DBUILD_SHARED_LIBS=ON",
		},
	})
}
