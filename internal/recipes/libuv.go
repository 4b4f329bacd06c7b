package recipes

import "github.com/depforge/depforge/internal/deps"

func libuv() *deps.Dependency {
	return &deps.Dependency{
		Name:       "libuv",
		Version:    "1.23.0",
		URLPattern: "https://github.com/libuv/libuv/archive/v{version}.tar.gz",
		BuildGroup: deps.GroupInstrumented,
		License:    "MIT",
		Recipe:     libuvRecipe{},
	}
}

type libuvRecipe struct{}

func (libuvRecipe) Build(h deps.Host, d *deps.Dependency) error {
	return h.CMakeBuild(d, deps.CMakeOptions{
		ExtraArgs: []string{"-DBUILD_TESTING=OFF"},
	})
}
