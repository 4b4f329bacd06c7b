package recipes

import "github.com/depforge/depforge/internal/deps"

func glog() *deps.Dependency {
	return &deps.Dependency{
		Name:       "glog",
		Version:    "0.4.0",
		URLPattern: "https://github.com/google/glog/archive/v{version}.tar.gz",
		BuildGroup: deps.GroupInstrumented,
		License:    "BSD-3",
		Recipe:     glogRecipe{},
	}
}

type glogRecipe struct{}

func (glogRecipe) Build(h deps.Host, d *deps.Dependency) error {
	return h.CMakeBuild(d, deps.CMakeOptions{
		ExtraArgs: []string{"-DWITH_GFLAGS=ON", "-DWITH_PKGCONFIG=ON"},
	})
}
