package recipes

import "github.com/depforge/depforge/internal/deps"

func lz4() *deps.Dependency {
	return &deps.Dependency{
		Name:       "lz4",
		Version:    "1.9.2",
		URLPattern: "https://github.com/lz4/lz4/archive/v{version}.tar.gz",
		BuildGroup: deps.GroupCommon,
		License:    "BSD-2 and GPLv2",
		Recipe:     lz4Recipe{},
	}
}

type lz4Recipe struct{}

func (lz4Recipe) Build(h deps.Host, d *deps.Dependency) error {
	return h.CMakeBuild(d, deps.CMakeOptions{
		SrcSubdir: "contrib/cmake_unofficial",
		ExtraArgs: []string{"-DBUILD_STATIC_LIBS=ON"},
	})
}
