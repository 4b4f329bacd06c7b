package recipes

import "github.com/depforge/depforge/internal/deps"

func libuuid() *deps.Dependency {
	return &deps.Dependency{
		Name:        "libuuid",
		Version:     "1.0.3",
		URLPattern:  "https://downloads.sourceforge.net/project/libuuid/libuuid-{version}.tar.gz",
		BuildGroup:  deps.GroupCommon,
		License:     "BSD-3",
		CopySources: true,
		Recipe:      libuuidRecipe{},
	}
}

type libuuidRecipe struct{}

func (libuuidRecipe) Build(h deps.Host, d *deps.Dependency) error {
	return h.ConfigureBuild(d, deps.ConfigureOptions{})
}
