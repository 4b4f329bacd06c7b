package recipes

import "github.com/depforge/depforge/internal/deps"

func libev() *deps.Dependency {
	return &deps.Dependency{
		Name:        "libev",
		Version:     "4.33",
		URLPattern:  "http://dist.schmorp.de/libev/Attic/libev-{version}.tar.gz",
		BuildGroup:  deps.GroupCommon,
		License:     "BSD-2 or GPLv2",
		CopySources: true,
		Recipe:      libevRecipe{},
	}
}

type libevRecipe struct{}

func (libevRecipe) Build(h deps.Host, d *deps.Dependency) error {
	return h.ConfigureBuild(d, deps.ConfigureOptions{})
}
