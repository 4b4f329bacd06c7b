package recipes

import "github.com/depforge/depforge/internal/deps"

func libbacktrace() *deps.Dependency {
	return &deps.Dependency{
		Name:        "libbacktrace",
		Version:     "8602fda",
		URLPattern:  "https://github.com/ianlancetaylor/libbacktrace/archive/{version}.tar.gz",
		BuildGroup:  deps.GroupCommon,
		License:     "BSD-3",
		CopySources: true,
		Recipe:      libbacktraceRecipe{},
	}
}

type libbacktraceRecipe struct{}

func (libbacktraceRecipe) Build(h deps.Host, d *deps.Dependency) error {
	return h.ConfigureBuild(d, deps.ConfigureOptions{
		ExtraArgs: []string{"--enable-shared"},
	})
}
