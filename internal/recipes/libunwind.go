package recipes

import "github.com/depforge/depforge/internal/deps"

func libunwind() *deps.Dependency {
	return &deps.Dependency{
		Name:        "libunwind",
		Version:     "1.5.0",
		URLPattern:  "https://github.com/libunwind/libunwind/releases/download/v{version}/libunwind-{version}.tar.gz",
		BuildGroup:  deps.GroupCommon,
		License:     "MIT",
		CopySources: true,
		Recipe:      libunwindRecipe{},
	}
}

type libunwindRecipe struct{}

func (libunwindRecipe) Build(h deps.Host, d *deps.Dependency) error {
	return h.ConfigureBuild(d, deps.ConfigureOptions{
		ExtraArgs: []string{"--disable-minidebuginfo", "--disable-tests"},
	})
}
