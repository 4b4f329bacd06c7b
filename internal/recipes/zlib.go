package recipes

import "github.com/depforge/depforge/internal/deps"

func zlib() *deps.Dependency {
	return &deps.Dependency{
		Name:        "zlib",
		Version:     "1.2.11",
		URLPattern:  "https://zlib.net/fossils/zlib-{version}.tar.gz",
		BuildGroup:  deps.GroupCommon,
		License:     "Zlib",
		CopySources: true,
		Recipe:      zlibRecipe{},
	}
}

// zlib's configure is hand-written and chokes on unknown autotools
// arguments, so it only gets the prefix.
type zlibRecipe struct{}

func (zlibRecipe) Build(h deps.Host, d *deps.Dependency) error {
	return h.ConfigureBuild(d, deps.ConfigureOptions{})
}
