package recipes

import "github.com/depforge/depforge/internal/deps"

func crcutil() *deps.Dependency {
	return &deps.Dependency{
		Name:        "crcutil",
		Version:     "440ba7e",
		URLPattern:  "https://github.com/google/crcutil/archive/{version}.tar.gz",
		BuildGroup:  deps.GroupInstrumented,
		License:     "Apache-2.0",
		CopySources: true,
		Recipe:      crcutilRecipe{},
	}
}

type crcutilRecipe struct{}

func (crcutilRecipe) Build(h deps.Host, d *deps.Dependency) error {
	if err := h.RunCommand(d.Name, "autoreconf", "--force", "--install"); err != nil {
		return err
	}
	return h.ConfigureBuild(d, deps.ConfigureOptions{})
}
