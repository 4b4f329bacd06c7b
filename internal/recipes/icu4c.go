package recipes

import "github.com/depforge/depforge/internal/deps"

func icu4c() *deps.Dependency {
	return &deps.Dependency{
		Name:        "icu4c",
		Version:     "67.1",
		URLPattern:  "https://github.com/unicode-org/icu/releases/download/release-67-1/icu4c-67_1-src.tgz",
		BuildGroup:  deps.GroupInstrumented,
		License:     "ICU",
		DirName:     "icu",
		CopySources: true,
		Recipe:      icu4cRecipe{},
	}
}

type icu4cRecipe struct{}

func (icu4cRecipe) Build(h deps.Host, d *deps.Dependency) error {
	return h.ConfigureBuild(d, deps.ConfigureOptions{
		SrcSubdir: "source",
		ExtraArgs: []string{
			"--disable-samples",
			"--disable-tests",
			"--enable-static",
			"--with-library-bits=64",
		},
	})
}
