package recipes

import "github.com/depforge/depforge/internal/deps"

func gperftools() *deps.Dependency {
	return &deps.Dependency{
		Name:        "gperftools",
		Version:     "2.8.1",
		URLPattern:  "https://github.com/gperftools/gperftools/releases/download/gperftools-{version}/gperftools-{version}.tar.gz",
		BuildGroup:  deps.GroupInstrumented,
		License:     "BSD-3",
		CopySources: true,
		Recipe:      gperftoolsRecipe{},
	}
}

type gperftoolsRecipe struct{}

func (gperftoolsRecipe) Build(h deps.Host, d *deps.Dependency) error {
	// tcmalloc's own allocator conflicts with the sanitizer runtimes;
	// it is only usable from uninstrumented builds.
	if h.BuildType().Sanitizer() {
		return nil
	}
	return h.ConfigureBuild(d, deps.ConfigureOptions{
		ExtraArgs: []string{"--enable-frame-pointers", "--enable-heap-checker"},
	})
}
