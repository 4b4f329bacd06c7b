package recipes

import "github.com/depforge/depforge/internal/deps"

func protobuf() *deps.Dependency {
	return &deps.Dependency{
		Name:        "protobuf",
		Version:     "3.5.1",
		URLPattern:  "https://github.com/protocolbuffers/protobuf/releases/download/v{version}/protobuf-cpp-{version}.tar.gz",
		BuildGroup:  deps.GroupInstrumented,
		License:     "BSD-3",
		CopySources: true,
		Recipe:      protobufRecipe{},
	}
}

type protobufRecipe struct{}

func (protobufRecipe) Build(h deps.Host, d *deps.Dependency) error {
	return h.ConfigureBuild(d, deps.ConfigureOptions{
		RunAutogen: true,
		ExtraArgs:  []string{"--with-pic", "--enable-shared", "--enable-static"},
	})
}
