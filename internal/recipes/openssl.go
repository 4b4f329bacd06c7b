package recipes

import (
	"github.com/depforge/depforge/internal/deps"
)

func openssl() *deps.Dependency {
	return &deps.Dependency{
		Name:        "openssl",
		Version:     "1.1.1k",
		URLPattern:  "https://www.openssl.org/source/openssl-{version}.tar.gz",
		BuildGroup:  deps.GroupCommon,
		License:     "OpenSSL and SSLeay",
		CopySources: true,
		Recipe:      opensslRecipe{},
	}
}

type opensslRecipe struct{}

func (opensslRecipe) Build(h deps.Host, d *deps.Dependency) error {
	return h.ConfigureBuild(d, deps.ConfigureOptions{
		ConfigureCmd: []string{"./config"},
		ExtraArgs:    []string{"shared", "no-tests"},
		// install_sw skips the man pages, which take longer to install
		// than the library takes to build.
		InstallTargets: []string{"install_sw"},
	})
}
