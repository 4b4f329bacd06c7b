package recipes

import "github.com/depforge/depforge/internal/deps"

func curl() *deps.Dependency {
	return &deps.Dependency{
		Name:        "curl",
		Version:     "7.75.0",
		URLPattern:  "https://curl.se/download/curl-{version}.tar.gz",
		BuildGroup:  deps.GroupCommon,
		License:     "curl",
		CopySources: true,
		Recipe:      curlRecipe{},
	}
}

type curlRecipe struct{}

func (curlRecipe) Build(h deps.Host, d *deps.Dependency) error {
	return h.ConfigureBuild(d, deps.ConfigureOptions{
		ExtraArgs: []string{
			"--with-openssl=" + h.CommonInstallPrefix(),
			"--disable-ldap",
			"--disable-ldaps",
			"--without-libidn2",
			"--without-brotli",
		},
	})
}
