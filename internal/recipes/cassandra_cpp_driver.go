package recipes

import "github.com/depforge/depforge/internal/deps"

func cassandraCppDriver() *deps.Dependency {
	return &deps.Dependency{
		Name:       "cassandra_cpp_driver",
		Version:    "2.9.0",
		URLPattern: "https://github.com/datastax/cpp-driver/archive/{version}.tar.gz",
		BuildGroup: deps.GroupInstrumented,
		License:    "Apache-2.0",
		DirName:    "cpp-driver-2.9.0",
		Recipe:     cassandraRecipe{},
	}
}

type cassandraRecipe struct{}

func (cassandraRecipe) Build(h deps.Host, d *deps.Dependency) error {
	return h.CMakeBuild(d, deps.CMakeOptions{
		ExtraArgs: []string{
			"-DCASS_BUILD_EXAMPLES=OFF",
			"-DCASS_BUILD_TESTS=OFF",
			"-DCASS_USE_TIMERFD=ON",
		},
	})
}

// The driver links against the baseline openssl and the per-configuration
// libuv; cmake's find modules need explicit roots for both.
func (cassandraRecipe) AdditionalCMakeArgs(h deps.Host) []string {
	return []string{
		"-DOPENSSL_ROOT_DIR=" + h.CommonInstallPrefix(),
		"-DLIBUV_ROOT_DIR=" + h.DefaultInstallPrefix(),
	}
}
