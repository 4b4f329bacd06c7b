// Package recipes holds the dependency catalog: one descriptor plus build
// recipe per third-party library. Catalog order is build order within a
// configuration, so a library must appear after everything it links
// against.
package recipes

import (
	"github.com/depforge/depforge/internal/deps"
	"github.com/depforge/depforge/internal/platform"
)

// Catalog returns the full dependency list for a host/compiler pair.
// The function is pure: it inspects the platform and compiler but never
// touches the filesystem, so the scheduler can be tested against any
// combination.
func Catalog(host platform.Info, comp platform.Compiler) []*deps.Dependency {
	list := []*deps.Dependency{
		zlib(),
		lz4(),
		openssl(),
		libev(),
		curl(),
	}
	if host.IsLinux() {
		list = append(list, libuuid())
		if comp.UseOnlyClang() && comp.MajorVersion() >= 10 {
			// Clang builds link its own unwinder and C++ runtime, built
			// from the release matching the compiler version.
			list = append(list,
				llvm1xLibunwind(comp.Version),
				llvm1xLibcxxabi(comp.Version),
				llvm1xLibcxx(comp.Version))
		} else {
			list = append(list, libunwind())
		}
		list = append(list, libbacktrace())
	}
	list = append(list,
		icu4c(),
		protobuf(),
		boost(),
		gflags(),
		glog(),
		gperftools(),
		snappy(),
		crcutil(),
		libuv(),
		cassandraCppDriver(),
	)
	return list
}
