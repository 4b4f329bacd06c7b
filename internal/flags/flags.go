// Package flags derives and composes compiler, preprocessor and linker
// flags per (dependency, build type). A Set is an explicit value produced
// from scratch by Derive for every pair, so no customization can leak
// from one dependency to the next.
package flags

import "strings"

// PlaceholderRPath is a long run-path token injected on Linux so that the
// rpath can be rewritten in place after the build with patchelf/chrpath.
var PlaceholderRPath = "/tmp/making_sure_we_have_enough_room_to_set_rpath_later/" +
	strings.Repeat("x", 256)

// RPathFlag returns the linker flag embedding a run-path.
func RPathFlag(path string) string {
	return "-Wl,-rpath," + path
}

// Set holds the ordered flag state for one (dependency, build type) pair.
type Set struct {
	Preprocessor []string
	Compiler     []string // applied to both C and C++ compiles
	C            []string
	CXX          []string
	LD           []string
	ExecutableLD []string // linked into executables only, never shared libs
	Libs         []string

	// DylibSuffix is the shared library suffix of the target platform.
	DylibSuffix string

	allowedLibPaths []string
	allowedSeen     map[string]bool
}

// AddIncludePath appends -I<path> to the preprocessor and compiler flags.
func (s *Set) AddIncludePath(path string) {
	arg := "-I" + path
	s.Preprocessor = append(s.Preprocessor, arg)
	s.Compiler = append(s.Compiler, arg)
}

// AddLibDirAndRPath appends -L<dir> and the matching rpath.
func (s *Set) AddLibDirAndRPath(dir string) {
	s.LD = append(s.LD, "-L"+dir)
	s.AddRPath(dir)
}

// PrependLibDirAndRPath puts -L<dir> and the matching rpath at the front
// of the linker flags, so the directory shadows system defaults. Used for
// a bundled standard library that must be found first.
func (s *Set) PrependLibDirAndRPath(dir string) {
	s.LD = append([]string{"-L" + dir, RPathFlag(dir)}, s.LD...)
	s.recordAllowedPath(dir)
}

// AddRPath appends an rpath entry and records the path as an allowed
// shared-library location.
func (s *Set) AddRPath(path string) {
	s.LD = append(s.LD, RPathFlag(path))
	s.recordAllowedPath(path)
}

func (s *Set) recordAllowedPath(path string) {
	if s.allowedSeen == nil {
		s.allowedSeen = make(map[string]bool)
	}
	if s.allowedSeen[path] {
		return
	}
	s.allowedSeen[path] = true
	s.allowedLibPaths = append(s.allowedLibPaths, path)
}

// AllowedLibPaths returns the shared-library search paths collected while
// deriving this set, in first-recorded order. The run-level accumulator
// merges these even when the build itself is skipped.
func (s *Set) AllowedLibPaths() []string {
	out := make([]string, len(s.allowedLibPaths))
	copy(out, s.allowedLibPaths)
	return out
}
