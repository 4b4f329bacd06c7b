package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/depforge/depforge/internal/deps"
)

func TestPaths(t *testing.T) {
	l := New("/tp")
	d := &deps.Dependency{
		Name:       "zlib",
		Version:    "1.2.11",
		URLPattern: "https://example.com/zlib-{version}.tar.gz",
	}
	if got, want := l.SourceDir(d), "/tp/src/zlib-1.2.11"; got != want {
		t.Errorf("SourceDir = %q, want %q", got, want)
	}
	if got, want := l.BuildDir(d, deps.TypeASAN), "/tp/build/asan/zlib-1.2.11"; got != want {
		t.Errorf("BuildDir = %q, want %q", got, want)
	}
	if got, want := l.StampPath(d, deps.TypeASAN), "/tp/build/asan/.stamp-zlib"; got != want {
		t.Errorf("StampPath = %q, want %q", got, want)
	}
	if got, want := l.ArchivePath(d), "/tp/downloads/zlib-1.2.11.tar.gz"; got != want {
		t.Errorf("ArchivePath = %q, want %q", got, want)
	}
	if got, want := l.InstallPrefix(deps.TypeCommon), "/tp/installed/common"; got != want {
		t.Errorf("InstallPrefix = %q, want %q", got, want)
	}
}

func TestPrepareOutDirs(t *testing.T) {
	l := New(t.TempDir())
	if err := l.PrepareOutDirs(false); err != nil {
		t.Fatalf("PrepareOutDirs: %v", err)
	}
	for _, bt := range deps.BuildTypes {
		prefix := l.InstallPrefix(bt)
		for _, dir := range []string{prefix, filepath.Join(prefix, "libcxx")} {
			for _, sub := range []string{"lib", "include"} {
				if _, err := os.Stat(filepath.Join(dir, sub)); err != nil {
					t.Errorf("missing %s/%s: %v", dir, sub, err)
				}
			}
			target, err := os.Readlink(filepath.Join(dir, "lib64"))
			if err != nil {
				t.Errorf("lib64 in %s is not a symlink: %v", dir, err)
				continue
			}
			if target != "lib" {
				t.Errorf("lib64 in %s points at %q, want lib", dir, target)
			}
		}
	}
}

func TestPrepareOutDirsReplacesLib64Dir(t *testing.T) {
	l := New(t.TempDir())
	prefix := l.InstallPrefix(deps.TypeCommon)
	// A real lib64 directory left behind by a misbehaving installer.
	if err := os.MkdirAll(filepath.Join(prefix, "lib64"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := l.PrepareOutDirs(false); err != nil {
		t.Fatalf("PrepareOutDirs: %v", err)
	}
	if _, err := os.Readlink(filepath.Join(prefix, "lib64")); err != nil {
		t.Errorf("lib64 directory was not replaced by a symlink: %v", err)
	}
}

func TestClean(t *testing.T) {
	l := New(t.TempDir())
	d := &deps.Dependency{
		Name:       "zlib",
		Version:    "1.2.11",
		URLPattern: "https://example.com/zlib-{version}.tar.gz",
	}
	mk := func(path string) {
		t.Helper()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	mk(filepath.Join(l.SourceDir(d), "configure"))
	mk(l.StampPath(d, deps.TypeCommon))
	mk(l.ArchivePath(d))

	if err := l.Clean([]*deps.Dependency{d}, false); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if _, err := os.Stat(l.SourceDir(d)); !os.IsNotExist(err) {
		t.Errorf("source dir survived clean")
	}
	if _, err := os.Stat(l.StampPath(d, deps.TypeCommon)); !os.IsNotExist(err) {
		t.Errorf("stamp survived clean")
	}
	if _, err := os.Stat(l.ArchivePath(d)); err != nil {
		t.Errorf("archive must survive clean without --clean-downloads: %v", err)
	}

	if err := l.Clean([]*deps.Dependency{d}, true); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if _, err := os.Stat(l.ArchivePath(d)); !os.IsNotExist(err) {
		t.Errorf("archive survived clean with --clean-downloads")
	}
}
