// Package layout fixes the on-disk layout of the orchestrator workspace:
//
//	root/
//	  downloads/                    # source archives
//	  src/<name>-<version>/         # pristine extracted sources
//	  build/<type>/<name>-<version> # per-configuration build trees
//	  build/<type>/.stamp-<name>    # success fingerprints
//	  installed/<type>/             # install prefixes (include/, lib/, lib64 -> lib)
package layout

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/qiniu/x/log"

	"github.com/depforge/depforge/internal/deps"
)

type Layout struct {
	Root string
}

func New(root string) *Layout {
	return &Layout{Root: root}
}

func (l *Layout) DownloadDir() string {
	return filepath.Join(l.Root, "downloads")
}

func (l *Layout) ArchivePath(d *deps.Dependency) string {
	return filepath.Join(l.DownloadDir(), d.ArchiveName())
}

func (l *Layout) SourceRoot() string {
	return filepath.Join(l.Root, "src")
}

func (l *Layout) SourceDir(d *deps.Dependency) string {
	return filepath.Join(l.SourceRoot(), d.SourceDirName())
}

func (l *Layout) BuildRoot() string {
	return filepath.Join(l.Root, "build")
}

func (l *Layout) BuildDir(d *deps.Dependency, bt deps.BuildType) string {
	return filepath.Join(l.BuildRoot(), string(bt), d.SourceDirName())
}

func (l *Layout) StampPath(d *deps.Dependency, bt deps.BuildType) string {
	return filepath.Join(l.BuildRoot(), string(bt), ".stamp-"+d.Name)
}

func (l *Layout) InstalledDir() string {
	return filepath.Join(l.Root, "installed")
}

func (l *Layout) InstallPrefix(bt deps.BuildType) string {
	return filepath.Join(l.InstalledDir(), string(bt))
}

// PrepareOutDirs creates the install prefixes for every build type,
// including the libcxx sub-prefix used by the bundled standard library.
// lib64 is set up as a relative symlink to lib before any build runs, so
// autotools installers that default to lib64 land in lib and the whole
// prefix stays relocatable.
func (l *Layout) PrepareOutDirs(verbose bool) error {
	for _, bt := range deps.BuildTypes {
		prefix := l.InstallPrefix(bt)
		for _, dir := range []string{prefix, filepath.Join(prefix, "libcxx")} {
			if verbose {
				log.Infof("Preparing output directory %s", dir)
			}
			for _, sub := range []string{"lib", "include"} {
				if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
					return err
				}
			}
			if err := ensureLib64Symlink(dir); err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureLib64Symlink(dir string) error {
	lib64 := filepath.Join(dir, "lib64")
	if info, err := os.Lstat(lib64); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}
		if err := os.RemoveAll(lib64); err != nil {
			return err
		}
	}
	if err := os.Symlink("lib", lib64); err != nil {
		return fmt.Errorf("symlink lib64 -> lib in %s: %w", dir, err)
	}
	return nil
}

// Clean removes the build and source state of the selected dependencies,
// and their downloaded archives when cleanDownloads is set.
func (l *Layout) Clean(selected []*deps.Dependency, cleanDownloads bool) error {
	for _, d := range selected {
		paths := []string{l.SourceDir(d)}
		for _, bt := range deps.BuildTypes {
			paths = append(paths, l.BuildDir(d, bt), l.StampPath(d, bt))
		}
		if cleanDownloads && d.ArchiveName() != "" {
			paths = append(paths, l.ArchivePath(d))
		}
		for _, p := range paths {
			log.Infof("Removing %s", p)
			if err := os.RemoveAll(p); err != nil {
				return err
			}
		}
	}
	return nil
}
