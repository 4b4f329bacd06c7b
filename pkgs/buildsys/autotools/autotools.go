// Package autotools drives ./configure && make && make install builds.
package autotools

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/qiniu/x/log"

	"github.com/depforge/depforge/pkgs/buildsys"
)

// Tool runs an autotools-style build in Dir (default: current directory).
type Tool struct {
	Dir       string
	Prefix    string // --prefix for configure
	Jobs      int
	LogPrefix string
	Env       map[string]string

	ConfigureCmd []string // default {"./configure"}
	RunAutogen   bool     // run ./autogen.sh before configure
	Autoconf     bool     // run autoreconf -i before configure
}

var _ buildsys.Driver = (*Tool)(nil)

// Configure runs the configure step. On failure it scans the build tree
// for config.log files and surfaces their contents before returning, to
// aid debugging; there is no recovery.
func (t *Tool) Configure(extraArgs ...string) error {
	if t.RunAutogen {
		if err := t.run("./autogen.sh"); err != nil {
			return err
		}
	}
	if t.Autoconf {
		if err := t.run("autoreconf", "-i"); err != nil {
			return err
		}
	}

	cmd := t.ConfigureCmd
	if len(cmd) == 0 {
		cmd = []string{"./configure"}
	}
	args := append([]string{}, cmd...)
	if t.Prefix != "" {
		args = append(args, "--prefix="+t.Prefix)
	}
	args = append(args, extraArgs...)
	if err := t.run(args...); err != nil {
		t.showConfigureLogs()
		return err
	}
	return nil
}

// Build runs make with the configured parallelism.
func (t *Tool) Build(extraArgs ...string) error {
	args := []string{"make", fmt.Sprintf("-j%d", t.jobs())}
	args = append(args, extraArgs...)
	return t.run(args...)
}

// Install runs make with the given install targets (default "install").
func (t *Tool) Install(targets ...string) error {
	if len(targets) == 0 {
		targets = []string{"install"}
	}
	return t.run(append([]string{"make"}, targets...)...)
}

func (t *Tool) jobs() int {
	if t.Jobs > 0 {
		return t.Jobs
	}
	return 1
}

func (t *Tool) run(args ...string) error {
	return buildsys.Run(t.LogPrefix, t.Dir, t.Env, args...)
}

func (t *Tool) showConfigureLogs() {
	root := t.Dir
	if root == "" {
		root = "."
	}
	log.Warnf("The configure step failed. Looking for config.log files under %s.", root)
	shown := 0
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || d.Name() != "config.log" {
			return nil
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		log.Warnf("Contents of %s:\n\n%s\n\n(End of %s.)", path, content, path)
		shown++
		return nil
	})
	log.Warnf("Logged contents of %d relevant files under %s.", shown, root)
}
