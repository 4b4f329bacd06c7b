// Package cmake drives cmake configure/build/install, preferring the
// ninja generator when available.
package cmake

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/depforge/depforge/internal/faults"
	"github.com/depforge/depforge/pkgs/buildsys"
)

// Tool runs a cmake build in Dir (default: current directory). Args holds
// the -D definitions and other configure arguments in the exact order
// they should reach the cmake command line.
type Tool struct {
	Dir       string
	SourceDir string
	Generator string // "Ninja" or "" for the default makefile generator
	Jobs      int
	LogPrefix string
	Env       map[string]string
	Args      []string
}

var _ buildsys.Driver = (*Tool)(nil)

// BuildTool returns the command driving the generated build files.
func (t *Tool) BuildTool() string {
	if t.Generator == "Ninja" {
		return "ninja"
	}
	return "make"
}

// Configure runs the cmake configure step. Stale cache state from an
// earlier configuration is removed first so a configuration change never
// reuses cached settings.
func (t *Tool) Configure(extraArgs ...string) error {
	dir := t.Dir
	if dir == "" {
		dir = "."
	}
	os.Remove(dir + "/CMakeCache.txt")
	os.RemoveAll(dir + "/CMakeFiles")

	args := []string{"cmake", t.SourceDir}
	if t.Generator != "" {
		args = append(args, "-G", t.Generator)
	}
	args = append(args, t.Args...)
	args = append(args, extraArgs...)
	return t.run(args...)
}

// Build runs the generated build tool with the configured parallelism.
func (t *Tool) Build(extraArgs ...string) error {
	args := []string{t.BuildTool(), fmt.Sprintf("-j%d", t.jobs())}
	args = append(args, extraArgs...)
	return t.run(args...)
}

// Install runs the install targets (default "install").
func (t *Tool) Install(targets ...string) error {
	if len(targets) == 0 {
		targets = []string{"install"}
	}
	return t.run(append([]string{t.BuildTool()}, targets...)...)
}

type compileCommand struct {
	Command string `json:"command"`
	File    string `json:"file"`
}

// VerifyCompileCommands checks that every compile command in the exported
// compile_commands.json carries all expected flags. A miss means the flag
// derivation failed to reach the compiler and is reported as a
// verification error.
func (t *Tool) VerifyCompileCommands(expected ...string) error {
	if len(expected) == 0 {
		return nil
	}
	dir := t.Dir
	if dir == "" {
		dir = "."
	}
	path := dir + "/compile_commands.json"
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var commands []compileCommand
	if err := json.Unmarshal(data, &commands); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for _, cc := range commands {
		args := strings.Fields(cc.Command)
		for _, want := range expected {
			if !contains(args, want) {
				return faults.Verifyf(
					"compile command for %s is missing expected flag %s", cc.File, want)
			}
		}
	}
	return nil
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

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
