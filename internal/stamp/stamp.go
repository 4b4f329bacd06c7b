// Package stamp decides rebuild necessity per (dependency, build type).
// A fingerprint combines the commit identity of the files that define a
// dependency's build with digests of any uncommitted changes to them, so
// two fingerprints computed from identical inputs are byte-identical.
package stamp

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/depforge/depforge/internal/deps"
	"github.com/depforge/depforge/internal/faults"
	"github.com/depforge/depforge/internal/layout"
)

// GitRunner runs a git command in a directory and returns its stdout.
type GitRunner interface {
	Output(dir string, args ...string) ([]byte, error)
}

// ExecGit is the exec-based GitRunner used outside of tests.
type ExecGit struct {
	Git string // git executable, default "git"
}

func (g ExecGit) Output(dir string, args ...string) ([]byte, error) {
	git := g.Git
	if git == "" {
		git = "git"
	}
	cmd := exec.Command(git, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
		}
		return nil, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return stdout.Bytes(), nil
}

// Store computes fingerprints and persists success stamps.
type Store struct {
	repoRoot string // checkout containing the orchestrator sources
	lay      *layout.Layout
	git      GitRunner
}

func NewStore(repoRoot string, lay *layout.Layout, git GitRunner) *Store {
	if git == nil {
		git = ExecGit{}
	}
	return &Store{repoRoot: repoRoot, lay: lay, git: git}
}

// inputFiles lists the repo-relative files whose content identity defines
// a dependency's fingerprint: the orchestrator entry point, the build
// driver, and the dependency's own recipe.
func (s *Store) inputFiles(d *deps.Dependency) []string {
	return []string{
		filepath.Join("cmd", "depforge", "main.go"),
		filepath.Join("internal", "build", "build.go"),
		filepath.Join("internal", "recipes", d.RecipeFile()),
	}
}

// Compute returns the current fingerprint for a dependency. A tracked
// input file that does not exist is a packaging defect, not a transient
// condition.
func (s *Store) Compute(d *deps.Dependency) (string, error) {
	files := s.inputFiles(d)
	for _, rel := range files {
		abs := filepath.Join(s.repoRoot, rel)
		if _, err := os.Stat(abs); err != nil {
			return "", faults.MissingInput(abs,
				fmt.Sprintf("fingerprint input for %s", d.Name))
		}
	}

	logArgs := append([]string{"log", "--pretty=%H", "-n", "1", "--"}, files...)
	out, err := s.git.Output(s.repoRoot, logArgs...)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "git_commit_sha1=%s\n", strings.TrimSpace(string(out)))

	for _, scope := range []struct {
		label string
		extra []string
	}{
		{"git_diff_blake3", nil},
		{"git_diff_cached_blake3", []string{"--cached"}},
	} {
		diffArgs := append([]string{"diff"}, scope.extra...)
		diffArgs = append(diffArgs, "--")
		diffArgs = append(diffArgs, files...)
		diff, err := s.git.Output(s.repoRoot, diffArgs...)
		if err != nil {
			return "", err
		}
		sum := blake3.Sum256(diff)
		fmt.Fprintf(&b, "%s=%s\n", scope.label, hex.EncodeToString(sum[:]))
	}
	return b.String(), nil
}

// UpToDate reports whether the stored stamp matches the fresh fingerprint
// and the dependency's source directory is present. A missing stamp or a
// missing source directory both force a rebuild.
func (s *Store) UpToDate(d *deps.Dependency, bt deps.BuildType) (bool, error) {
	fresh, err := s.Compute(d)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(s.lay.SourceDir(d)); err != nil {
		return false, nil
	}
	stored, err := os.ReadFile(s.lay.StampPath(d, bt))
	if err != nil {
		return false, nil
	}
	return string(stored) == fresh, nil
}

// Persist overwrites the stamp with the fresh fingerprint. Called only
// after a build completed without error.
func (s *Store) Persist(d *deps.Dependency, bt deps.BuildType) error {
	fresh, err := s.Compute(d)
	if err != nil {
		return err
	}
	path := s.lay.StampPath(d, bt)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(fresh), 0o644)
}
