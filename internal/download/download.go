// Package download fetches and verifies source archives and extracts them
// into the pristine source tree. The orchestrator only depends on the
// Manager interface; tests substitute a fake.
package download

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/qiniu/x/log"

	"github.com/depforge/depforge/internal/deps"
)

// Manager downloads a dependency's archive and ensures its extracted
// source directory exists.
type Manager interface {
	Download(d *deps.Dependency, srcDir, archivePath string) error
	// ExpectedChecksum returns the registered sha256 of an archive.
	ExpectedChecksum(archiveName string) (string, bool)
}

// HTTPManager implements Manager with plain HTTP downloads verified
// against a checksum registry file.
type HTTPManager struct {
	Checksums map[string]string // archive basename -> sha256 hex
	Client    *http.Client
	PatchDir  string // directory holding the patch files recipes reference
}

// LoadChecksums parses a registry in sha256sum output format:
// one "<hex>  <archive>" pair per line.
func LoadChecksums(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sums := make(map[string]string)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%s: malformed checksum line: %q", path, line)
		}
		sums[fields[1]] = fields[0]
	}
	return sums, sc.Err()
}

func (m *HTTPManager) ExpectedChecksum(archiveName string) (string, bool) {
	sum, ok := m.Checksums[archiveName]
	return sum, ok
}

// Download makes sure the archive is present and verified, then extracts
// it if the source directory does not exist yet.
func (m *HTTPManager) Download(d *deps.Dependency, srcDir, archivePath string) error {
	if d.URLPattern == "" {
		return nil
	}
	if err := m.ensureArchive(d, archivePath); err != nil {
		return err
	}
	if _, err := os.Stat(srcDir); err == nil {
		return nil
	}
	if err := extract(archivePath, filepath.Dir(srcDir)); err != nil {
		return err
	}
	return m.applyPatches(d, srcDir)
}

// applyPatches runs the dependency's patches against a freshly extracted
// source tree. Patches never run twice: extraction is skipped entirely
// when the source directory already exists.
func (m *HTTPManager) applyPatches(d *deps.Dependency, srcDir string) error {
	for _, name := range d.Patches {
		patchPath, err := filepath.Abs(filepath.Join(m.PatchDir, name))
		if err != nil {
			return err
		}
		log.Infof("Applying patch %s in %s", name, srcDir)
		cmd := exec.Command("patch", fmt.Sprintf("-p%d", d.PatchStrip), "-i", patchPath)
		cmd.Dir = srcDir
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("apply patch %s to %s: %w", name, d.Name, err)
		}
	}
	return nil
}

func (m *HTTPManager) ensureArchive(d *deps.Dependency, archivePath string) error {
	expected, ok := m.ExpectedChecksum(d.ArchiveName())
	if !ok {
		return fmt.Errorf("no registered checksum for archive %s", d.ArchiveName())
	}
	if _, err := os.Stat(archivePath); err == nil {
		actual, err := fileChecksum(archivePath)
		if err != nil {
			return err
		}
		if actual == expected {
			return nil
		}
		log.Warnf("Checksum mismatch for existing archive %s, re-downloading", archivePath)
		if err := os.Remove(archivePath); err != nil {
			return err
		}
	}
	if err := m.fetch(d.DownloadURL(), archivePath); err != nil {
		return err
	}
	actual, err := fileChecksum(archivePath)
	if err != nil {
		return err
	}
	if actual != expected {
		return fmt.Errorf("checksum mismatch for %s: expected %s, got %s",
			archivePath, expected, actual)
	}
	return nil
}

func (m *HTTPManager) fetch(url, dest string) error {
	log.Infof("Downloading %s", url)
	client := m.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: %s", url, resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func extract(archivePath, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	log.Infof("Extracting %s into %s", archivePath, destDir)
	cmd := exec.Command("tar", "xf", archivePath, "-C", destDir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
