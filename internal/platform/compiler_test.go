package platform

import (
	"errors"
	"testing"

	"github.com/depforge/depforge/internal/faults"
)

var linuxHost = Info{OS: "linux", Arch: "amd64", Machine: "x86_64"}

func TestDetectClangOnly(t *testing.T) {
	var probedCompiler string
	c, err := Detect(linuxHost, DetectOptions{
		SingleFamily: "clang",
		VersionProbe: func(path string) (string, error) {
			probedCompiler = path
			return "11.1.0", nil
		},
		RuntimeDirProbe: func(path string) (string, error) {
			return "/opt/clang/lib/clang/11.1.0/lib/linux", nil
		},
	})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if probedCompiler != "clang" {
		t.Errorf("probed %q, want clang", probedCompiler)
	}
	if !c.UseOnlyClang() {
		t.Errorf("clang-only setup not recognized: %+v", c)
	}
	if c.MajorVersion() != 11 {
		t.Errorf("MajorVersion = %d, want 11", c.MajorVersion())
	}
	if c.RuntimeLibDir != "/opt/clang/lib/clang/11.1.0/lib/linux" {
		t.Errorf("RuntimeLibDir = %q", c.RuntimeLibDir)
	}
}

func TestDetectDualDefaultsToGCC(t *testing.T) {
	c, err := Detect(linuxHost, DetectOptions{
		VersionProbe: func(string) (string, error) { return "9.3.0", nil },
	})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if c.SingleFamily {
		t.Errorf("empty family must mean the dual setup")
	}
	if c.ActiveFamily(false) != FamilyGCC {
		t.Errorf("dual setup must build uninstrumented code with gcc")
	}
	if c.ActiveFamily(true) != FamilyClang {
		t.Errorf("dual setup must build sanitized code with clang")
	}
	// The runtime dir probe only applies to clang-only setups.
	if c.RuntimeLibDir != "" {
		t.Errorf("unexpected runtime dir %q", c.RuntimeLibDir)
	}
}

func TestDetectInvalidFamily(t *testing.T) {
	_, err := Detect(linuxHost, DetectOptions{SingleFamily: "icc"})
	var ce *faults.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConfigError, got %v", err)
	}
}

func TestDetectMajorVersionMismatch(t *testing.T) {
	_, err := Detect(linuxHost, DetectOptions{
		SingleFamily:  "gcc",
		ExpectedMajor: 11,
		VersionProbe:  func(string) (string, error) { return "9.3.0", nil },
	})
	var ce *faults.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConfigError, got %v", err)
	}
}

func TestDetectUnparsableVersion(t *testing.T) {
	_, err := Detect(linuxHost, DetectOptions{
		SingleFamily: "gcc",
		VersionProbe: func(string) (string, error) { return "experimental", nil },
	})
	var ce *faults.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConfigError, got %v", err)
	}
}

func TestCompilerExecutables(t *testing.T) {
	c := Compiler{Family: FamilyClang, Prefix: "/opt/llvm", Suffix: "-11"}
	if got, want := c.CCompiler(), "/opt/llvm/bin/clang-11"; got != want {
		t.Errorf("CCompiler = %q, want %q", got, want)
	}
	if got, want := c.CXXCompiler(), "/opt/llvm/bin/clang++-11"; got != want {
		t.Errorf("CXXCompiler = %q, want %q", got, want)
	}

	bare := Compiler{Family: FamilyGCC}
	if bare.CCompiler() != "gcc" || bare.CXXCompiler() != "g++" {
		t.Errorf("bare gcc executables wrong: %q %q", bare.CCompiler(), bare.CXXCompiler())
	}
}

func TestMajorVersionInvalid(t *testing.T) {
	if (Compiler{Version: "not-a-version"}).MajorVersion() != 0 {
		t.Errorf("invalid version should report major 0")
	}
}
