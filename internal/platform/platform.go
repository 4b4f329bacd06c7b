// Package platform probes the host operating system and compiler toolchain.
// Probe results are plain values so that catalog construction and flag
// derivation stay deterministic and testable with fake inputs.
package platform

import "runtime"

// Info describes the host the dependencies are built on.
type Info struct {
	OS      string // "linux" or "darwin"
	Arch    string // Go architecture name, e.g. "amd64"
	Machine string // uname machine string, e.g. "x86_64"
}

func (p Info) IsLinux() bool { return p.OS == "linux" }

func (p Info) IsMacOS() bool { return p.OS == "darwin" }

// Probe returns the local platform information.
func Probe() (Info, error) {
	machine, err := unameMachine()
	if err != nil {
		return Info{}, err
	}
	return Info{
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
		Machine: machine,
	}, nil
}
