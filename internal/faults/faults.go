// Package faults defines the error kinds the orchestrator distinguishes.
// The run loop treats all of them as fatal; the CLI maps them to exit codes.
package faults

import (
	"errors"
	"fmt"
)

// ConfigError reports an invalid option combination, an unknown dependency
// name, or an unsupported platform/compiler setup. Raised before or at the
// start of a run, never after state has been mutated.
type ConfigError struct {
	msg string
}

func Configf(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string { return e.msg }

// MissingInputError reports an input file or directory that must exist
// (a fingerprint input, a compiler runtime library). Treated as a
// packaging/environment defect, not a transient condition.
type MissingInputError struct {
	Path   string
	Detail string
}

func MissingInput(path, detail string) *MissingInputError {
	return &MissingInputError{Path: path, Detail: detail}
}

func (e *MissingInputError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("missing input: %s", e.Path)
	}
	return fmt.Sprintf("missing input: %s (%s)", e.Path, e.Detail)
}

// BuildToolError wraps a non-zero exit from an external build tool
// (configure, make, cmake, ninja).
type BuildToolError struct {
	Tool string
	Err  error
}

func (e *BuildToolError) Error() string {
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *BuildToolError) Unwrap() error { return e.Err }

// VerificationError reports a post-build assertion failure, such as a
// sanitizer build whose compile commands lack the sanitizer flag. It
// signals a flag-derivation bug in the orchestrator itself.
type VerificationError struct {
	msg string
}

func Verifyf(format string, args ...any) *VerificationError {
	return &VerificationError{msg: fmt.Sprintf(format, args...)}
}

func (e *VerificationError) Error() string { return e.msg }

// ExitCode maps an error to the process exit status used by the CLI.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return 2
	}
	return 1
}
