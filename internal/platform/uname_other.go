//go:build !linux && !darwin

package platform

import "runtime"

func unameMachine() (string, error) {
	return runtime.GOARCH, nil
}
