package buildsys

import (
	"errors"
	"reflect"
	"testing"

	"github.com/depforge/depforge/internal/faults"
)

func TestRunReportsBuildToolError(t *testing.T) {
	if err := Run("test", "", nil, "true"); err != nil {
		t.Fatalf("Run(true): %v", err)
	}
	err := Run("test", "", nil, "false")
	var bte *faults.BuildToolError
	if !errors.As(err, &bte) {
		t.Fatalf("want BuildToolError, got %v", err)
	}
	if bte.Tool != "false" {
		t.Errorf("Tool = %q, want false", bte.Tool)
	}
}

func TestMergeEnv(t *testing.T) {
	got := mergeEnv(
		[]string{"PATH=/usr/bin", "CC=gcc"},
		map[string]string{"CC": "clang", "CXXFLAGS": "-O2"},
	)
	want := []string{"CC=clang", "CXXFLAGS=-O2", "PATH=/usr/bin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mergeEnv = %v, want %v", got, want)
	}
}
