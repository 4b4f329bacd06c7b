package deps

import "github.com/depforge/depforge/internal/faults"

// BuildType is one flag/runtime profile dependencies are built under.
type BuildType string

const (
	TypeCommon         BuildType = "common"
	TypeUninstrumented BuildType = "uninstrumented"
	TypeASAN           BuildType = "asan"
	TypeTSAN           BuildType = "tsan"
)

// BuildTypes lists all build types in scheduling order.
var BuildTypes = []BuildType{TypeCommon, TypeUninstrumented, TypeASAN, TypeTSAN}

// ParseBuildType validates a user-supplied build type name.
func ParseBuildType(s string) (BuildType, error) {
	for _, t := range BuildTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", faults.Configf("invalid build type %q (one of: common, uninstrumented, asan, tsan)", s)
}

// Sanitizer reports whether the build type carries sanitizer instrumentation.
func (t BuildType) Sanitizer() bool {
	return t == TypeASAN || t == TypeTSAN
}

// Group is the build group a build type belongs to.
type Group string

const (
	GroupCommon       Group = "common"
	GroupInstrumented Group = "instrumented"
)

// Group returns the build group of the build type. The common build type
// forms its own group; everything else is instrumented-group.
func (t BuildType) Group() Group {
	if t == TypeCommon {
		return GroupCommon
	}
	return GroupInstrumented
}
