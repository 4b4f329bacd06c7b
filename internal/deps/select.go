package deps

import (
	"sort"
	"strings"

	"github.com/depforge/depforge/internal/faults"
)

// Select narrows the catalog to the dependencies a run should visit,
// preserving catalog order. Exactly one of include/skip may be non-empty;
// empty both means the full catalog. Unknown names are configuration
// errors reported before any build step runs.
func Select(all []*Dependency, include, skip []string) ([]*Dependency, error) {
	if len(include) > 0 && len(skip) > 0 {
		return nil, faults.Configf(
			"a skip list is not compatible with an explicit list of dependencies to build")
	}

	names := make(map[string]bool, len(all))
	for _, d := range all {
		names[d.Name] = true
	}

	switch {
	case len(include) > 0:
		for _, name := range include {
			if !names[name] {
				return nil, faults.Configf(
					"unknown dependency name: %s. Valid dependency names:\n%s",
					name, indentedNameList(names))
			}
		}
		requested := make(map[string]bool, len(include))
		for _, name := range include {
			requested[name] = true
		}
		var selected []*Dependency
		for _, d := range all {
			if requested[d.Name] {
				selected = append(selected, d)
			}
		}
		return selected, nil

	case len(skip) > 0:
		skipped := make(map[string]bool, len(skip))
		for _, name := range skip {
			skipped[name] = true
		}
		var selected []*Dependency
		for _, d := range all {
			if skipped[d.Name] {
				delete(skipped, d.Name)
			} else {
				selected = append(selected, d)
			}
		}
		if len(skipped) > 0 {
			leftover := make([]string, 0, len(skipped))
			for name := range skipped {
				leftover = append(leftover, name)
			}
			sort.Strings(leftover)
			return nil, faults.Configf(
				"unknown dependencies, cannot skip: %s", strings.Join(leftover, ", "))
		}
		return selected, nil

	default:
		return all, nil
	}
}

func indentedNameList(names map[string]bool) string {
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)
	return "    " + strings.Join(sorted, "\n    ")
}
