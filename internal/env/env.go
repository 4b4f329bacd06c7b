// Package env provides scoped environment and working-directory changes
// around external build tool invocations. Every helper restores the prior
// state on all exit paths, including failures.
package env

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// With sets the given variables, runs fn, and restores the previous
// values (unsetting variables that did not exist before). Restoration
// covers every exit path, including a Setenv failing partway through.
func With(vars map[string]string, fn func() error) error {
	type prior struct {
		value   string
		present bool
	}
	saved := make(map[string]prior, len(vars))
	defer func() {
		for k, p := range saved {
			if p.present {
				os.Setenv(k, p.value)
			} else {
				os.Unsetenv(k)
			}
		}
	}()
	for k, v := range vars {
		old, ok := os.LookupEnv(k)
		saved[k] = prior{value: old, present: ok}
		if err := os.Setenv(k, v); err != nil {
			return err
		}
	}
	return fn()
}

// Pushd changes into dir, runs fn, and changes back.
func Pushd(dir string, fn func() error) error {
	prev, err := os.Getwd()
	if err != nil {
		return err
	}
	if err := os.Chdir(dir); err != nil {
		return err
	}
	defer os.Chdir(prev)
	return fn()
}

// WriteScript writes the variables as a shell script of export statements,
// for inspection and for reproducing a dependency's build by hand.
func WriteScript(path string, vars map[string]string) error {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "export %s=%s\n", k, shellQuote(vars[k]))
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
