// Package buildsys wraps the external build tools (configure/make, cmake,
// ninja) the dependency recipes drive. Drivers run in the prepared build
// directory and inherit the flag environment materialized by the executor.
package buildsys

import (
	"bytes"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/qiniu/x/log"

	"github.com/depforge/depforge/internal/faults"
)

// Driver captures the shared lifecycle of a build-system helper.
type Driver interface {
	Configure(extraArgs ...string) error
	Build(extraArgs ...string) error
	Install(targets ...string) error
}

// Run executes one external command in dir (empty means the current
// directory), streaming its output line by line under logPrefix. A
// non-zero exit becomes a BuildToolError.
func Run(logPrefix, dir string, env map[string]string, args ...string) error {
	log.Infof("[%s] running: %s", logPrefix, strings.Join(args, " "))
	cmd := exec.Command(args[0], args[1:]...)
	if dir != "" {
		cmd.Dir = dir
	}
	w := &prefixWriter{prefix: logPrefix}
	cmd.Stdout = w
	cmd.Stderr = w
	if len(env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), env)
	}
	err := cmd.Run()
	w.flush()
	if err != nil {
		return &faults.BuildToolError{Tool: args[0], Err: err}
	}
	return nil
}

// NinjaAvailable reports whether ninja can be found on PATH.
func NinjaAvailable() bool {
	_, err := exec.LookPath("ninja")
	return err == nil
}

func mergeEnv(base []string, override map[string]string) []string {
	envMap := make(map[string]string, len(base))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range override {
		envMap[k] = v
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}

// prefixWriter logs every output line of a build tool under a prefix.
type prefixWriter struct {
	prefix string
	buf    bytes.Buffer
}

func (w *prefixWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, rest, ok := bytes.Cut(w.buf.Bytes(), []byte{'\n'})
		if !ok {
			break
		}
		log.Infof("[%s] %s", w.prefix, string(line))
		remaining := append([]byte(nil), rest...)
		w.buf.Reset()
		w.buf.Write(remaining)
	}
	return len(p), nil
}

func (w *prefixWriter) flush() {
	if w.buf.Len() > 0 {
		log.Infof("[%s] %s", w.prefix, w.buf.String())
		w.buf.Reset()
	}
}
