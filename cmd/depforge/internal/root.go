package internal

import (
	"os"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"

	"github.com/depforge/depforge/internal/faults"
)

var rootCmd = &cobra.Command{
	Use:   "depforge",
	Short: "depforge builds a tree of native third-party dependencies",
	Long: `depforge downloads, builds and installs the native libraries a
database build links against, once per build configuration (common,
uninstrumented, asan, tsan). Completed builds are fingerprinted and
skipped on re-runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and maps the returned error onto the
// process exit code. Configuration errors exit with a distinct code so
// wrapper scripts can tell usage mistakes from build failures.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Errorf("%v", err)
		os.Exit(faults.ExitCode(err))
	}
}
