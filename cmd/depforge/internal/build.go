package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"

	"github.com/depforge/depforge/internal/build"
	"github.com/depforge/depforge/internal/download"
	"github.com/depforge/depforge/internal/layout"
	"github.com/depforge/depforge/internal/platform"
	"github.com/depforge/depforge/internal/recipes"
	"github.com/depforge/depforge/internal/stamp"
)

var buildFlags struct {
	root                string
	buildType           string
	skipSanitizers      bool
	skip                []string
	jobs                int
	downloadExtractOnly bool
	singleCompilerType  string
	compilerPrefix      string
	compilerSuffix      string
	expectedMajor       int
	clean               bool
	cleanDownloads      bool
	verbose             bool
}

var buildCmd = &cobra.Command{
	Use:   "build [dependency...]",
	Short: "Build the third-party dependencies",
	Long: `Build downloads and builds every dependency of the catalog, or only
the ones named as arguments, for each applicable build configuration.`,
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.StringVar(&buildFlags.root, "root", ".",
		"root directory holding download/, src/, build/ and installed/")
	f.StringVar(&buildFlags.buildType, "build-type", "",
		"build only one configuration (common, uninstrumented, asan, tsan)")
	f.BoolVar(&buildFlags.skipSanitizers, "skip-sanitizers", false,
		"never build the asan/tsan configurations")
	f.StringSliceVar(&buildFlags.skip, "skip", nil,
		"dependencies to skip (mutually exclusive with naming dependencies)")
	f.IntVarP(&buildFlags.jobs, "make-parallelism", "j", 0,
		"parallelism for make/ninja (default: number of CPUs)")
	f.BoolVar(&buildFlags.downloadExtractOnly, "download-extract-only", false,
		"download and extract sources, but do not build")
	f.StringVar(&buildFlags.singleCompilerType, "single-compiler-type", "",
		"use one compiler family (gcc or clang) for all configurations")
	f.StringVar(&buildFlags.compilerPrefix, "compiler-prefix", "",
		"directory whose bin/ subdirectory holds the compilers")
	f.StringVar(&buildFlags.compilerSuffix, "compiler-suffix", "",
		"compiler executable suffix, e.g. -15")
	f.IntVar(&buildFlags.expectedMajor, "expected-major-compiler-version", 0,
		"fail if the detected compiler has a different major version")
	f.BoolVar(&buildFlags.clean, "clean", false,
		"remove build and install state of the selected dependencies first")
	f.BoolVar(&buildFlags.cleanDownloads, "clean-downloads", false,
		"with --clean, also remove the downloaded archives")
	f.BoolVarP(&buildFlags.verbose, "verbose", "v", false,
		"enable verbose output")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildFlags.verbose {
		log.SetOutputLevel(log.Ldebug)
	}

	root, err := filepath.Abs(buildFlags.root)
	if err != nil {
		return err
	}

	plat, err := platform.Probe()
	if err != nil {
		return err
	}
	singleFamily := buildFlags.singleCompilerType
	if plat.IsMacOS() && singleFamily == "" {
		// There is no usable gcc on macOS; Apple ships clang behind
		// every compiler name.
		singleFamily = "clang"
	}
	comp, err := platform.Detect(plat, platform.DetectOptions{
		SingleFamily:  singleFamily,
		Prefix:        buildFlags.compilerPrefix,
		Suffix:        buildFlags.compilerSuffix,
		ExpectedMajor: buildFlags.expectedMajor,
	})
	if err != nil {
		return err
	}

	sums, err := loadChecksums(root)
	if err != nil {
		return err
	}

	lay := layout.New(root)
	orch, err := build.New(build.Options{
		BuildType:           buildFlags.buildType,
		SkipSanitizers:      buildFlags.skipSanitizers,
		Include:             args,
		Skip:                buildFlags.skip,
		Jobs:                buildFlags.jobs,
		DownloadExtractOnly: buildFlags.downloadExtractOnly,
		Clean:               buildFlags.clean,
		CleanDownloads:      buildFlags.cleanDownloads,
		Verbose:             buildFlags.verbose,
	}, plat, comp,
		recipes.Catalog(plat, comp),
		lay,
		stamp.NewStore(root, lay, nil),
		&download.HTTPManager{
			Checksums: sums,
			PatchDir:  filepath.Join(root, "patches"),
		})
	if err != nil {
		return err
	}
	return orch.Run()
}

// loadChecksums reads the archive checksum registry from the root
// directory. A missing registry only becomes an error once a download
// actually needs a checksum.
func loadChecksums(root string) (map[string]string, error) {
	path := filepath.Join(root, "checksums.txt")
	sums, err := download.LoadChecksums(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnf("No checksum registry at %s", path)
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("load checksum registry: %w", err)
	}
	return sums, nil
}
