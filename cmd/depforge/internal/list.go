package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/depforge/depforge/internal/platform"
	"github.com/depforge/depforge/internal/recipes"
)

var listSingleCompilerType string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the dependency catalog for this platform",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listSingleCompilerType, "single-compiler-type", "",
		"assume one compiler family (gcc or clang) for all configurations")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	plat, err := platform.Probe()
	if err != nil {
		return err
	}
	comp := platform.Compiler{Family: platform.FamilyGCC}
	if listSingleCompilerType != "" {
		comp.Family = platform.Family(listSingleCompilerType)
		comp.SingleFamily = true
	}
	for _, d := range recipes.Catalog(plat, comp) {
		fmt.Printf("%-24s %-10s %s\n", d.Name, d.Version, d.BuildGroup)
	}
	return nil
}
