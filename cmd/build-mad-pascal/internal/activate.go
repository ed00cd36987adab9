package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goplus/build-mad-pascal/internal/apm"
	"github.com/goplus/build-mad-pascal/internal/env"
	"github.com/goplus/build-mad-pascal/internal/manifest"
	"github.com/goplus/build-mad-pascal/pkgs/buildsys/madpascal"
)

var activateApm string

var activateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Install and enable the packages this builder depends on",
	Long: `Activate installs missing package dependencies with apm and enables the
ones that are disabled, unless manageDependencies is turned off.`,
	Args: cobra.NoArgs,
	RunE: runActivate,
}

func init() {
	activateCmd.Flags().StringVar(&activateApm, "apm", "apm", "Path to the apm executable")
	rootCmd.AddCommand(activateCmd)
}

func runActivate(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	packagesDir, err := env.PackagesDir()
	if err != nil {
		return fmt.Errorf("failed to locate packages directory: %w", err)
	}
	pm := apm.New(
		apm.WithApmPath(activateApm),
		apm.WithPackagesDir(packagesDir),
		apm.WithLogger(logger),
	)

	return madpascal.Activate(cmd.Context(), store, targetGOOS, pm, manifest.Default(), logger)
}
