package internal

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goplus/build-mad-pascal/pkgs/buildsys/madpascal"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default options",
	Long:  `Init creates the configuration file with every option set to its default.`,
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if _, err := os.Stat(store.Path()); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", store.Path())
	}

	for _, opt := range madpascal.Schema(targetGOOS).Ordered() {
		store.Set(madpascal.Namespace+"."+opt.Name, opt.Default)
	}
	if err := store.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", store.Path())
	return nil
}
