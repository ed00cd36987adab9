package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

var eligibleQuiet bool

var eligibleCmd = &cobra.Command{
	Use:   "eligible",
	Short: "Check whether the toolchain is installed",
	Long: `Eligible looks up the Mad-Pascal executables under the configured install
path and exits with status 1 when one of them is missing.`,
	Args: cobra.NoArgs,
	RunE: runEligible,
}

func init() {
	eligibleCmd.Flags().BoolVarP(&eligibleQuiet, "quiet", "q", false, "Only set the exit status")
	rootCmd.AddCommand(eligibleCmd)
}

func runEligible(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	p := newProvider(store)
	defer p.Close()

	ok := p.IsEligibleContext(cmd.Context())
	if !eligibleQuiet {
		if ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is eligible in %s\n", p.NiceName(), p.Cwd())
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not eligible: executables not found under %q\n", p.NiceName(), p.Config().InstallPath)
		}
	}
	if !ok {
		return errNotEligible
	}
	return nil
}
