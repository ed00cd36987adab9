package internal

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goplus/build-mad-pascal/pkgs/buildsys"
)

var settingsFormat string

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Print the build targets",
	Long:  `Settings prints the build targets for the project in the editor's builder format.`,
	Args:  cobra.NoArgs,
	RunE:  runSettings,
}

func init() {
	settingsCmd.Flags().StringVarP(&settingsFormat, "format", "f", "json", "Output format: json or yaml")
	rootCmd.AddCommand(settingsCmd)
}

func runSettings(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	p := newProvider(store)
	defer p.Close()

	return writeTargets(cmd.OutOrStdout(), settingsFormat, p.Settings())
}

func writeTargets(w io.Writer, format string, targets []buildsys.Target) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(targets, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal targets: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(targets); err != nil {
			return fmt.Errorf("failed to marshal targets: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q, want json or yaml", format)
	}
}
