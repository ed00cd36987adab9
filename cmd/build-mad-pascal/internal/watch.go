package internal

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the build targets again whenever the configuration changes",
	Long: `Watch prints the build targets, then watches the configuration file and
prints them again each time an option affecting them changes.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&settingsFormat, "format", "f", "json", "Output format: json or yaml")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watch(ctx, cmd)
}

func watch(ctx context.Context, cmd *cobra.Command) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	p := newProvider(store)
	defer p.Close()

	out := cmd.OutOrStdout()
	refresh := make(chan struct{}, 1)
	defer p.OnRefresh(func() {
		select {
		case refresh <- struct{}{}:
		default:
		}
	})()

	if err := writeTargets(out, settingsFormat, p.Settings()); err != nil {
		return err
	}
	if err := store.Watch(); err != nil {
		return err
	}
	logger.Info("watching configuration", zap.String("path", store.Path()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-refresh:
			if err := writeTargets(out, settingsFormat, p.Settings()); err != nil {
				return err
			}
		}
	}
}
