package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"pokerlog/config"
	"pokerlog/pkg/logging"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("pokerlog failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		cfg     *config.Config
		logs    io.Closer
	)

	root := &cobra.Command{
		Use:           "pokerlog",
		Short:         "Chat logbook for a home poker game",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logs = logging.Setup(&cfg.Log)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logs != nil {
				logs.Close()
			}
		},
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config.yaml (default: ./config.yaml or /etc/pokerlog/config.yaml)")

	current := func() *config.Config { return cfg }
	root.AddCommand(
		newServeCmd(current),
		newConsoleCmd(current),
		newMigrateCmd(current),
		newConfigCmd(current),
	)
	return root
}
