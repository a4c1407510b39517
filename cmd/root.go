package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/neighbourhood-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "neighbourhood-cli",
	Short: "Score the neighbourhood of a Danish address",
	Long: `Resolves a Danish address, fetches education, broadband and crime statistics
for it from public data services, and scores each on a 0-10 scale together with
an overall neighbourhood score.

Run without arguments for the interactive menu.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE: runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate("check"); err != nil {
		return err
	}
	chk, _, err := initChecker(cfg, nil)
	if err != nil {
		return err
	}
	return newMenu(cmd.InOrStdin(), cmd.OutOrStdout(), chk).run(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
