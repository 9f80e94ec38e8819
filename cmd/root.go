package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dedupe-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "dedupe-cli",
	Short: "Account deduplication and relationship resolution",
	Long:  "Resolves duplicate and hierarchically related CRM account records: assigns parent/child within same-domain groups, proposes merge targets for domain-less records, flags orphaned records for deletion.",
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
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
