// Package main provides the dozo CLI: the HTTP API server plus local plan
// generation and maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/config"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/logging"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "dozo",
	Short:         "Dozo Diet Planner",
	Long:          "Dozo generates multi-day meal plans from regional food catalogs, filtered by diet, medical conditions and allergies.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.NewFromEnv()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger, err = logging.New(cfg.Env, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
