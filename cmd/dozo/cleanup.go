package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/database"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/metrics"
)

var cleanupDays int

var cleanupCmd = &cobra.Command{
	Use:   "metrics-cleanup",
	Short: "Delete metrics older than the retention window",
	RunE:  runCleanup,
}

func init() {
	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 90, "Retention window in days")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, _ []string) error {
	if cleanupDays <= 0 {
		return fmt.Errorf("days must be greater than 0, got %d", cleanupDays)
	}

	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	n, err := metrics.NewStore(db.SQL).Cleanup(cmd.Context(), cleanupDays)
	if err != nil {
		return err
	}
	logger.Info("metrics cleaned up", zap.Int("days", cleanupDays), zap.Int64("rows", n))
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %d rows\n", n)
	return err
}
