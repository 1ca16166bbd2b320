package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the protected API endpoints",
	RunE:  runToken,
}

var (
	tokenSubject string
	tokenTTL     time.Duration
)

func init() {
	tokenCmd.Flags().StringVarP(&tokenSubject, "subject", "s", "", "Token subject, e.g. a client name (required)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "Token lifetime")

	if err := tokenCmd.MarkFlagRequired("subject"); err != nil {
		panic(fmt.Sprintf("failed to mark subject flag as required: %v", err))
	}

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable not set")
	}
	if tokenTTL <= 0 {
		return fmt.Errorf("ttl must be positive, got %s", tokenTTL)
	}

	token, err := server.NewJWTService(cfg.JWTSecret).GenerateToken(tokenSubject, tokenTTL)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
