package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/app"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/server"
)

const shutdownTimeout = 10 * time.Second

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the plan generation, calorie and metrics endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (defaults to APP_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, plan endpoints are unauthenticated")
	}

	rt, err := app.NewRuntime(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	srv := server.New(rt.App, rt.Metrics, server.Options{
		JWTSecret:       cfg.JWTSecret,
		RateLimitPerMin: cfg.RateLimitPerMin,
		AllowedOrigins:  cfg.AllowedOrigins(),
		DatabasePath:    cfg.DatabasePath,
		TrustedProxies:  cfg.TrustedProxyList(),
	}, logger.Named("http"))

	port := servePort
	if port == "" {
		port = cfg.AppPort
	}
	httpSrv := &http.Server{
		Addr:              ":" + port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", zap.String("port", port), zap.Strings("locations", rt.App.Locations()))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
