package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/remendec/Dozo-diet-planner-2.0/internal/app"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/config"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/logging"
	"github.com/remendec/Dozo-diet-planner-2.0/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Catalogs, metrics database and optional advisor
	rt, err := app.NewRuntime(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize runtime", zap.Error(err))
	}
	defer rt.Close()

	// 3. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, rt.App, rt.Metrics, logger.Named("telegram"))
	if err != nil {
		logger.Fatal("failed to initialize telegram bot", zap.Error(err))
	}

	mux := http.NewServeMux()
	bot.RegisterHandlers(mux)

	// 4. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("telegram bot server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
