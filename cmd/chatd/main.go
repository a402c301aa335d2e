package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/AleLBO/chatIRC-epitech/internal/auth"
	"github.com/AleLBO/chatIRC-epitech/internal/membership"
	"github.com/AleLBO/chatIRC-epitech/internal/server"
	"github.com/AleLBO/chatIRC-epitech/pkg/config"
	"github.com/AleLBO/chatIRC-epitech/pkg/logging"
)

func main() {
	logger := logging.New(logging.LevelInfo)
	slog.SetDefault(logger)

	cfg, err := config.Load(logger, "config")
	if err != nil {
		logger.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger = logging.New(logging.ParseLevel(cfg.Log.Level))
	slog.SetDefault(logger)

	verifier := auth.NewJWTVerifier(cfg.Server.Auth.JWTSecret)
	oracle, err := membership.NewStaticOracleFromSeed(cfg.Membership.Servers)
	if err != nil {
		logger.Error("Failed to build membership oracle", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := server.NewApp(logger, ctx, cfg, verifier, oracle)
	if err := app.Run(); err != nil {
		logger.Error("Application run failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Application shut down successfully.")
}
