// Command server runs the Ultimate Kits backend.
//
// main stays minimal: load config, build the logger, connect the store,
// start the server. All logic lives in internal packages.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/miguelgnzalez28/ultimate-kits/internal/config"
	mongostore "github.com/miguelgnzalez28/ultimate-kits/internal/repository/mongo"
	"github.com/miguelgnzalez28/ultimate-kits/internal/server"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if cfg.GeneratedSecret {
		logger.Warn("JWT_SECRET not set, generated a random signing key; sessions will not survive a restart")
	}

	// A dead database is not fatal: the server degrades to image-proxy-only
	// mode, and the store-backed routes return 503.
	store, err := mongostore.New(context.Background(), cfg.MongoURL, cfg.DBName)
	if err != nil {
		logger.Warn("MongoDB unavailable, running as image proxy only",
			slog.String("error", err.Error()),
		)
		store = nil
	} else {
		logger.Info("MongoDB connected", slog.String("database", cfg.DBName))
	}

	srv, err := server.New(cfg, logger, store)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
