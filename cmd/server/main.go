package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/splitledger/splitledger/internal/config"
	"github.com/splitledger/splitledger/internal/server"
	"github.com/splitledger/splitledger/internal/storage/sqlite"
	"github.com/splitledger/splitledger/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: ./config.yaml if present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level)

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Database.Path)

	srv := server.New(cfg, store)
	if err := srv.Start(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
