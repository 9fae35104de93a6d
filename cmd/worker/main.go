package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/helpbridge/helpbridge/internal/app/bootstrap"
)

func main() {
	configPath := flag.String("config", "configs/default.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := bootstrap.Load(*configPath)
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	rt, err := bootstrap.NewRuntime(ctx, cfg)
	if err != nil {
		slog.Error("runtime init failed", "error", err)
		os.Exit(1)
	}
	if err := rt.RunWorker(ctx); err != nil {
		rt.Logger.Error("worker exited with error", "error", err)
		os.Exit(1)
	}
}
