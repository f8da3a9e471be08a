// Command swim-archive-api serves archive search over HTTP.
//
// Usage:
//
//	swim-archive-api
//	SWIM_ADDR=:8080 SWIM_BASE_URL=https://archive.example.org swim-archive-api
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pfrederiksen/swim-archive/internal/api"
	"github.com/pfrederiksen/swim-archive/internal/config"
	"github.com/pfrederiksen/swim-archive/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", nil, err)
		os.Exit(1)
	}
	logger.SetDefault(logger.New(logger.ParseLevel(cfg.LogLevel), os.Stderr))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := api.Run(ctx, cfg); err != nil {
		logger.Error("Server failed", nil, err)
		os.Exit(1)
	}
}
