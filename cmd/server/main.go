package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"figure-viewer/internal/env"
	"figure-viewer/internal/logger"
	"figure-viewer/internal/server"
	"figure-viewer/internal/viewerconfig"
)

const serverLogPath = "logs/server.txt"

func main() {
	envErr := env.Load(".env")
	cfg, cfgErr := viewerconfig.Load(viewerconfig.ConfigPath)
	cfg.ApplyEnv()

	logPath := cfg.Log.File
	if logPath == "" {
		logPath = serverLogPath
	}
	log := logger.New(logPath, logger.ParseLevel(cfg.Log.Level)).Slog()
	if envErr != nil {
		log.Warn("could not read .env", "err", envErr)
	}
	if cfgErr != nil {
		log.Warn("using default config", "err", cfgErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := server.Handler(server.Config{PublicDir: cfg.Server.PublicDir, ModelsDir: cfg.Server.ModelsDir}, log)
	if err := server.New(server.Addr(cfg.Server.Port), h, log).Run(ctx); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
