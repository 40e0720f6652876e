package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"golang.org/x/sync/errgroup"

	"figure-viewer/internal/debug"
	"figure-viewer/internal/env"
	"figure-viewer/internal/graphics"
	"figure-viewer/internal/logger"
	"figure-viewer/internal/modelload"
	"figure-viewer/internal/server"
	"figure-viewer/internal/viewer"
	"figure-viewer/internal/viewerconfig"
)

func init() {
	// raylib calls must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	envErr := env.Load(".env")
	cfg, cfgErr := viewerconfig.Load(viewerconfig.ConfigPath)
	cfg.ApplyEnv()

	sink := logger.New(cfg.Log.File, logger.ParseLevel(cfg.Log.Level))
	log := sink.Slog()
	if envErr != nil {
		log.Warn("could not read .env", "err", envErr)
	}
	if cfgErr != nil {
		log.Warn("using default config", "err", cfgErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	loader := &modelload.Loader{Base: cfg.Server.ModelsDir, Log: log}
	if cfg.Viewer.Serve {
		ln, err := net.Listen("tcp", "127.0.0.1:"+cfg.Server.Port)
		if err != nil {
			log.Error("could not start asset server", "err", err)
			os.Exit(1)
		}
		h := server.Handler(server.Config{PublicDir: cfg.Server.PublicDir, ModelsDir: cfg.Server.ModelsDir}, log)
		srv := server.New(ln.Addr().String(), h, log)
		g.Go(func() error { return srv.Serve(ctx, ln) })
		loader.Base = "http://" + ln.Addr().String() + "/models/"
	}

	graphics.Open(cfg.Viewer.Width, cfg.Viewer.Height, cfg.Viewer.Title)
	renderer := graphics.NewRenderer(log)
	vc := viewer.New(cfg, renderer, log)

	overlay := debug.New()
	overlay.ShowFPS = cfg.Viewer.ShowFPS
	overlay.ShowMemAlloc = cfg.Viewer.ShowFPS
	overlay.ShowLog = cfg.Viewer.ShowLog
	overlay.Lines = sink.Lines
	overlay.Status = func() string { return "model: " + vc.State().String() }
	renderer.Overlay = overlay.Draw

	vc.StartModelLoad(ctx, loader, cfg.Viewer.ModelURL)
	frames := graphics.Frames{Controls: vc.Controls, OnResize: vc.Resize, Input: overlay.Toggle}
	runErr := viewer.Run(ctx, frames, vc)

	renderer.Close()
	graphics.Close()
	stop()
	if err := g.Wait(); err != nil {
		log.Error("asset server stopped", "err", err)
	}
	if runErr != nil {
		log.Error("viewer stopped", "err", runErr)
		os.Exit(1)
	}
}
