package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	"github.com/meltforce/healthbridge/internal/bridge"
	"github.com/meltforce/healthbridge/internal/config"
	"github.com/meltforce/healthbridge/internal/mcp"
	"github.com/meltforce/healthbridge/internal/models"
	"github.com/meltforce/healthbridge/internal/native"
	"github.com/meltforce/healthbridge/internal/native/healthconnect"
	"github.com/meltforce/healthbridge/internal/native/healthkit"
	"github.com/meltforce/healthbridge/internal/native/store"
	"github.com/meltforce/healthbridge/internal/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	log.Info("HealthBridge starting", "version", Version, "platform", cfg.Platform)

	// Open the on-device sample store (migrations run on open)
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		log.Error("failed to open store", "path", cfg.Store.Path, "error", err)
		os.Exit(1)
	}
	defer st.Close()
	log.Info("store ready", "path", cfg.Store.Path)

	// Select the native transport for the configured platform
	platform := models.Platform(cfg.Platform)
	var transport native.Transport
	switch platform {
	case models.PlatformHealthKit:
		transport = healthkit.New(st, log)
	case models.PlatformHealthConnect:
		transport = healthconnect.New(st, log)
	}

	svc := bridge.New(platform, transport, bridge.Options{
		DefaultLimit: cfg.Bridge.DefaultLimit,
		SessionGap:   cfg.Bridge.SessionGap(),
		PollInterval: cfg.Bridge.PollInterval(),
		RecentWindow: cfg.Bridge.RecentWindow(),
	}, log)

	srv := server.New(svc, cfg.Auth.APIKey, log)

	// Mount the MCP surface on the same listener
	mcpSrv := mcp.New(svc, Version, log)
	srv.Router().Mount("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv))

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
