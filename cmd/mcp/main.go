// Command mcp serves the directory tools over stdio for MCP clients.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"hreval/internal/app/server"
	"hreval/internal/domain/directory"
	"hreval/internal/platform/config"
	"hreval/internal/platform/logging"
	mcpserver "hreval/internal/transport/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// stdout carries the protocol, so logs must not go there.
	if cfg.Log.File != "" {
		_, closer := logging.Setup(cfg.Log)
		defer closer.Close()
	} else {
		slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, cfg.Log)))
	}

	if !cfg.LDAP.Enabled {
		slog.Warn("LDAP_ENABLED is false; every tool will report the directory as unavailable")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := directory.NewClient(server.DirectoryConfig(cfg.LDAP))
	if err := mcpserver.RunStdio(ctx, mcpserver.New(dir)); err != nil {
		slog.Error("mcp server failed", "err", err)
		os.Exit(1)
	}
}
