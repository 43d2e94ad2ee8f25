// Command discord-rest-mcp serves a subset of the Discord REST API as MCP
// tools over stdio or streamable HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jamesprial/discord-rest-mcp/internal/config"
	"github.com/jamesprial/discord-rest-mcp/internal/discord"
	"github.com/jamesprial/discord-rest-mcp/internal/safety"
	"github.com/jamesprial/discord-rest-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

const (
	defaultConfigPath = "config.yaml"
	defaultEnvFile    = ".env"
	serverName        = "discord-rest-mcp"
	serverVersion     = "1.0.0"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	path := os.Getenv("DISCORD_REST_CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := config.Load(path, defaultEnvFile)
	if err != nil {
		return err
	}

	// Stdout carries the stdio transport, so logs always go to stderr.
	logger := newLogger(cfg.Logging, os.Stderr)
	slog.SetDefault(logger)
	logger.Info("config loaded", "path", path, "api_base", cfg.Discord.APIBase)

	var audit *safety.AuditLogger
	if cfg.Audit.Enabled {
		f, err := os.OpenFile(cfg.Audit.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			logger.Warn("audit logging disabled", "path", cfg.Audit.LogPath, "error", err)
		} else {
			audit = safety.NewAuditLogger(f)
			defer func() { _ = f.Close() }()
		}
	}

	client, err := discord.NewClient(discord.Options{
		Token:        cfg.Discord.Token,
		BaseURL:      cfg.Discord.APIBase,
		UserAgent:    cfg.Discord.UserAgent,
		Timeout:      cfg.Discord.RequestTimeout,
		MaxIdleConns: cfg.Discord.MaxIdleConns,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	// Close runs after serving stops, so no request is in flight.
	defer client.Close()

	mcpServer := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(false))
	regs := buildRegistrations(client, newDeps(cfg, audit, logger))
	tools.RegisterAll(mcpServer, regs)
	logger.Info("tools registered", "count", len(regs))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if useStdio() {
		logger.Info("starting in stdio mode")
		return server.ServeStdio(mcpServer)
	}
	return serveHTTP(ctx, cfg, mcpServer, logger)
}

func serveHTTP(ctx context.Context, cfg *config.Config, mcpServer *server.MCPServer, logger *slog.Logger) error {
	if cfg.Server.AuthToken == "" {
		logger.Warn("DISCORD_REST_AUTH_TOKEN is empty; the MCP endpoint is unauthenticated")
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(server.NewStreamableHTTPServer(mcpServer), cfg.Server.AuthToken, logger),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// useStdio reports whether --stdio was passed on the command line.
func useStdio() bool {
	for _, arg := range os.Args[1:] {
		if arg == "--stdio" {
			return true
		}
	}
	return false
}
