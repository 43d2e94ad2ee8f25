package main

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jamesprial/discord-rest-mcp/internal/auth"
	"github.com/jamesprial/discord-rest-mcp/internal/channel"
	"github.com/jamesprial/discord-rest-mcp/internal/config"
	"github.com/jamesprial/discord-rest-mcp/internal/discord"
	"github.com/jamesprial/discord-rest-mcp/internal/guild"
	"github.com/jamesprial/discord-rest-mcp/internal/member"
	"github.com/jamesprial/discord-rest-mcp/internal/message"
	"github.com/jamesprial/discord-rest-mcp/internal/role"
	"github.com/jamesprial/discord-rest-mcp/internal/safety"
	"github.com/jamesprial/discord-rest-mcp/internal/tools"
	"github.com/jamesprial/discord-rest-mcp/internal/webhook"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newLogger builds the process logger from the logging section.
func newLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newDeps builds the safety collaborators shared by every tool handler.
func newDeps(cfg *config.Config, audit *safety.AuditLogger, logger *slog.Logger) tools.Deps {
	return tools.Deps{
		DefaultGuildID: cfg.Discord.GuildID,
		Channels:       safety.NewFilter(cfg.Safety.Channels.Allowlist, cfg.Safety.Channels.Denylist),
		Guilds:         safety.NewFilter(cfg.Safety.Guilds.Allowlist, cfg.Safety.Guilds.Denylist),
		Confirm:        safety.NewConfirmationTracker(cfg.Safety.DestructiveTools),
		Audit:          audit,
		Logger:         logger,
	}
}

// buildRegistrations wires one service per operation group onto client and
// returns every MCP tool.
func buildRegistrations(client discord.Requester, deps tools.Deps) []tools.Registration {
	logger := deps.Logger

	var regs []tools.Registration
	regs = append(regs, message.MessageTools(message.NewService(client, logger), deps)...)
	regs = append(regs, channel.ChannelTools(channel.NewService(client, logger), deps)...)
	regs = append(regs, guild.GuildTools(guild.NewService(client, logger), deps)...)
	regs = append(regs, role.RoleTools(role.NewService(client, logger), deps)...)
	regs = append(regs, member.MemberTools(member.NewService(client, logger), deps)...)
	regs = append(regs, webhook.WebhookTools(webhook.NewService(client, logger), deps)...)
	return regs
}

// newRouter mounts the MCP handler behind bearer auth alongside the health
// and metrics endpoints.
func newRouter(mcpHandler http.Handler, authToken string, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.NewAuthMiddleware(authToken, logger))
		r.Handle("/mcp", mcpHandler)
	})
	return r
}
