// Package tools provides shared helper utilities for MCP tool handlers.
package tools

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jamesprial/discord-rest-mcp/internal/safety"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Registration pairs an MCP tool definition with its handler.
type Registration struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

// RegisterAll adds every registration to s.
func RegisterAll(s *server.MCPServer, regs []Registration) {
	for _, reg := range regs {
		s.AddTool(reg.Tool, reg.Handler)
	}
}

// Deps bundles the cross-cutting collaborators tool handlers share. Every
// field may be nil: nil filters allow everything, a nil tracker never asks
// for confirmation, and a nil audit logger discards entries.
type Deps struct {
	// DefaultGuildID is used by guild-scoped tools when guild_id is omitted.
	DefaultGuildID string

	Channels *safety.Filter
	Guilds   *safety.Filter
	Confirm  *safety.ConfirmationTracker
	Audit    *safety.AuditLogger
	Logger   *slog.Logger
}

// WithDefaults returns d with a non-nil Logger.
func (d Deps) WithDefaults() Deps {
	d.Logger = DefaultLogger(d.Logger)
	return d
}

// GuildID returns id, or DefaultGuildID when id is empty.
func (d Deps) GuildID(id string) string {
	if id == "" {
		return d.DefaultGuildID
	}
	return id
}

// JSONResult marshals v to indented JSON and returns an mcp.CallToolResult.
func JSONResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error marshaling result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// ErrorResult returns an mcp.CallToolResult that describes an error condition.
func ErrorResult(msg string) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("error: %s", msg))
}

// LogAudit logs a tool invocation to the audit logger, silently ignoring a nil logger.
func LogAudit(audit *safety.AuditLogger, toolName string, params map[string]any, result string, start time.Time) {
	if audit == nil {
		return
	}
	_ = audit.Log(safety.AuditEntry{
		Timestamp: start,
		Tool:      toolName,
		Params:    params,
		Result:    result,
		Duration:  time.Since(start),
	})
}

// AuditErrorResult logs the error to the audit logger and returns an ErrorResult.
func AuditErrorResult(audit *safety.AuditLogger, toolName string, params map[string]any, err error, start time.Time) *mcp.CallToolResult {
	LogAudit(audit, toolName, params, "error: "+err.Error(), start)
	return ErrorResult(err.Error())
}

// AuditOK logs a successful invocation and returns v as a JSON result.
func AuditOK(audit *safety.AuditLogger, toolName string, params map[string]any, v any, start time.Time) *mcp.CallToolResult {
	LogAudit(audit, toolName, params, "ok", start)
	return JSONResult(v)
}

// ConfirmPrompt issues a confirmation request and returns the prompt result.
func ConfirmPrompt(confirm *safety.ConfirmationTracker, toolName, resource, description string) *mcp.CallToolResult {
	token := confirm.RequestConfirmation(toolName, resource, description)
	return mcp.NewToolResultText(fmt.Sprintf(
		"Confirmation required for %s on %q.\n\n%s\n\nTo proceed, call %s again with confirmation_token=%q.",
		toolName, resource, description, toolName, token,
	))
}

// DefaultLogger returns l if non-nil, otherwise slog.Default().
func DefaultLogger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// CheckChannel returns a non-nil error result when channelID is not allowed
// by the channel filter.
func (d Deps) CheckChannel(toolName, channelID string, params map[string]any, start time.Time) *mcp.CallToolResult {
	return d.check(d.Channels, "channel", toolName, channelID, params, start)
}

// CheckGuild returns a non-nil error result when guildID is not allowed by
// the guild filter.
func (d Deps) CheckGuild(toolName, guildID string, params map[string]any, start time.Time) *mcp.CallToolResult {
	return d.check(d.Guilds, "guild", toolName, guildID, params, start)
}

func (d Deps) check(f *safety.Filter, kind, toolName, id string, params map[string]any, start time.Time) *mcp.CallToolResult {
	if f.IsAllowed(id) {
		return nil
	}
	DefaultLogger(d.Logger).Debug("access denied", "tool", toolName, kind, id)
	LogAudit(d.Audit, toolName, params, "denied", start)
	return ErrorResult(fmt.Sprintf("access to %s %q is not allowed", kind, id))
}

// Confirmation returns a confirmation prompt when toolName is destructive and
// token does not redeem a prompt previously issued for the same resource. It
// returns nil when the handler may proceed.
func (d Deps) Confirmation(toolName, token, resource, description string) *mcp.CallToolResult {
	if !d.Confirm.NeedsConfirmation(toolName) {
		return nil
	}
	if d.Confirm.ConfirmTool(toolName, resource, token) {
		return nil
	}
	DefaultLogger(d.Logger).Debug("confirmation required", "tool", toolName, "resource", resource)
	return ConfirmPrompt(d.Confirm, toolName, resource, description)
}
