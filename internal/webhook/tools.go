package webhook

import (
	"context"
	"time"

	"github.com/jamesprial/discord-rest-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// WebhookTools returns all tool registrations for Discord webhook operations.
func WebhookTools(svc *Service, deps tools.Deps) []tools.Registration {
	deps = deps.WithDefaults()
	return []tools.Registration{
		toolCreateWebhook(svc, deps),
		toolExecuteWebhook(svc, deps),
	}
}

func toolCreateWebhook(svc *Service, deps tools.Deps) tools.Registration {
	const toolName = "discord_create_webhook"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Create a webhook in a Discord channel."),
		mcp.WithString("channel_id",
			mcp.Required(),
			mcp.Description("Channel ID (snowflake)"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Webhook name"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		in := CreateInput{
			ChannelID: req.GetString("channel_id", ""),
			Name:      req.GetString("name", ""),
		}
		params := map[string]any{"channel_id": in.ChannelID, "name": in.Name}

		if err := in.Validate(); err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		if denied := deps.CheckChannel(toolName, in.ChannelID, params, start); denied != nil {
			return denied, nil
		}

		out, err := svc.Create(ctx, in)
		if err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		// The webhook token stays out of the audit trail.
		tools.LogAudit(deps.Audit, toolName, params, "ok: "+out.WebhookID, start)
		return tools.JSONResult(out), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func toolExecuteWebhook(svc *Service, deps tools.Deps) tools.Registration {
	const toolName = "discord_execute_webhook"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Post a message through a webhook. Not supported with a bot token; always fails."),
		mcp.WithString("webhook_id",
			mcp.Required(),
			mcp.Description("Webhook ID"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Message content"),
		),
		mcp.WithString("username",
			mcp.Description("Override username"),
		),
		mcp.WithString("avatar_url",
			mcp.Description("Override avatar URL"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		in := ExecuteInput{
			WebhookID: req.GetString("webhook_id", ""),
			Content:   req.GetString("content", ""),
			Username:  req.GetString("username", ""),
			AvatarURL: req.GetString("avatar_url", ""),
		}
		params := map[string]any{"webhook_id": in.WebhookID}

		out, err := svc.Execute(ctx, in)
		if err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		return tools.AuditOK(deps.Audit, toolName, params, out, start), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
