package message

import (
	"context"
	"time"

	"github.com/jamesprial/discord-rest-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func toolEditMessage(svc *Service, deps tools.Deps) tools.Registration {
	const toolName = "discord_edit_message"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Edit a message previously sent by the bot."),
		mcp.WithString("channel_id",
			mcp.Required(),
			mcp.Description("Channel ID (snowflake)"),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("ID of the message to edit"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("New message content"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		in := EditInput{
			ChannelID: req.GetString("channel_id", ""),
			MessageID: req.GetString("message_id", ""),
			Content:   req.GetString("content", ""),
		}
		params := map[string]any{
			"channel_id": in.ChannelID,
			"message_id": in.MessageID,
			"content":    in.Content,
		}

		if err := in.Validate(); err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		if denied := deps.CheckChannel(toolName, in.ChannelID, params, start); denied != nil {
			return denied, nil
		}

		out, err := svc.Edit(ctx, in)
		if err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		return tools.AuditOK(deps.Audit, toolName, params, out, start), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
