package message

import (
	"context"
	"fmt"
	"time"

	"github.com/jamesprial/discord-rest-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func toolDeleteMessage(svc *Service, deps tools.Deps) tools.Registration {
	const toolName = "discord_delete_message"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Delete a Discord message. Requires confirmation."),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithString("channel_id",
			mcp.Required(),
			mcp.Description("Channel ID (snowflake)"),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("ID of the message to delete"),
		),
		mcp.WithString("confirmation_token",
			mcp.Description("Confirmation token returned by a prior call to this tool"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		in := DeleteInput{
			ChannelID: req.GetString("channel_id", ""),
			MessageID: req.GetString("message_id", ""),
		}
		token := req.GetString("confirmation_token", "")
		params := map[string]any{"channel_id": in.ChannelID, "message_id": in.MessageID}

		if err := in.Validate(); err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		if denied := deps.CheckChannel(toolName, in.ChannelID, params, start); denied != nil {
			return denied, nil
		}
		desc := fmt.Sprintf("This will permanently delete message %s from channel %s.", in.MessageID, in.ChannelID)
		if prompt := deps.Confirmation(toolName, token, in.MessageID, desc); prompt != nil {
			return prompt, nil
		}

		out, err := svc.Delete(ctx, in)
		if err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		return tools.AuditOK(deps.Audit, toolName, params, out, start), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
