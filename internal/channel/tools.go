package channel

import (
	"context"
	"time"

	"github.com/jamesprial/discord-rest-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ChannelTools returns all tool registrations for Discord channel operations.
func ChannelTools(svc *Service, deps tools.Deps) []tools.Registration {
	deps = deps.WithDefaults()
	return []tools.Registration{
		toolGetChannel(svc, deps),
		toolListChannels(svc, deps),
		toolCreateChannel(svc, deps),
	}
}

func toolGetChannel(svc *Service, deps tools.Deps) tools.Registration {
	const toolName = "discord_get_channel"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Get information about a Discord channel."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("channel_id",
			mcp.Required(),
			mcp.Description("Channel ID (snowflake)"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		in := GetInput{ChannelID: req.GetString("channel_id", "")}
		params := map[string]any{"channel_id": in.ChannelID}

		if err := in.Validate(); err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		if denied := deps.CheckChannel(toolName, in.ChannelID, params, start); denied != nil {
			return denied, nil
		}

		out, err := svc.Get(ctx, in)
		if err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		return tools.AuditOK(deps.Audit, toolName, params, out, start), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func toolListChannels(svc *Service, deps tools.Deps) tools.Registration {
	const toolName = "discord_list_channels"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("List every channel in a Discord guild, as returned by Discord."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("guild_id",
			mcp.Description("Guild (server) ID (optional, uses default guild if omitted)"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		in := ListInput{GuildID: deps.GuildID(req.GetString("guild_id", ""))}
		params := map[string]any{"guild_id": in.GuildID}

		if err := in.Validate(); err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		if denied := deps.CheckGuild(toolName, in.GuildID, params, start); denied != nil {
			return denied, nil
		}

		out, err := svc.List(ctx, in)
		if err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		return tools.AuditOK(deps.Audit, toolName, params, out, start), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func toolCreateChannel(svc *Service, deps tools.Deps) tools.Registration {
	const toolName = "discord_create_channel"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Create a channel in a Discord guild."),
		mcp.WithString("guild_id",
			mcp.Description("Guild (server) ID (optional, uses default guild if omitted)"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Channel name"),
		),
		mcp.WithString("channel_type",
			mcp.Description("Channel type: text, voice, category, forum or stage (default text)"),
			mcp.DefaultString("text"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		in := CreateInput{
			GuildID:     deps.GuildID(req.GetString("guild_id", "")),
			Name:        req.GetString("name", ""),
			ChannelType: req.GetString("channel_type", "text"),
		}
		params := map[string]any{
			"guild_id":     in.GuildID,
			"name":         in.Name,
			"channel_type": in.ChannelType,
		}

		if err := in.Validate(); err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		if denied := deps.CheckGuild(toolName, in.GuildID, params, start); denied != nil {
			return denied, nil
		}

		out, err := svc.Create(ctx, in)
		if err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		return tools.AuditOK(deps.Audit, toolName, params, out, start), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
