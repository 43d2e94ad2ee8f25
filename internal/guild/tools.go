package guild

import (
	"context"
	"time"

	"github.com/jamesprial/discord-rest-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GuildTools returns all tool registrations for Discord guild operations.
func GuildTools(svc *Service, deps tools.Deps) []tools.Registration {
	deps = deps.WithDefaults()
	return []tools.Registration{
		toolGetGuild(svc, deps),
	}
}

func toolGetGuild(svc *Service, deps tools.Deps) tools.Registration {
	const toolName = "discord_get_guild"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Get information about a Discord guild (server), including its approximate member count."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("guild_id",
			mcp.Description("Guild (server) ID (optional, uses default guild if omitted)"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		in := GetInput{GuildID: deps.GuildID(req.GetString("guild_id", ""))}
		params := map[string]any{"guild_id": in.GuildID}

		if err := in.Validate(); err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		if denied := deps.CheckGuild(toolName, in.GuildID, params, start); denied != nil {
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
