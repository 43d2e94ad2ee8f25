package member

import (
	"context"
	"fmt"
	"time"

	"github.com/jamesprial/discord-rest-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var destructiveTools = []string{"discord_ban_user", "discord_kick_user"}

// DestructiveToolNames returns a copy of the destructive tool names list.
func DestructiveToolNames() []string {
	return append([]string(nil), destructiveTools...)
}

// MemberTools returns all tool registrations for Discord member operations.
func MemberTools(svc *Service, deps tools.Deps) []tools.Registration {
	deps = deps.WithDefaults()
	return []tools.Registration{
		toolGetMember(svc, deps),
		toolSetNickname(svc, deps),
		toolBanUser(svc, deps),
		toolUnbanUser(svc, deps),
		toolKickUser(svc, deps),
	}
}

// targetOptions are the guild_id and user_id parameters every member tool
// takes.
func targetOptions(userDesc string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("guild_id",
			mcp.Description("Guild (server) ID (optional, uses default guild if omitted)"),
		),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description(userDesc),
		),
	}
}

func confirmationOption() mcp.ToolOption {
	return mcp.WithString("confirmation_token",
		mcp.Description("Confirmation token returned by a prior call to this tool"),
	)
}

func targetFrom(deps tools.Deps, req mcp.CallToolRequest) Target {
	return Target{
		GuildID: deps.GuildID(req.GetString("guild_id", "")),
		UserID:  req.GetString("user_id", ""),
	}
}

// guard runs validation, the guild filter and, for destructive tools, the
// confirmation step. A non-nil result ends the call.
func guard(deps tools.Deps, toolName string, req mcp.CallToolRequest, t Target, params map[string]any, desc string, start time.Time) *mcp.CallToolResult {
	if err := t.Validate(); err != nil {
		return tools.AuditErrorResult(deps.Audit, toolName, params, err, start)
	}
	if denied := deps.CheckGuild(toolName, t.GuildID, params, start); denied != nil {
		return denied
	}
	return deps.Confirmation(toolName, req.GetString("confirmation_token", ""), t.UserID, desc)
}

func toolGetMember(svc *Service, deps tools.Deps) tools.Registration {
	const toolName = "discord_get_member"

	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Get a guild member's nickname, roles and join date."),
		mcp.WithReadOnlyHintAnnotation(true),
	}, targetOptions("User ID of the member")...)
	tool := mcp.NewTool(toolName, opts...)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		in := targetFrom(deps, req)
		params := map[string]any{"guild_id": in.GuildID, "user_id": in.UserID}

		if stop := guard(deps, toolName, req, in, params, "", start); stop != nil {
			return stop, nil
		}

		out, err := svc.Get(ctx, in)
		if err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		return tools.AuditOK(deps.Audit, toolName, params, out, start), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func toolSetNickname(svc *Service, deps tools.Deps) tools.Registration {
	const toolName = "discord_set_nickname"

	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Set a guild member's nickname. An empty nick resets it."),
	}, targetOptions("User ID of the member")...)
	opts = append(opts, mcp.WithString("nick",
		mcp.Description("New nickname (empty to reset)"),
	), confirmationOption())
	tool := mcp.NewTool(toolName, opts...)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		t := targetFrom(deps, req)
		in := SetNicknameInput{GuildID: t.GuildID, UserID: t.UserID, Nick: req.GetString("nick", "")}
		params := map[string]any{"guild_id": in.GuildID, "user_id": in.UserID, "nick": in.Nick}

		desc := fmt.Sprintf("This will change the nickname of user %s.", in.UserID)
		if stop := guard(deps, toolName, req, t, params, desc, start); stop != nil {
			return stop, nil
		}

		out, err := svc.SetNickname(ctx, in)
		if err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		return tools.AuditOK(deps.Audit, toolName, params, out, start), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func toolBanUser(svc *Service, deps tools.Deps) tools.Registration {
	const toolName = "discord_ban_user"

	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Ban a user from a guild. Requires confirmation."),
		mcp.WithDestructiveHintAnnotation(true),
	}, targetOptions("User ID to ban")...)
	opts = append(opts,
		mcp.WithString("reason",
			mcp.Description("Ban reason (optional)"),
		),
		mcp.WithNumber("delete_messages_days",
			mcp.Description("Days of the user's messages to delete, 0-7 (default 0)"),
			mcp.Min(0),
			mcp.Max(7),
		),
		confirmationOption(),
	)
	tool := mcp.NewTool(toolName, opts...)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		t := targetFrom(deps, req)
		in := BanInput{
			GuildID:            t.GuildID,
			UserID:             t.UserID,
			Reason:             req.GetString("reason", ""),
			DeleteMessagesDays: req.GetInt("delete_messages_days", 0),
		}
		params := map[string]any{
			"guild_id":             in.GuildID,
			"user_id":              in.UserID,
			"reason":               in.Reason,
			"delete_messages_days": in.DeleteMessagesDays,
		}

		desc := fmt.Sprintf("This will ban user %s from guild %s.", in.UserID, in.GuildID)
		if stop := guard(deps, toolName, req, t, params, desc, start); stop != nil {
			return stop, nil
		}

		out, err := svc.Ban(ctx, in)
		if err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		return tools.AuditOK(deps.Audit, toolName, params, out, start), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func toolUnbanUser(svc *Service, deps tools.Deps) tools.Registration {
	const toolName = "discord_unban_user"

	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Lift a user's ban from a guild."),
	}, targetOptions("User ID to unban")...)
	opts = append(opts, confirmationOption())
	tool := mcp.NewTool(toolName, opts...)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		in := targetFrom(deps, req)
		params := map[string]any{"guild_id": in.GuildID, "user_id": in.UserID}

		desc := fmt.Sprintf("This will unban user %s from guild %s.", in.UserID, in.GuildID)
		if stop := guard(deps, toolName, req, in, params, desc, start); stop != nil {
			return stop, nil
		}

		out, err := svc.Unban(ctx, in)
		if err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		return tools.AuditOK(deps.Audit, toolName, params, out, start), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func toolKickUser(svc *Service, deps tools.Deps) tools.Registration {
	const toolName = "discord_kick_user"

	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Kick a member from a guild. Requires confirmation."),
		mcp.WithDestructiveHintAnnotation(true),
	}, targetOptions("User ID to kick")...)
	opts = append(opts,
		mcp.WithString("reason",
			mcp.Description("Kick reason (optional)"),
		),
		confirmationOption(),
	)
	tool := mcp.NewTool(toolName, opts...)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		t := targetFrom(deps, req)
		in := KickInput{GuildID: t.GuildID, UserID: t.UserID, Reason: req.GetString("reason", "")}
		params := map[string]any{"guild_id": in.GuildID, "user_id": in.UserID, "reason": in.Reason}

		desc := fmt.Sprintf("This will kick user %s from guild %s.", in.UserID, in.GuildID)
		if stop := guard(deps, toolName, req, t, params, desc, start); stop != nil {
			return stop, nil
		}

		out, err := svc.Kick(ctx, in)
		if err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		return tools.AuditOK(deps.Audit, toolName, params, out, start), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
