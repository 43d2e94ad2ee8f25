package role

import (
	"context"
	"fmt"
	"time"

	"github.com/jamesprial/discord-rest-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var destructiveTools = []string{"discord_remove_role"}

// DestructiveToolNames returns a copy of the destructive tool names list.
func DestructiveToolNames() []string {
	return append([]string(nil), destructiveTools...)
}

// RoleTools returns all tool registrations for Discord role operations.
func RoleTools(svc *Service, deps tools.Deps) []tools.Registration {
	deps = deps.WithDefaults()
	return []tools.Registration{
		toolListRoles(svc, deps),
		toolCreateRole(svc, deps),
		toolAddRole(svc, deps),
		toolRemoveRole(svc, deps),
	}
}

func guildIDParam() mcp.ToolOption {
	return mcp.WithString("guild_id",
		mcp.Description("Guild (server) ID (optional, uses default guild if omitted)"),
	)
}

func toolListRoles(svc *Service, deps tools.Deps) tools.Registration {
	const toolName = "discord_list_roles"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("List every role in a Discord guild, as returned by Discord."),
		mcp.WithReadOnlyHintAnnotation(true),
		guildIDParam(),
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

func toolCreateRole(svc *Service, deps tools.Deps) tools.Registration {
	const toolName = "discord_create_role"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Create a role in a Discord guild."),
		guildIDParam(),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Role name"),
		),
		mcp.WithNumber("color",
			mcp.Description("Role color as an RGB integer (default 0)"),
		),
		mcp.WithString("permissions",
			mcp.Description("Permission bitset as a decimal string (default \"0\")"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		in := CreateInput{
			GuildID:     deps.GuildID(req.GetString("guild_id", "")),
			Name:        req.GetString("name", ""),
			Color:       req.GetInt("color", 0),
			Permissions: req.GetString("permissions", "0"),
		}
		params := map[string]any{
			"guild_id":    in.GuildID,
			"name":        in.Name,
			"color":       in.Color,
			"permissions": in.Permissions,
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

func toolAddRole(svc *Service, deps tools.Deps) tools.Registration {
	return memberRoleTool(deps, "discord_add_role", "Assign a role to a guild member.", "assign", false, svc.Add)
}

func toolRemoveRole(svc *Service, deps tools.Deps) tools.Registration {
	return memberRoleTool(deps, "discord_remove_role", "Remove a role from a guild member. Requires confirmation.", "remove", true, svc.Remove)
}

type memberRoleFunc func(context.Context, MemberRoleInput) (MemberRoleOutput, error)

func memberRoleTool(deps tools.Deps, toolName, description, verb string, destructive bool, call memberRoleFunc) tools.Registration {
	opts := []mcp.ToolOption{
		mcp.WithDescription(description),
		guildIDParam(),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("User ID of the member"),
		),
		mcp.WithString("role_id",
			mcp.Required(),
			mcp.Description("Role ID"),
		),
	}
	if destructive {
		opts = append(opts,
			mcp.WithDestructiveHintAnnotation(true),
			mcp.WithString("confirmation_token",
				mcp.Description("Confirmation token returned by a prior call to this tool"),
			),
		)
	}
	tool := mcp.NewTool(toolName, opts...)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		in := MemberRoleInput{
			GuildID: deps.GuildID(req.GetString("guild_id", "")),
			UserID:  req.GetString("user_id", ""),
			RoleID:  req.GetString("role_id", ""),
		}
		params := map[string]any{
			"guild_id": in.GuildID,
			"user_id":  in.UserID,
			"role_id":  in.RoleID,
		}

		if err := in.Validate(); err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		if denied := deps.CheckGuild(toolName, in.GuildID, params, start); denied != nil {
			return denied, nil
		}
		desc := fmt.Sprintf("This will %s role %s for user %s in guild %s.", verb, in.RoleID, in.UserID, in.GuildID)
		if prompt := deps.Confirmation(toolName, req.GetString("confirmation_token", ""), in.UserID+"/"+in.RoleID, desc); prompt != nil {
			return prompt, nil
		}

		out, err := call(ctx, in)
		if err != nil {
			return tools.AuditErrorResult(deps.Audit, toolName, params, err, start), nil
		}
		return tools.AuditOK(deps.Audit, toolName, params, out, start), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
