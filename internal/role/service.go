// Package role implements the Discord role operations and exposes them as MCP
// tools.
package role

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jamesprial/discord-rest-mcp/internal/discord"
	"github.com/jamesprial/discord-rest-mcp/internal/tools"
)

// Service performs role operations through a shared Discord client.
type Service struct {
	client discord.Requester
	logger *slog.Logger
}

// NewService returns a Service using client.
func NewService(client discord.Requester, logger *slog.Logger) *Service {
	return &Service{client: client, logger: tools.DefaultLogger(logger)}
}

// ListInput is the input to List.
type ListInput struct {
	GuildID string `json:"guild_id"`
}

// Validate checks the identifier fields.
func (in ListInput) Validate() error {
	return discord.ValidateSnowflake("guild_id", in.GuildID)
}

// ListOutput is the result of List. Roles are passed through unchanged.
type ListOutput struct {
	Roles []map[string]any `json:"roles"`
}

// CreateInput is the input to Create. Permissions is Discord's decimal
// permission bitset; empty means "0".
type CreateInput struct {
	GuildID     string `json:"guild_id"`
	Name        string `json:"name"`
	Color       int    `json:"color"`
	Permissions string `json:"permissions"`
}

// Validate checks the identifier fields.
func (in CreateInput) Validate() error {
	return discord.ValidateSnowflake("guild_id", in.GuildID)
}

// CreateOutput is the result of Create.
type CreateOutput struct {
	RoleID string `json:"role_id"`
	Name   string `json:"name"`
}

// MemberRoleInput identifies a role on a guild member. It is the input to
// both Add and Remove.
type MemberRoleInput struct {
	GuildID string `json:"guild_id"`
	UserID  string `json:"user_id"`
	RoleID  string `json:"role_id"`
}

// Validate checks the identifier fields.
func (in MemberRoleInput) Validate() error {
	return discord.ValidateSnowflakes(
		"guild_id", in.GuildID,
		"user_id", in.UserID,
		"role_id", in.RoleID,
	)
}

func (in MemberRoleInput) path() string {
	return "/guilds/" + in.GuildID + "/members/" + in.UserID + "/roles/" + in.RoleID
}

// MemberRoleOutput is the result of Add and Remove.
type MemberRoleOutput struct {
	UserID  string `json:"user_id"`
	RoleID  string `json:"role_id"`
	Success bool   `json:"success"`
}

type createBody struct {
	Name        string `json:"name"`
	Color       int    `json:"color"`
	Permissions string `json:"permissions"`
}

// List returns every role in a guild.
func (s *Service) List(ctx context.Context, in ListInput) (ListOutput, error) {
	if err := in.Validate(); err != nil {
		return ListOutput{}, err
	}
	s.logger.Info("listing roles", "guild_id", in.GuildID)

	res, err := s.client.Request(ctx, http.MethodGet, "/guilds/"+in.GuildID+"/roles", nil)
	if err != nil {
		return ListOutput{}, err
	}
	roles, err := discord.Objects(res)
	if err != nil {
		return ListOutput{}, err
	}
	return ListOutput{Roles: roles}, nil
}

// Create adds a role to a guild.
func (s *Service) Create(ctx context.Context, in CreateInput) (CreateOutput, error) {
	if err := in.Validate(); err != nil {
		return CreateOutput{}, err
	}
	perms := in.Permissions
	if perms == "" {
		perms = "0"
	}
	s.logger.Info("creating role", "guild_id", in.GuildID, "name", in.Name)

	body := createBody{Name: in.Name, Color: in.Color, Permissions: perms}
	res, err := s.client.Request(ctx, http.MethodPost, "/guilds/"+in.GuildID+"/roles", body)
	if err != nil {
		return CreateOutput{}, err
	}
	return CreateOutput{
		RoleID: res.Get("id").String(),
		Name:   res.Get("name").String(),
	}, nil
}

// Add assigns a role to a member.
func (s *Service) Add(ctx context.Context, in MemberRoleInput) (MemberRoleOutput, error) {
	return s.memberRole(ctx, http.MethodPut, "adding role", in)
}

// Remove takes a role away from a member.
func (s *Service) Remove(ctx context.Context, in MemberRoleInput) (MemberRoleOutput, error) {
	return s.memberRole(ctx, http.MethodDelete, "removing role", in)
}

func (s *Service) memberRole(ctx context.Context, method, action string, in MemberRoleInput) (MemberRoleOutput, error) {
	if err := in.Validate(); err != nil {
		return MemberRoleOutput{}, err
	}
	s.logger.Info(action, "guild_id", in.GuildID, "user_id", in.UserID, "role_id", in.RoleID)

	if _, err := s.client.Request(ctx, method, in.path(), nil); err != nil {
		return MemberRoleOutput{}, err
	}
	return MemberRoleOutput{UserID: in.UserID, RoleID: in.RoleID, Success: true}, nil
}
