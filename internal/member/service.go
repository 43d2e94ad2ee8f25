// Package member implements the Discord guild member and moderation
// operations and exposes them as MCP tools.
package member

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jamesprial/discord-rest-mcp/internal/discord"
	"github.com/jamesprial/discord-rest-mcp/internal/tools"
)

// Service performs member operations through a shared Discord client.
type Service struct {
	client discord.Requester
	logger *slog.Logger
}

// NewService returns a Service using client.
func NewService(client discord.Requester, logger *slog.Logger) *Service {
	return &Service{client: client, logger: tools.DefaultLogger(logger)}
}

// Target identifies a user within a guild. It is the input to Get and Unban.
type Target struct {
	GuildID string `json:"guild_id"`
	UserID  string `json:"user_id"`
}

// Validate checks the identifier fields.
func (in Target) Validate() error {
	return discord.ValidateSnowflakes("guild_id", in.GuildID, "user_id", in.UserID)
}

func (in Target) memberPath() string {
	return "/guilds/" + in.GuildID + "/members/" + in.UserID
}

func (in Target) banPath() string {
	return "/guilds/" + in.GuildID + "/bans/" + in.UserID
}

// GetOutput is the result of Get.
type GetOutput struct {
	UserID   string   `json:"user_id"`
	Nick     *string  `json:"nick"`
	Roles    []string `json:"roles"`
	JoinedAt *string  `json:"joined_at"`
}

// SetNicknameInput is the input to SetNickname. An empty Nick resets the
// member's nickname.
type SetNicknameInput struct {
	GuildID string `json:"guild_id"`
	UserID  string `json:"user_id"`
	Nick    string `json:"nick"`
}

// Validate checks the identifier fields.
func (in SetNicknameInput) Validate() error {
	return Target{GuildID: in.GuildID, UserID: in.UserID}.Validate()
}

// SetNicknameOutput is the result of SetNickname. Nick is nil after a reset.
type SetNicknameOutput struct {
	UserID string  `json:"user_id"`
	Nick   *string `json:"nick"`
}

// BanInput is the input to Ban. An empty Reason is left out of the request.
type BanInput struct {
	GuildID            string `json:"guild_id"`
	UserID             string `json:"user_id"`
	Reason             string `json:"reason,omitempty"`
	DeleteMessagesDays int    `json:"delete_messages_days"`
}

// Validate checks the identifier fields.
func (in BanInput) Validate() error {
	return Target{GuildID: in.GuildID, UserID: in.UserID}.Validate()
}

// BanOutput is the result of Ban.
type BanOutput struct {
	UserID string `json:"user_id"`
	Banned bool   `json:"banned"`
}

// UnbanOutput is the result of Unban.
type UnbanOutput struct {
	UserID   string `json:"user_id"`
	Unbanned bool   `json:"unbanned"`
}

// KickInput is the input to Kick. An empty Reason sends no query string.
type KickInput struct {
	GuildID string `json:"guild_id"`
	UserID  string `json:"user_id"`
	Reason  string `json:"reason,omitempty"`
}

// Validate checks the identifier fields.
func (in KickInput) Validate() error {
	return Target{GuildID: in.GuildID, UserID: in.UserID}.Validate()
}

// KickOutput is the result of Kick.
type KickOutput struct {
	UserID string `json:"user_id"`
	Kicked bool   `json:"kicked"`
}

type nickBody struct {
	Nick *string `json:"nick"`
}

type banBody struct {
	DeleteMessageDays int    `json:"delete_message_days"`
	Reason            string `json:"reason,omitempty"`
}

// Get fetches a guild member.
func (s *Service) Get(ctx context.Context, in Target) (GetOutput, error) {
	if err := in.Validate(); err != nil {
		return GetOutput{}, err
	}
	s.logger.Debug("fetching member", "guild_id", in.GuildID, "user_id", in.UserID)

	res, err := s.client.Request(ctx, http.MethodGet, in.memberPath(), nil)
	if err != nil {
		return GetOutput{}, err
	}
	return GetOutput{
		UserID:   res.Get("user.id").String(),
		Nick:     discord.OptString(res.Get("nick")),
		Roles:    discord.Strings(res.Get("roles")),
		JoinedAt: discord.OptString(res.Get("joined_at")),
	}, nil
}

// SetNickname changes or resets a member's nickname.
func (s *Service) SetNickname(ctx context.Context, in SetNicknameInput) (SetNicknameOutput, error) {
	if err := in.Validate(); err != nil {
		return SetNicknameOutput{}, err
	}
	var nick *string
	if in.Nick != "" {
		nick = &in.Nick
	}
	s.logger.Info("setting nickname", "guild_id", in.GuildID, "user_id", in.UserID, "reset", nick == nil)

	target := Target{GuildID: in.GuildID, UserID: in.UserID}
	if _, err := s.client.Request(ctx, http.MethodPatch, target.memberPath(), nickBody{Nick: nick}); err != nil {
		return SetNicknameOutput{}, err
	}
	return SetNicknameOutput{UserID: in.UserID, Nick: nick}, nil
}

// Ban bans a user from a guild, optionally deleting their recent messages.
func (s *Service) Ban(ctx context.Context, in BanInput) (BanOutput, error) {
	if err := in.Validate(); err != nil {
		return BanOutput{}, err
	}
	s.logger.Info("banning user", "guild_id", in.GuildID, "user_id", in.UserID)

	target := Target{GuildID: in.GuildID, UserID: in.UserID}
	body := banBody{DeleteMessageDays: in.DeleteMessagesDays, Reason: in.Reason}
	if _, err := s.client.Request(ctx, http.MethodPut, target.banPath(), body); err != nil {
		return BanOutput{}, err
	}
	return BanOutput{UserID: in.UserID, Banned: true}, nil
}

// Unban lifts a ban.
func (s *Service) Unban(ctx context.Context, in Target) (UnbanOutput, error) {
	if err := in.Validate(); err != nil {
		return UnbanOutput{}, err
	}
	s.logger.Info("unbanning user", "guild_id", in.GuildID, "user_id", in.UserID)

	if _, err := s.client.Request(ctx, http.MethodDelete, in.banPath(), nil); err != nil {
		return UnbanOutput{}, err
	}
	return UnbanOutput{UserID: in.UserID, Unbanned: true}, nil
}

// Kick removes a member from a guild. The reason travels percent-encoded in
// the query string.
func (s *Service) Kick(ctx context.Context, in KickInput) (KickOutput, error) {
	if err := in.Validate(); err != nil {
		return KickOutput{}, err
	}
	s.logger.Info("kicking user", "guild_id", in.GuildID, "user_id", in.UserID)

	path := Target{GuildID: in.GuildID, UserID: in.UserID}.memberPath()
	if in.Reason != "" {
		path += "?" + url.Values{"reason": {in.Reason}}.Encode()
	}
	if _, err := s.client.Request(ctx, http.MethodDelete, path, nil); err != nil {
		return KickOutput{}, err
	}
	return KickOutput{UserID: in.UserID, Kicked: true}, nil
}
