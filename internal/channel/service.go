// Package channel implements the Discord channel operations and exposes them
// as MCP tools.
package channel

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/jamesprial/discord-rest-mcp/internal/discord"
	"github.com/jamesprial/discord-rest-mcp/internal/tools"
)

// channelTypes maps the accepted channel_type names onto Discord's integer
// channel types.
var channelTypes = map[string]discordgo.ChannelType{
	"text":     discordgo.ChannelTypeGuildText,
	"voice":    discordgo.ChannelTypeGuildVoice,
	"category": discordgo.ChannelTypeGuildCategory,
	"forum":    discordgo.ChannelTypeGuildForum,
	"stage":    discordgo.ChannelTypeGuildStageVoice,
}

// TypeFromName returns the Discord channel type for name, ignoring case.
// Unknown names map to a text channel.
func TypeFromName(name string) int {
	if t, ok := channelTypes[strings.ToLower(name)]; ok {
		return int(t)
	}
	return int(discordgo.ChannelTypeGuildText)
}

// Service performs channel operations through a shared Discord client.
type Service struct {
	client discord.Requester
	logger *slog.Logger
}

// NewService returns a Service using client.
func NewService(client discord.Requester, logger *slog.Logger) *Service {
	return &Service{client: client, logger: tools.DefaultLogger(logger)}
}

// GetInput is the input to Get.
type GetInput struct {
	ChannelID string `json:"channel_id"`
}

// Validate checks the identifier fields.
func (in GetInput) Validate() error {
	return discord.ValidateSnowflake("channel_id", in.ChannelID)
}

// GetOutput is the result of Get. Optional fields are nil when Discord omits
// them.
type GetOutput struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     int     `json:"type"`
	Position *int    `json:"position"`
	Topic    *string `json:"topic"`
	NSFW     *bool   `json:"nsfw"`
}

// ListInput is the input to List.
type ListInput struct {
	GuildID string `json:"guild_id"`
}

// Validate checks the identifier fields.
func (in ListInput) Validate() error {
	return discord.ValidateSnowflake("guild_id", in.GuildID)
}

// ListOutput is the result of List. Channels are passed through unchanged.
type ListOutput struct {
	Channels []map[string]any `json:"channels"`
}

// CreateInput is the input to Create. ChannelType is one of text, voice,
// category, forum or stage; anything else creates a text channel.
type CreateInput struct {
	GuildID     string `json:"guild_id"`
	Name        string `json:"name"`
	ChannelType string `json:"channel_type"`
}

// Validate checks the identifier fields.
func (in CreateInput) Validate() error {
	return discord.ValidateSnowflake("guild_id", in.GuildID)
}

// CreateOutput is the result of Create.
type CreateOutput struct {
	ChannelID string `json:"channel_id"`
	Name      string `json:"name"`
	Type      int    `json:"type"`
}

type createBody struct {
	Name string `json:"name"`
	Type int    `json:"type"`
}

// Get fetches a single channel.
func (s *Service) Get(ctx context.Context, in GetInput) (GetOutput, error) {
	if err := in.Validate(); err != nil {
		return GetOutput{}, err
	}
	s.logger.Debug("fetching channel", "channel_id", in.ChannelID)

	res, err := s.client.Request(ctx, http.MethodGet, "/channels/"+in.ChannelID, nil)
	if err != nil {
		return GetOutput{}, err
	}
	return GetOutput{
		ID:       res.Get("id").String(),
		Name:     res.Get("name").String(),
		Type:     int(res.Get("type").Int()),
		Position: discord.OptInt(res.Get("position")),
		Topic:    discord.OptString(res.Get("topic")),
		NSFW:     discord.OptBool(res.Get("nsfw")),
	}, nil
}

// List returns every channel in a guild.
func (s *Service) List(ctx context.Context, in ListInput) (ListOutput, error) {
	if err := in.Validate(); err != nil {
		return ListOutput{}, err
	}
	s.logger.Info("listing channels", "guild_id", in.GuildID)

	res, err := s.client.Request(ctx, http.MethodGet, "/guilds/"+in.GuildID+"/channels", nil)
	if err != nil {
		return ListOutput{}, err
	}
	channels, err := discord.Objects(res)
	if err != nil {
		return ListOutput{}, err
	}
	return ListOutput{Channels: channels}, nil
}

// Create adds a channel to a guild.
func (s *Service) Create(ctx context.Context, in CreateInput) (CreateOutput, error) {
	if err := in.Validate(); err != nil {
		return CreateOutput{}, err
	}
	typ := TypeFromName(in.ChannelType)
	s.logger.Info("creating channel", "guild_id", in.GuildID, "name", in.Name, "type", typ)

	res, err := s.client.Request(ctx, http.MethodPost, "/guilds/"+in.GuildID+"/channels", createBody{Name: in.Name, Type: typ})
	if err != nil {
		return CreateOutput{}, err
	}
	return CreateOutput{
		ChannelID: res.Get("id").String(),
		Name:      res.Get("name").String(),
		Type:      int(res.Get("type").Int()),
	}, nil
}
