// Package webhook implements the Discord webhook operations and exposes them
// as MCP tools.
package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jamesprial/discord-rest-mcp/internal/discord"
	"github.com/jamesprial/discord-rest-mcp/internal/tools"
)

// Service performs webhook operations through a shared Discord client.
type Service struct {
	client discord.Requester
	logger *slog.Logger
}

// NewService returns a Service using client.
func NewService(client discord.Requester, logger *slog.Logger) *Service {
	return &Service{client: client, logger: tools.DefaultLogger(logger)}
}

// CreateInput is the input to Create.
type CreateInput struct {
	ChannelID string `json:"channel_id"`
	Name      string `json:"name"`
}

// Validate checks the identifier fields.
func (in CreateInput) Validate() error {
	return discord.ValidateSnowflake("channel_id", in.ChannelID)
}

// CreateOutput is the result of Create. Token is nil unless Discord returns
// one.
type CreateOutput struct {
	WebhookID string  `json:"webhook_id"`
	Name      string  `json:"name"`
	Token     *string `json:"token"`
}

// ExecuteInput is the input to Execute.
type ExecuteInput struct {
	WebhookID string `json:"webhook_id"`
	Content   string `json:"content"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ExecuteOutput is the result Execute would return.
type ExecuteOutput struct {
	Sent      bool    `json:"sent"`
	MessageID *string `json:"message_id"`
}

type createBody struct {
	Name string `json:"name"`
}

// Create adds a webhook to a channel.
func (s *Service) Create(ctx context.Context, in CreateInput) (CreateOutput, error) {
	if err := in.Validate(); err != nil {
		return CreateOutput{}, err
	}
	s.logger.Info("creating webhook", "channel_id", in.ChannelID, "name", in.Name)

	res, err := s.client.Request(ctx, http.MethodPost, "/channels/"+in.ChannelID+"/webhooks", createBody{Name: in.Name})
	if err != nil {
		return CreateOutput{}, err
	}
	return CreateOutput{
		WebhookID: res.Get("id").String(),
		Name:      res.Get("name").String(),
		Token:     discord.OptString(res.Get("token")),
	}, nil
}

// Execute always fails with discord.ErrNotSupported: posting through a
// webhook needs the webhook's own token, which the bot credential cannot
// supply. No request is made.
func (s *Service) Execute(_ context.Context, in ExecuteInput) (ExecuteOutput, error) {
	s.logger.Debug("execute webhook rejected", "webhook_id", in.WebhookID)
	return ExecuteOutput{}, fmt.Errorf("execute_webhook requires a webhook token; use discord_send_message instead: %w", discord.ErrNotSupported)
}
