// Package message implements the Discord message operations and exposes them
// as MCP tools.
package message

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jamesprial/discord-rest-mcp/internal/discord"
	"github.com/jamesprial/discord-rest-mcp/internal/tools"
)

// Service performs message operations through a shared Discord client.
type Service struct {
	client discord.Requester
	logger *slog.Logger
}

// NewService returns a Service using client. A nil logger falls back to
// slog.Default().
func NewService(client discord.Requester, logger *slog.Logger) *Service {
	return &Service{client: client, logger: tools.DefaultLogger(logger)}
}

// SendInput is the input to Send.
type SendInput struct {
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
}

// Validate checks the identifier fields.
func (in SendInput) Validate() error {
	return discord.ValidateSnowflake("channel_id", in.ChannelID)
}

// SendOutput is the result of Send.
type SendOutput struct {
	MessageID string `json:"message_id"`
	ChannelID string `json:"channel_id"`
}

// EditInput is the input to Edit.
type EditInput struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
	Content   string `json:"content"`
}

// Validate checks the identifier fields.
func (in EditInput) Validate() error {
	return discord.ValidateSnowflakes("channel_id", in.ChannelID, "message_id", in.MessageID)
}

// EditOutput is the result of Edit.
type EditOutput struct {
	MessageID string `json:"message_id"`
	Updated   bool   `json:"updated"`
}

// DeleteInput is the input to Delete.
type DeleteInput struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

// Validate checks the identifier fields.
func (in DeleteInput) Validate() error {
	return discord.ValidateSnowflakes("channel_id", in.ChannelID, "message_id", in.MessageID)
}

// DeleteOutput is the result of Delete.
type DeleteOutput struct {
	Deleted bool `json:"deleted"`
}

type contentBody struct {
	Content string `json:"content"`
}

// Send posts a new message to a channel.
func (s *Service) Send(ctx context.Context, in SendInput) (SendOutput, error) {
	if err := in.Validate(); err != nil {
		return SendOutput{}, err
	}
	s.logger.Info("sending message", "channel_id", in.ChannelID)

	res, err := s.client.Request(ctx, http.MethodPost, "/channels/"+in.ChannelID+"/messages", contentBody{Content: in.Content})
	if err != nil {
		return SendOutput{}, err
	}
	return SendOutput{
		MessageID: res.Get("id").String(),
		ChannelID: in.ChannelID,
	}, nil
}

// Edit replaces the content of an existing message.
func (s *Service) Edit(ctx context.Context, in EditInput) (EditOutput, error) {
	if err := in.Validate(); err != nil {
		return EditOutput{}, err
	}
	s.logger.Info("editing message", "channel_id", in.ChannelID, "message_id", in.MessageID)

	path := "/channels/" + in.ChannelID + "/messages/" + in.MessageID
	if _, err := s.client.Request(ctx, http.MethodPatch, path, contentBody{Content: in.Content}); err != nil {
		return EditOutput{}, err
	}
	return EditOutput{MessageID: in.MessageID, Updated: true}, nil
}

// Delete removes a message.
func (s *Service) Delete(ctx context.Context, in DeleteInput) (DeleteOutput, error) {
	if err := in.Validate(); err != nil {
		return DeleteOutput{}, err
	}
	s.logger.Info("deleting message", "channel_id", in.ChannelID, "message_id", in.MessageID)

	path := "/channels/" + in.ChannelID + "/messages/" + in.MessageID
	if _, err := s.client.Request(ctx, http.MethodDelete, path, nil); err != nil {
		return DeleteOutput{}, err
	}
	return DeleteOutput{Deleted: true}, nil
}
