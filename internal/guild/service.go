// Package guild implements the Discord guild lookup and exposes it as an MCP
// tool.
package guild

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jamesprial/discord-rest-mcp/internal/discord"
	"github.com/jamesprial/discord-rest-mcp/internal/tools"
)

// Service performs guild operations through a shared Discord client.
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
	GuildID string `json:"guild_id"`
}

// Validate checks the identifier fields.
func (in GetInput) Validate() error {
	return discord.ValidateSnowflake("guild_id", in.GuildID)
}

// GetOutput is the result of Get.
type GetOutput struct {
	ID                     string  `json:"id"`
	Name                   string  `json:"name"`
	Icon                   *string `json:"icon"`
	Banner                 *string `json:"banner"`
	Description            *string `json:"description"`
	ApproximateMemberCount *int    `json:"approximate_member_count"`
}

// Get fetches a guild including its approximate member count.
func (s *Service) Get(ctx context.Context, in GetInput) (GetOutput, error) {
	if err := in.Validate(); err != nil {
		return GetOutput{}, err
	}
	s.logger.Debug("fetching guild", "guild_id", in.GuildID)

	res, err := s.client.Request(ctx, http.MethodGet, "/guilds/"+in.GuildID+"?with_counts=true", nil)
	if err != nil {
		return GetOutput{}, err
	}
	return GetOutput{
		ID:                     res.Get("id").String(),
		Name:                   res.Get("name").String(),
		Icon:                   discord.OptString(res.Get("icon")),
		Banner:                 discord.OptString(res.Get("banner")),
		Description:            discord.OptString(res.Get("description")),
		ApproximateMemberCount: discord.OptInt(res.Get("approximate_member_count")),
	}, nil
}
