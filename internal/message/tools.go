package message

import (
	"github.com/jamesprial/discord-rest-mcp/internal/tools"
)

// destructiveTools lists the tool names in this package that require
// confirmation before executing.
var destructiveTools = []string{"discord_delete_message"}

// DestructiveToolNames returns a copy of the destructive tool names list.
func DestructiveToolNames() []string {
	out := make([]string, len(destructiveTools))
	copy(out, destructiveTools)
	return out
}

// MessageTools returns all tool registrations for Discord message operations.
func MessageTools(svc *Service, deps tools.Deps) []tools.Registration {
	deps = deps.WithDefaults()
	return []tools.Registration{
		toolSendMessage(svc, deps),
		toolEditMessage(svc, deps),
		toolDeleteMessage(svc, deps),
	}
}
