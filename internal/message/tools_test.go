package message_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jamesprial/discord-rest-mcp/internal/message"
	"github.com/jamesprial/discord-rest-mcp/internal/safety"
	"github.com/jamesprial/discord-rest-mcp/internal/testutil"
	"github.com/jamesprial/discord-rest-mcp/internal/tools"
)

func newTools(t *testing.T, deps tools.Deps) ([]tools.Registration, *testutil.Upstream) {
	t.Helper()
	svc, up := newService(t)
	return message.MessageTools(svc, deps), up
}

// extractToken pulls the confirmation_token value out of a prompt.
func extractToken(t *testing.T, text string) string {
	t.Helper()
	const prefix = `confirmation_token="`
	idx := strings.Index(text, prefix)
	if idx < 0 {
		t.Fatalf("no confirmation_token in %q", text)
	}
	rest := text[idx+len(prefix):]
	return rest[:strings.Index(rest, `"`)]
}

// ---------------------------------------------------------------------------
// Tool Registration
// ---------------------------------------------------------------------------

func Test_MessageTools_Registration(t *testing.T) {
	t.Parallel()
	regs, _ := newTools(t, tools.Deps{})

	testutil.AssertRegistrations(t, regs, []string{
		"discord_send_message",
		"discord_edit_message",
		"discord_delete_message",
	})
}

func Test_DestructiveToolNames_ReturnsCopy(t *testing.T) {
	t.Parallel()
	names := message.DestructiveToolNames()
	names[0] = "mutated"
	if message.DestructiveToolNames()[0] != "discord_delete_message" {
		t.Error("DestructiveToolNames should return a copy")
	}
}

// ---------------------------------------------------------------------------
// discord_send_message
// ---------------------------------------------------------------------------

func Test_SendMessage_Valid(t *testing.T) {
	t.Parallel()
	var audit bytes.Buffer
	regs, up := newTools(t, tools.Deps{Audit: safety.NewAuditLogger(&audit)})
	handler := testutil.FindHandler(t, regs, "discord_send_message")

	result, err := handler(context.Background(), testutil.NewCallToolRequest("discord_send_message", map[string]any{
		"channel_id": testutil.ChannelID,
		"content":    "hello",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	testutil.AssertNotError(t, result)
	testutil.AssertTextContains(t, result, `"message_id": "`+testutil.MessageID+`"`)
	if up.CallCount() != 1 {
		t.Errorf("upstream calls = %d, want 1", up.CallCount())
	}
	if !strings.Contains(audit.String(), `"tool":"discord_send_message"`) {
		t.Errorf("audit log missing entry: %s", audit.String())
	}
}

func Test_SendMessage_InvalidChannel(t *testing.T) {
	t.Parallel()
	regs, up := newTools(t, tools.Deps{})
	handler := testutil.FindHandler(t, regs, "discord_send_message")

	result, err := handler(context.Background(), testutil.NewCallToolRequest("discord_send_message", map[string]any{
		"channel_id": "general",
		"content":    "hello",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	testutil.AssertIsError(t, result, "invalid channel_id")
	if up.CallCount() != 0 {
		t.Errorf("upstream calls = %d, want 0", up.CallCount())
	}
}

func Test_SendMessage_DeniedChannel(t *testing.T) {
	t.Parallel()
	regs, up := newTools(t, tools.Deps{Channels: safety.NewFilter(nil, []string{testutil.ChannelID})})
	handler := testutil.FindHandler(t, regs, "discord_send_message")

	result, _ := handler(context.Background(), testutil.NewCallToolRequest("discord_send_message", map[string]any{
		"channel_id": testutil.ChannelID,
		"content":    "hello",
	}))

	testutil.AssertIsError(t, result, "not allowed")
	if up.CallCount() != 0 {
		t.Errorf("upstream calls = %d, want 0", up.CallCount())
	}
}

// ---------------------------------------------------------------------------
// discord_edit_message
// ---------------------------------------------------------------------------

func Test_EditMessage_UpstreamError(t *testing.T) {
	t.Parallel()
	regs, up := newTools(t, tools.Deps{})
	up.Respond(403, `{"message": "Cannot edit a message authored by another user"}`)
	handler := testutil.FindHandler(t, regs, "discord_edit_message")

	result, err := handler(context.Background(), testutil.NewCallToolRequest("discord_edit_message", map[string]any{
		"channel_id": testutil.ChannelID,
		"message_id": testutil.MessageID,
		"content":    "new",
	}))
	if err != nil {
		t.Fatalf("handler should report upstream errors as results, got: %v", err)
	}
	testutil.AssertIsError(t, result, "discord API error 403")
}

// ---------------------------------------------------------------------------
// discord_delete_message
// ---------------------------------------------------------------------------

func Test_DeleteMessage_RequiresConfirmation(t *testing.T) {
	t.Parallel()
	deps := tools.Deps{Confirm: safety.NewConfirmationTracker(message.DestructiveToolNames())}
	regs, up := newTools(t, deps)
	handler := testutil.FindHandler(t, regs, "discord_delete_message")
	args := map[string]any{
		"channel_id": testutil.ChannelID,
		"message_id": testutil.MessageID,
	}

	prompt, err := handler(context.Background(), testutil.NewCallToolRequest("discord_delete_message", args))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testutil.AssertTextContains(t, prompt, "Confirmation required")
	if up.CallCount() != 0 {
		t.Fatalf("upstream calls before confirmation = %d, want 0", up.CallCount())
	}

	args["confirmation_token"] = extractToken(t, testutil.ExtractText(t, prompt))
	result, err := handler(context.Background(), testutil.NewCallToolRequest("discord_delete_message", args))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testutil.AssertNotError(t, result)
	testutil.AssertTextContains(t, result, `"deleted": true`)
	if up.CallCount() != 1 {
		t.Errorf("upstream calls after confirmation = %d, want 1", up.CallCount())
	}
}

func Test_DeleteMessage_NoTrackerDeletesImmediately(t *testing.T) {
	t.Parallel()
	regs, up := newTools(t, tools.Deps{})
	handler := testutil.FindHandler(t, regs, "discord_delete_message")

	result, _ := handler(context.Background(), testutil.NewCallToolRequest("discord_delete_message", map[string]any{
		"channel_id": testutil.ChannelID,
		"message_id": testutil.MessageID,
	}))

	testutil.AssertNotError(t, result)
	if up.CallCount() != 1 {
		t.Errorf("upstream calls = %d, want 1", up.CallCount())
	}
}
