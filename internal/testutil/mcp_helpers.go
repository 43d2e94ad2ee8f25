package testutil

import (
	"strings"
	"testing"

	"github.com/jamesprial/discord-rest-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewCallToolRequest builds a CallToolRequest for name with args.
func NewCallToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// ExtractText extracts the text string from a CallToolResult. It assumes the
// result contains at least one TextContent element and fails the test otherwise.
func ExtractText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("result is nil")
	}
	if len(result.Content) == 0 {
		t.Fatal("result has no content elements")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("result content[0] is %T, want mcp.TextContent", result.Content[0])
	}
	return tc.Text
}

// AssertTextContains extracts text from the result and asserts it contains substr.
func AssertTextContains(t *testing.T, result *mcp.CallToolResult, substr string) {
	t.Helper()
	text := ExtractText(t, result)
	if !strings.Contains(text, substr) {
		t.Errorf("result text = %q, want it to contain %q", text, substr)
	}
}

// AssertTextNotContains extracts text from the result and asserts it does NOT contain substr.
func AssertTextNotContains(t *testing.T, result *mcp.CallToolResult, substr string) {
	t.Helper()
	text := ExtractText(t, result)
	if strings.Contains(text, substr) {
		t.Errorf("result text = %q, should NOT contain %q", text, substr)
	}
}

// AssertNotError asserts that the CallToolResult is not an error result.
func AssertNotError(t *testing.T, result *mcp.CallToolResult) {
	t.Helper()
	if result == nil {
		t.Fatal("result is nil")
	}
	if result.IsError {
		text := ExtractText(t, result)
		t.Fatalf("expected non-error result, but got IsError=true with text: %s", text)
	}
}

// AssertIsError asserts that the CallToolResult is an error result whose text
// contains substr.
func AssertIsError(t *testing.T, result *mcp.CallToolResult, substr string) {
	t.Helper()
	if result == nil {
		t.Fatal("result is nil")
	}
	if !result.IsError {
		t.Fatalf("expected error result, got: %s", ExtractText(t, result))
	}
	AssertTextContains(t, result, substr)
}

// FindHandler returns the handler registered under name, failing the test if
// there is none.
func FindHandler(t *testing.T, regs []tools.Registration, name string) server.ToolHandlerFunc {
	t.Helper()
	for _, r := range regs {
		if r.Tool.Name == name {
			return r.Handler
		}
	}
	t.Fatalf("no registration named %q", name)
	return nil
}

// FindTool returns the tool definition registered under name.
func FindTool(t *testing.T, regs []tools.Registration, name string) mcp.Tool {
	t.Helper()
	for _, r := range regs {
		if r.Tool.Name == name {
			return r.Tool
		}
	}
	t.Fatalf("no registration named %q", name)
	return mcp.Tool{}
}

// AssertRegistrations checks that regs contains exactly the named tools, in
// order, each with a handler.
func AssertRegistrations(t *testing.T, regs []tools.Registration, names []string) {
	t.Helper()
	if len(regs) != len(names) {
		t.Fatalf("got %d registrations, want %d", len(regs), len(names))
	}
	for i, want := range names {
		if regs[i].Tool.Name != want {
			t.Errorf("registration[%d] = %q, want %q", i, regs[i].Tool.Name, want)
		}
		if regs[i].Handler == nil {
			t.Errorf("registration %q has nil handler", want)
		}
	}
}
