package discord_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jamesprial/discord-rest-mcp/internal/discord"
	"github.com/jamesprial/discord-rest-mcp/internal/testutil"
)

func Test_NewClient_MissingToken(t *testing.T) {
	t.Parallel()

	c, err := discord.NewClient(discord.Options{})
	if c != nil {
		t.Error("NewClient() with empty token should not return a client")
	}
	var ce *discord.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("NewClient() error = %v, want *ConfigError", err)
	}
	if ce.Key != "DISCORD_BOT_TOKEN" {
		t.Errorf("ConfigError.Key = %q, want DISCORD_BOT_TOKEN", ce.Key)
	}
}

func Test_Client_Request_SendsBotAuthAndJSON(t *testing.T) {
	t.Parallel()
	up := testutil.NewUpstream(t)
	c := up.Client(t)

	res, err := c.Request(context.Background(), http.MethodPost,
		"/channels/"+testutil.ChannelID+"/messages", map[string]any{"content": "hi"})
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if got := res.Get("content").String(); got != "hi" {
		t.Errorf("content = %q, want hi", got)
	}

	call := up.LastCall(t)
	if got := call.Header.Get("Authorization"); got != "Bot "+testutil.BotToken {
		t.Errorf("Authorization = %q", got)
	}
	if got := call.Header.Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
	if got := call.Header.Get("User-Agent"); !strings.HasPrefix(got, "DiscordBot (") {
		t.Errorf("User-Agent = %q, want DiscordBot form", got)
	}
	if got := call.JSON(t)["content"]; got != "hi" {
		t.Errorf("request body content = %v, want hi", got)
	}
}

func Test_Client_Request_NoBody(t *testing.T) {
	t.Parallel()
	up := testutil.NewUpstream(t)
	c := up.Client(t)

	if _, err := c.Request(context.Background(), http.MethodGet, "/channels/"+testutil.ChannelID, nil); err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if body := up.LastCall(t).Body; len(body) != 0 {
		t.Errorf("GET should carry no body, got %q", body)
	}
}

func Test_Client_Request_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantRaw    string
		wantStatus int
		wantErr    error
	}{
		{name: "204 is success", status: http.StatusNoContent, wantRaw: `{"success":true}`},
		{name: "200 empty body", status: http.StatusOK, body: "", wantRaw: `{}`},
		{name: "200 object", status: http.StatusOK, body: `{"id":"1"}`, wantRaw: `{"id":"1"}`},
		{name: "201 array", status: http.StatusCreated, body: `[1,2]`, wantRaw: `[1,2]`},
		{name: "200 not json", status: http.StatusOK, body: "<html>", wantErr: discord.ErrMalformedResponse},
		{name: "403", status: http.StatusForbidden, body: `{"message": "Missing Permissions", "code": 50013}`, wantStatus: 403},
		{name: "404", status: http.StatusNotFound, body: `{"message": "Unknown Channel"}`, wantStatus: 404},
		{name: "429 is not retried", status: http.StatusTooManyRequests, body: `{"retry_after": 1.5}`, wantStatus: 429},
		{name: "500", status: http.StatusInternalServerError, body: "oops", wantStatus: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			up := testutil.NewUpstream(t)
			up.Respond(tt.status, tt.body)
			c := up.Client(t)

			res, err := c.Request(context.Background(), http.MethodGet, "/guilds/"+testutil.GuildID, nil)

			if up.CallCount() != 1 {
				t.Errorf("upstream saw %d requests, want exactly 1", up.CallCount())
			}
			switch {
			case tt.wantStatus != 0:
				var ue *discord.UpstreamError
				if !errors.As(err, &ue) {
					t.Fatalf("error = %v, want *UpstreamError", err)
				}
				if ue.Status != tt.wantStatus {
					t.Errorf("Status = %d, want %d", ue.Status, tt.wantStatus)
				}
				if ue.Body != tt.body {
					t.Errorf("Body = %q, want %q", ue.Body, tt.body)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
			default:
				if err != nil {
					t.Fatalf("Request() error = %v", err)
				}
				if res.Raw != tt.wantRaw {
					t.Errorf("result = %s, want %s", res.Raw, tt.wantRaw)
				}
			}
		})
	}
}

func Test_Client_Request_TruncatesErrorBody(t *testing.T) {
	t.Parallel()
	up := testutil.NewUpstream(t)
	up.Respond(http.StatusBadRequest, strings.Repeat("a", 300))
	c := up.Client(t)

	_, err := c.Request(context.Background(), http.MethodGet, "/guilds/"+testutil.GuildID, nil)
	var ue *discord.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want *UpstreamError", err)
	}
	if len(ue.Body) != 200 {
		t.Errorf("len(Body) = %d, want 200", len(ue.Body))
	}
}

func Test_Client_Request_WrongToken(t *testing.T) {
	t.Parallel()
	up := testutil.NewUpstream(t)
	c, err := discord.NewClient(discord.Options{Token: "wrong", BaseURL: up.Server.URL + "/api/v10"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer c.Close()

	_, err = c.Request(context.Background(), http.MethodGet, "/guilds/"+testutil.GuildID, nil)
	var ue *discord.UpstreamError
	if !errors.As(err, &ue) || ue.Status != http.StatusUnauthorized {
		t.Fatalf("error = %v, want 401 *UpstreamError", err)
	}
}

func Test_Client_Request_Timeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c, err := discord.NewClient(discord.Options{Token: "t", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer c.Close()

	_, err = c.Request(context.Background(), http.MethodGet, "/slow", nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

func Test_Client_Request_CanceledContext(t *testing.T) {
	t.Parallel()
	up := testutil.NewUpstream(t)
	c := up.Client(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Request(ctx, http.MethodGet, "/guilds/"+testutil.GuildID, nil); err == nil {
		t.Error("Request() with canceled context should fail")
	}
}
