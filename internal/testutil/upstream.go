// Package testutil provides shared test infrastructure for discord-rest-mcp.
//
// The primary helper is NewUpstream, which starts an httptest.Server that
// simulates the Discord REST endpoints the operations use, records every
// request it receives, and hands out a *discord.Client pointed at it.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/jamesprial/discord-rest-mcp/internal/discord"
)

// Fixture identifiers. All are valid snowflakes.
const (
	GuildID          = "111111111111111111"
	ChannelID        = "222222222222222222"
	MessageID        = "333333333333333333"
	UserID           = "444444444444444444"
	RoleID           = "555555555555555555"
	WebhookID        = "666666666666666666"
	CreatedChannelID = "777777777777777777"

	// BotToken is the credential the fake upstream accepts.
	BotToken = "test-token"
)

// Call is one request received by the fake upstream.
type Call struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// JSON decodes the recorded request body into a map. It fails the test when
// the body is not a JSON object.
func (c Call) JSON(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(c.Body, &m); err != nil {
		t.Fatalf("request body %q is not a JSON object: %v", c.Body, err)
	}
	return m
}

type canned struct {
	status int
	body   string
}

// Upstream is a fake Discord REST API.
type Upstream struct {
	Server *httptest.Server
	Router *chi.Mux

	mu     sync.Mutex
	calls  []Call
	canned *canned
}

// NewUpstream starts the fake API and registers its shutdown with t.Cleanup.
// Requests must carry "Authorization: Bot test-token" or receive a 401.
func NewUpstream(t *testing.T) *Upstream {
	t.Helper()

	u := &Upstream{}
	r := chi.NewRouter()
	r.Use(u.record)
	r.Use(u.cannedResponse)
	r.Use(botAuth)
	r.Route("/api/v10", u.routes)

	u.Router = r
	u.Server = httptest.NewServer(r)
	t.Cleanup(u.Server.Close)
	return u
}

// Client returns a *discord.Client talking to the fake API. It is closed on
// test cleanup.
func (u *Upstream) Client(t *testing.T) *discord.Client {
	t.Helper()
	c, err := discord.NewClient(discord.Options{
		Token:   BotToken,
		BaseURL: u.Server.URL + "/api/v10",
		Timeout: 5 * time.Second,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("testutil: discord.NewClient failed: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

// Respond makes every subsequent request answer with status and body instead
// of the built-in fixtures.
func (u *Upstream) Respond(status int, body string) {
	u.mu.Lock()
	u.canned = &canned{status: status, body: body}
	u.mu.Unlock()
}

// Calls returns a copy of the requests received so far.
func (u *Upstream) Calls() []Call {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]Call, len(u.calls))
	copy(out, u.calls)
	return out
}

// CallCount returns the number of requests received so far.
func (u *Upstream) CallCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

// LastCall returns the most recent request, failing the test if there was none.
func (u *Upstream) LastCall(t *testing.T) Call {
	t.Helper()
	calls := u.Calls()
	if len(calls) == 0 {
		t.Fatal("fake upstream received no requests")
	}
	return calls[len(calls)-1]
}

func (u *Upstream) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		u.mu.Lock()
		u.calls = append(u.calls, Call{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
		})
		u.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (u *Upstream) cannedResponse(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		c := u.canned
		u.mu.Unlock()
		if c == nil {
			next.ServeHTTP(w, r)
			return
		}
		w.WriteHeader(c.status)
		_, _ = io.WriteString(w, c.body)
	})
}

func botAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bot "+BotToken {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "401: Unauthorized", "code": 0})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (u *Upstream) routes(r chi.Router) {
	r.Route("/channels/{channelID}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, &discordgo.Channel{
				ID:       chi.URLParam(r, "channelID"),
				GuildID:  GuildID,
				Name:     "general",
				Type:     discordgo.ChannelTypeGuildText,
				Position: 3,
				Topic:    "general chat",
			})
		})
		r.Post("/messages", func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(r)
			writeJSON(w, http.StatusOK, &discordgo.Message{
				ID:        MessageID,
				ChannelID: chi.URLParam(r, "channelID"),
				Content:   stringFromAny(body["content"]),
			})
		})
		r.Patch("/messages/{messageID}", func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(r)
			writeJSON(w, http.StatusOK, &discordgo.Message{
				ID:        chi.URLParam(r, "messageID"),
				ChannelID: chi.URLParam(r, "channelID"),
				Content:   stringFromAny(body["content"]),
			})
		})
		r.Delete("/messages/{messageID}", noContent)
		r.Post("/webhooks", func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(r)
			writeJSON(w, http.StatusOK, &discordgo.Webhook{
				ID:        WebhookID,
				ChannelID: chi.URLParam(r, "channelID"),
				GuildID:   GuildID,
				Name:      stringFromAny(body["name"]),
				Token:     "webhook-token",
			})
		})
	})

	r.Route("/guilds/{guildID}", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, &discordgo.Guild{
				ID:                     chi.URLParam(r, "guildID"),
				Name:                   "Test Guild",
				Description:            "a guild for tests",
				ApproximateMemberCount: 42,
			})
		})
		r.Get("/channels", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []*discordgo.Channel{
				{ID: ChannelID, Name: "general", Type: discordgo.ChannelTypeGuildText},
				{ID: CreatedChannelID, Name: "voice", Type: discordgo.ChannelTypeGuildVoice},
			})
		})
		r.Post("/channels", func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(r)
			typ, _ := body["type"].(float64)
			writeJSON(w, http.StatusCreated, &discordgo.Channel{
				ID:      CreatedChannelID,
				GuildID: chi.URLParam(r, "guildID"),
				Name:    stringFromAny(body["name"]),
				Type:    discordgo.ChannelType(typ),
			})
		})
		r.Get("/roles", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []*discordgo.Role{
				{ID: chi.URLParam(r, "guildID"), Name: "@everyone"},
				{ID: RoleID, Name: "moderator", Color: 0x3498db},
			})
		})
		r.Post("/roles", func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(r)
			writeJSON(w, http.StatusOK, &discordgo.Role{
				ID:   RoleID,
				Name: stringFromAny(body["name"]),
			})
		})
		r.Route("/members/{userID}", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, &discordgo.Member{
					GuildID:  chi.URLParam(r, "guildID"),
					User:     &discordgo.User{ID: chi.URLParam(r, "userID"), Username: "member"},
					Nick:     "nickname",
					Roles:    []string{RoleID},
					JoinedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
				})
			})
			r.Patch("/", func(w http.ResponseWriter, r *http.Request) {
				body := decodeBody(r)
				writeJSON(w, http.StatusOK, &discordgo.Member{
					User: &discordgo.User{ID: chi.URLParam(r, "userID")},
					Nick: stringFromAny(body["nick"]),
				})
			})
			r.Delete("/", noContent)
			r.Put("/roles/{roleID}", noContent)
			r.Delete("/roles/{roleID}", noContent)
		})
		r.Put("/bans/{userID}", noContent)
		r.Delete("/bans/{userID}", noContent)
	})
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(r *http.Request) map[string]any {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	return body
}

// writeJSON marshals v as JSON and writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// stringFromAny safely converts an interface{} to string.
func stringFromAny(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
