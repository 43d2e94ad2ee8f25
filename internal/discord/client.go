// Package discord provides the authenticated Discord REST client shared by
// every operation, together with snowflake validation and the error types
// operations return.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const (
	// DefaultBaseURL is the versioned Discord REST API origin.
	DefaultBaseURL = "https://discord.com/api/v10"
	// DefaultUserAgent follows Discord's required "DiscordBot (url, version)" form.
	DefaultUserAgent = "DiscordBot (https://github.com/jamesprial/discord-rest-mcp, 1.0.0)"
	// DefaultTimeout bounds a single request when Options.Timeout is zero.
	DefaultTimeout = 30 * time.Second

	defaultMaxIdleConns = 100
)

// Requester issues one authenticated request against the Discord REST API.
// The concrete *Client satisfies this interface; operation services accept
// it so tests can substitute their own.
type Requester interface {
	Request(ctx context.Context, method, path string, body any) (gjson.Result, error)
}

// Compile-time assertion: *Client satisfies Requester.
var _ Requester = (*Client)(nil)

var (
	noContentResult = gjson.Parse(`{"success":true}`)
	emptyResult     = gjson.Parse(`{}`)
)

// Options configures a Client. Only Token is required.
type Options struct {
	Token        string
	BaseURL      string
	UserAgent    string
	Timeout      time.Duration
	MaxIdleConns int
	Logger       *slog.Logger
}

// Client is a bot-authenticated Discord REST client backed by a single pooled
// transport. It is safe for concurrent use and must be closed once, after the
// last request has finished.
type Client struct {
	rc      *resty.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient builds a Client from opts. It returns a *ConfigError when the
// token is empty.
func NewClient(opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, &ConfigError{Key: "DISCORD_BOT_TOKEN", Reason: "is not set"}
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = defaultMaxIdleConns
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rc := resty.New().
		SetTransport(newTransport(opts.MaxIdleConns)).
		SetBaseURL(opts.BaseURL).
		SetAuthScheme("Bot").
		SetAuthToken(opts.Token).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", opts.UserAgent).
		SetLogger(restyLogger{logger: logger})

	return &Client{
		rc:      rc,
		timeout: opts.Timeout,
		logger:  logger,
	}, nil
}

// Request performs method against path, which must already contain every
// identifier and any query string. A non-nil body is sent as JSON.
//
// A 204 response yields {"success": true}. Other statuses below 400 yield the
// parsed body, or {} when the body is empty; a body that is not JSON fails with
// ErrMalformedResponse. Statuses of 400 and above fail with *UpstreamError.
// Exactly one attempt is made.
func (c *Client) Request(ctx context.Context, method, path string, body any) (gjson.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := c.rc.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		observeRequest(method, "error", start)
		return gjson.Result{}, fmt.Errorf("discord: %s %s: %w", method, path, err)
	}

	status := resp.StatusCode()
	observeRequest(method, statusClass(status), start)
	c.logger.Debug("discord request", "method", method, "path", path, "status", status, "elapsed", time.Since(start))

	switch {
	case status == http.StatusNoContent:
		return noContentResult, nil
	case status >= http.StatusBadRequest:
		return gjson.Result{}, newUpstreamError(status, resp.Body())
	}

	raw := resp.Body()
	if len(raw) == 0 {
		return emptyResult, nil
	}
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, fmt.Errorf("discord: %s %s: %w", method, path, ErrMalformedResponse)
	}
	return gjson.ParseBytes(raw), nil
}

// Close releases the pooled idle connections. The client must not be used
// afterwards.
func (c *Client) Close() {
	c.rc.GetClient().CloseIdleConnections()
}

func newTransport(idleConns int) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          idleConns,
		MaxIdleConnsPerHost:   idleConns,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// restyLogger routes resty's printf-style diagnostics into slog.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", "resty")
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(fmt.Sprintf(format, v...), "component", "resty")
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "resty")
}
