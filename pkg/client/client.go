// Package client wraps resty with the session-aware interceptors: bearer
// injection on the way out, credential capture and 401 teardown on the
// way back.
package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chhengkhim/confessboard/pkg/credentials"
	"github.com/chhengkhim/confessboard/pkg/logger"
	"github.com/chhengkhim/confessboard/pkg/session"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"
	HeaderImpersonate   = "X-Impersonate-User"

	DefaultInitTimeout = 3 * time.Second
)

// authEndpoints never carry a bearer token; their successful responses
// carry a fresh one.
var authEndpoints = []string{"/auth/login", "/auth/register"}

// Options configures the HTTP client.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	UserAgent   string
	InitTimeout time.Duration
	Tracing     bool
}

// Client is the session-backed API client.
type Client struct {
	http        *resty.Client
	session     *session.Session
	navigator   Navigator
	initTimeout time.Duration

	mu          sync.RWMutex
	impersonate string
}

// New builds a client bound to sess. nav may be nil.
func New(opts Options, sess *session.Session, nav Navigator) *Client {
	httpClient := resty.New()
	if opts.Tracing {
		httpClient.SetTransport(otelhttp.NewTransport(
			http.DefaultTransport,
			otelhttp.WithSpanOptions(trace.WithSpanKind(trace.SpanKindClient)),
		))
	}

	httpClient.SetBaseURL(opts.BaseURL)
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		httpClient.SetHeader("User-Agent", opts.UserAgent)
	}
	httpClient.SetHeader("Accept", "application/json")

	c := &Client{
		http:        httpClient,
		session:     sess,
		navigator:   nav,
		initTimeout: opts.InitTimeout,
	}
	if c.initTimeout <= 0 {
		c.initTimeout = DefaultInitTimeout
	}

	httpClient.OnBeforeRequest(c.beforeRequest)
	httpClient.OnAfterResponse(c.afterResponse)
	return c
}

// R starts a request bound to ctx
func (c *Client) R(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

// HTTP exposes the underlying resty client
func (c *Client) HTTP() *resty.Client {
	return c.http
}

// Session returns the session the client authenticates with
func (c *Client) Session() *session.Session {
	return c.session
}

// SetNavigator replaces the redirect target used on 401
func (c *Client) SetNavigator(nav Navigator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.navigator = nav
}

// SetImpersonateUser sets the user to impersonate for API requests (admin only)
func (c *Client) SetImpersonateUser(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.impersonate = email
}

// ClearImpersonateUser clears the impersonation
func (c *Client) ClearImpersonateUser() {
	c.SetImpersonateUser("")
}

func (c *Client) impersonating() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.impersonate
}

func isAuthEndpoint(rawURL string) bool {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}
	path = strings.TrimRight(path, "/")
	for _, e := range authEndpoints {
		if strings.HasSuffix(path, e) {
			return true
		}
	}
	return false
}

func (c *Client) beforeRequest(_ *resty.Client, req *resty.Request) error {
	if req.Header.Get(HeaderRequestID) == "" {
		req.Header.Set(HeaderRequestID, uuid.NewString())
	}
	logger.Debug("HTTP Request", "method", req.Method, "url", req.URL, "request_id", req.Header.Get(HeaderRequestID))

	if isAuthEndpoint(req.URL) {
		// A stale token on login/register confuses the backend guard
		req.Header.Del(HeaderAuthorization)
		return nil
	}

	if c.session != nil {
		c.session.WaitReady(req.Context(), c.initTimeout)
		if token := c.session.Credential(); token != "" {
			req.Header.Set(HeaderAuthorization, "Bearer "+token)
		}
	}

	if email := c.impersonating(); email != "" {
		req.Header.Set(HeaderImpersonate, email)
		logger.Debug("Impersonating user", "email", email)
	}
	return nil
}

// issuedToken is the part of a login/register body that carries the token.
type issuedToken struct {
	Token       string            `json:"token"`
	AccessToken string            `json:"access_token"`
	User        *credentials.User `json:"user"`
	Data        *struct {
		Token       string            `json:"token"`
		AccessToken string            `json:"access_token"`
		User        *credentials.User `json:"user"`
	} `json:"data"`
}

func (t issuedToken) extract() (string, *credentials.User) {
	if t.Data != nil {
		if tok := orDefault(t.Data.Token, t.Data.AccessToken); tok != "" {
			return tok, t.Data.User
		}
	}
	return orDefault(t.Token, t.AccessToken), t.User
}

func (c *Client) afterResponse(_ *resty.Client, resp *resty.Response) error {
	logger.Debug("HTTP Response", "status", resp.StatusCode(), "url", resp.Request.URL)

	if c.session == nil {
		return nil
	}
	ctx := resp.Request.Context()

	if resp.IsSuccess() && isAuthEndpoint(resp.Request.URL) {
		var body issuedToken
		if err := json.Unmarshal(resp.Body(), &body); err == nil {
			if token, user := body.extract(); token != "" {
				// Persistence failures are logged by the session; the login itself succeeded
				_ = c.session.SetCredential(ctx, token, user)
			}
		}
		return nil
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		c.handleUnauthorized(ctx)
	}
	return nil
}

func (c *Client) handleUnauthorized(ctx context.Context) {
	logger.Info("Received 401, clearing credential")
	_ = c.session.Teardown(context.WithoutCancel(ctx))

	c.mu.RLock()
	nav := c.navigator
	c.mu.RUnlock()
	if nav == nil {
		return
	}
	if current := nav.CurrentRoute(); !IsAuthExempt(current) {
		nav.Redirect(LoginRoute)
	}
}
