package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pathnova/sessiongate/session"
)

var (
	// ErrFetchFailed is returned by Me for any failure to obtain an identity.
	ErrFetchFailed = errors.New("identity fetch failed")
	// ErrLogoutFailed is returned by Logout when the remote call did not succeed.
	ErrLogoutFailed = errors.New("identity logout failed")
	// ErrInvalidProvider is returned for provider names that cannot form a URL path segment.
	ErrInvalidProvider = errors.New("invalid identity provider")
)

const providerPlaceholder = "{provider}"

// Config describes where the identity service lives and how to authenticate to it.
type Config struct {
	BaseURL           string
	MePath            string
	LogoutPath        string
	ProviderStartPath string // must contain "{provider}"
	Timeout           time.Duration
	SessionCookieName string
	SessionToken      string
	MaxResponseBytes  int64
	UserAgent         string
}

// Client calls the identity service. It is safe for concurrent use.
type Client struct {
	config     Config
	base       *url.URL
	httpClient *http.Client
}

// NewClient validates cfg and returns a client. When httpClient is nil a
// dedicated client with a tuned transport is created.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("identity base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.New("identity base url must be http or https")
	}
	if base.Host == "" {
		return nil, errors.New("identity base url must include a host")
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = 1 << 20
	}
	if cfg.SessionCookieName == "" {
		cfg.SessionCookieName = "session"
	}

	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        16,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &Client{
		config:     cfg,
		base:       base,
		httpClient: httpClient,
	}, nil
}

// Me fetches the identity of the current session.
func (c *Client) Me(ctx context.Context) (session.Identity, error) {
	req, cancel, err := c.newRequest(ctx, http.MethodGet, c.config.MePath)
	if err != nil {
		return session.Identity{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer cancel()
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return session.Identity{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.config.MaxResponseBytes))
		return session.Identity{}, fmt.Errorf("%w: identity service returned status %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseBytes+1))
	if err != nil {
		return session.Identity{}, fmt.Errorf("%w: read body: %w", ErrFetchFailed, err)
	}
	if int64(len(body)) > c.config.MaxResponseBytes {
		return session.Identity{}, fmt.Errorf("%w: identity payload exceeds %d bytes", ErrFetchFailed, c.config.MaxResponseBytes)
	}

	identity, err := session.DecodeIdentity(body)
	if err != nil {
		return session.Identity{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return identity, nil
}

// Logout asks the identity service to end the current session. The response
// body is ignored.
func (c *Client) Logout(ctx context.Context) error {
	req, cancel, err := c.newRequest(ctx, http.MethodPost, c.config.LogoutPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLogoutFailed, err)
	}
	defer cancel()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLogoutFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.config.MaxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: identity service returned status %d", ErrLogoutFailed, resp.StatusCode)
	}
	return nil
}

// ProviderStartURL returns the absolute URL that hands the browser off to a
// third-party identity provider, e.g. ".../auth/google/start".
func (c *Client) ProviderStartURL(provider string) (string, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" || strings.ContainsAny(provider, "/?#%") || provider != url.PathEscape(provider) {
		return "", fmt.Errorf("%w: %q", ErrInvalidProvider, provider)
	}
	path := strings.ReplaceAll(c.config.ProviderStartPath, providerPlaceholder, provider)
	return c.resolve(path).String(), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, context.CancelFunc, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cancel := context.CancelFunc(func() {})
	if c.config.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path).String(), nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	if c.config.SessionToken != "" {
		req.AddCookie(&http.Cookie{Name: c.config.SessionCookieName, Value: c.config.SessionToken})
	}
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	return req, cancel, nil
}

func (c *Client) resolve(path string) *url.URL {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return &u
}
