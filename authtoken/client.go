// Package authtoken issues Help Scout access tokens for the API client.
//
// [Client] implements the OAuth2 client-credentials grant against the Help
// Scout token endpoint and caches the token in a [tokenstore.Store] until
// shortly before it expires. [Static] wraps a pre-issued token.
package authtoken

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/andyle182810/helpscout/tokenstore"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrTokenRequestFailed = errors.New("authtoken: token request failed")
	ErrNoAccessToken      = errors.New("authtoken: no access token in response")
)

const (
	DefaultTokenURL      = "https://api.helpscout.net/v2/oauth2/token"
	DefaultTimeout       = 10 * time.Second
	tokenExpiryBuffer    = 30 * time.Second
	grantTypeCredentials = "client_credentials"
)

//nolint:tagliatelle
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

//nolint:tagliatelle // Help Scout OAuth2 errors are snake_case
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type Client struct {
	tokenURL     string
	clientID     string
	clientSecret string
	restyClient  *resty.Client
	store        tokenstore.Store
	locker       tokenstore.Locker
	logger       zerolog.Logger
	now          func() time.Time

	refreshMu sync.Mutex

	mu      sync.RWMutex
	current string
	stale   string
}

func New(clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		tokenURL:     DefaultTokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		restyClient: resty.New().
			SetTimeout(DefaultTimeout).
			SetHeader("Accept", "application/json"),
		store:     tokenstore.NewMemory(),
		locker:    nil,
		logger:    log.Logger,
		now:       time.Now,
		refreshMu: sync.Mutex{},
		mu:        sync.RWMutex{},
		current:   "",
		stale:     "",
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) GetToken(ctx context.Context) (string, error) {
	if token, ok := c.cachedToken(ctx); ok {
		return c.issue(token), nil
	}

	return c.refreshToken(ctx)
}

// InvalidateToken marks the token most recently handed out as rejected. The
// next GetToken fetches a new one even if the store still holds it.
func (c *Client) InvalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stale = c.current
}

func (c *Client) refreshToken(ctx context.Context) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// Double-check after acquiring the lock (another goroutine might have refreshed)
	if token, ok := c.cachedToken(ctx); ok {
		return c.issue(token), nil
	}

	if c.locker == nil {
		return c.fetchAndStore(ctx)
	}

	var accessToken string

	err := c.locker.WithLock(ctx, func(lockCtx context.Context) error {
		// Another process may have refreshed while we waited for the lock.
		if token, ok := c.cachedToken(lockCtx); ok {
			accessToken = c.issue(token)

			return nil
		}

		var err error
		accessToken, err = c.fetchAndStore(lockCtx)

		return err
	})
	if err != nil {
		return "", err
	}

	return accessToken, nil
}

func (c *Client) cachedToken(ctx context.Context) (string, bool) {
	token, err := c.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, tokenstore.ErrNotFound) {
			c.logger.Warn().Err(err).Msg("Failed to load cached Help Scout token")
		}

		return "", false
	}

	if !token.Valid(c.now(), tokenExpiryBuffer) {
		return "", false
	}

	c.mu.RLock()
	stale := c.stale
	c.mu.RUnlock()

	if token.AccessToken == stale {
		return "", false
	}

	return token.AccessToken, true
}

func (c *Client) fetchAndStore(ctx context.Context) (string, error) {
	accessToken, expiresIn, err := c.fetchToken(ctx)
	if err != nil {
		return "", err
	}

	token := tokenstore.Token{
		AccessToken: accessToken,
		ExpiresAt:   c.now().Add(time.Duration(expiresIn) * time.Second),
	}

	if err := c.store.Save(ctx, token); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to cache Help Scout token")
	}

	c.logger.Debug().
		Int("expires_in", expiresIn).
		Msg("Fetched new Help Scout access token")

	c.mu.Lock()
	c.stale = ""
	c.mu.Unlock()

	return c.issue(accessToken), nil
}

func (c *Client) issue(accessToken string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = accessToken

	return accessToken
}

func (c *Client) fetchToken(ctx context.Context) (string, int, error) {
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    grantTypeCredentials,
			"client_id":     c.clientID,
			"client_secret": c.clientSecret,
		}).
		Post(c.tokenURL)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrTokenRequestFailed, err)
	}

	if !resp.IsSuccess() {
		var errResp errorResponse

		_ = json.Unmarshal(resp.Body(), &errResp)

		return "", 0, fmt.Errorf("%w: status %d, error=%s, description=%s",
			ErrTokenRequestFailed, resp.StatusCode(), errResp.Error, errResp.ErrorDescription)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(resp.Body(), &tokenResp); err != nil {
		return "", 0, fmt.Errorf("failed to decode token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return "", 0, ErrNoAccessToken
	}

	return tokenResp.AccessToken, tokenResp.ExpiresIn, nil
}
