package authtoken

import (
	"net/http"
	"time"

	"github.com/andyle182810/helpscout/tokenstore"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

type Option func(*Client)

func WithTokenURL(tokenURL string) Option {
	return func(c *Client) {
		if tokenURL != "" {
			c.tokenURL = tokenURL
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.restyClient = resty.NewWithClient(httpClient).
				SetHeader("Accept", "application/json")
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.restyClient.SetTimeout(timeout)
		}
	}
}

// WithStore replaces the default in-memory token cache, e.g. with a
// [tokenstore.Redis] shared between processes.
func WithStore(store tokenstore.Store) Option {
	return func(c *Client) {
		if store != nil {
			c.store = store
		}
	}
}

func WithLocker(locker tokenstore.Locker) Option {
	return func(c *Client) {
		c.locker = locker
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func withClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}
