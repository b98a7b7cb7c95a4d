package apiclient

import (
	"maps"
	"net/http"
	"time"

	"github.com/andyle182810/helpscout/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.helpscout.net/v2/"
	DefaultTimeout = 30 * time.Second

	HeaderContentType         = "Content-Type"
	HeaderAccept              = "Accept"
	HeaderXRequestID          = "X-Request-ID"
	HeaderResourceID          = "Resource-ID"
	HeaderLocation            = "Location"
	HeaderRateLimitRetryAfter = "X-RateLimit-Retry-After"
	ContentTypeJSON           = "application/json"
)

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithTokenProvider(provider TokenProvider) Option {
	return func(c *Client) {
		c.tokenProvider = provider
	}
}

// WithRateLimit throttles outgoing requests client side. Help Scout allows
// a per-minute request budget per account; a value <= 0 disables throttling.
func WithRateLimit(requestsPerMinute int) Option {
	return func(c *Client) {
		if requestsPerMinute <= 0 {
			c.limiter = nil

			return
		}

		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}
}

func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *Client) {
		maps.Copy(c.defaultHeaders, headers)
	}
}

// WithRequestIDKey makes calls reuse the request id stored in the context
// under key instead of generating one.
func WithRequestIDKey(key any) Option {
	return func(c *Client) {
		c.requestIDKey = key
	}
}
