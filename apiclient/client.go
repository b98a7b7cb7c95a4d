package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/andyle182810/helpscout/metrics"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// maxAttempts bounds a call to the first try plus one resend after the
// access token was invalidated on 401.
const maxAttempts = 2

type TokenProvider interface {
	GetToken(ctx context.Context) (string, error)
	InvalidateToken()
}

type Client struct {
	baseURL        string
	httpClient     *http.Client
	restyClient    *resty.Client
	tokenProvider  TokenProvider
	limiter        *rate.Limiter
	logger         zerolog.Logger
	metrics        *metrics.Collector
	defaultHeaders map[string]string
	requestIDKey   any
}

func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{ //nolint:exhaustruct
			Timeout: DefaultTimeout,
		},
		restyClient:   nil,
		tokenProvider: nil,
		limiter:       nil,
		logger:        log.Logger,
		metrics:       nil,
		defaultHeaders: map[string]string{
			HeaderContentType: ContentTypeJSON,
			HeaderAccept:      ContentTypeJSON,
		},
		requestIDKey: nil,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.restyClient = resty.NewWithClient(c.httpClient).
		SetBaseURL(c.baseURL).
		SetHeaders(c.defaultHeaders).
		SetLogger(&restyLogger{logger: c.logger}).
		SetDisableWarn(true)

	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Get(ctx context.Context, path string, params Params) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, params)
}

func (c *Client) Patch(ctx context.Context, path string, params Params) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, params)
}

func (c *Client) Post(ctx context.Context, path string, params Params) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, params)
}

func (c *Client) Put(ctx context.Context, path string, params Params) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, params)
}

// Do sends one logical call. A 401 on the first attempt invalidates the
// access token and resends the identical request once; whatever the second
// attempt returns is final.
func (c *Client) Do(ctx context.Context, method, path string, params Params) (*Response, error) {
	switch method {
	case http.MethodGet, http.MethodPatch, http.MethodPost, http.MethodPut:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	params = params.Compact()
	requestID := c.extractRequestID(ctx)

	var resp *resty.Response

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var err error

		resp, err = c.send(ctx, method, path, params, requestID)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode() != http.StatusUnauthorized || attempt == maxAttempts {
			break
		}

		c.logger.Warn().
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Msg("Help Scout rejected the access token, invalidating and retrying")

		c.metrics.IncTokenInvalidation()

		if c.tokenProvider != nil {
			c.tokenProvider.InvalidateToken()
		}
	}

	result, err := c.handleResponse(resp, requestID)
	if err != nil {
		c.metrics.IncError(KindOf(err).String())

		return nil, err
	}

	return result, nil
}

func (c *Client) send(
	ctx context.Context,
	method string,
	path string,
	params Params,
	requestID string,
) (*resty.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRateLimitWait, err)
		}
	}

	req, err := c.newConnection(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if method == http.MethodGet {
		req.SetQueryParamsFromValues(params.queryValues())
	} else {
		req.SetBody(params)
	}

	start := time.Now()

	resp, err := req.Execute(method, path)
	if err != nil {
		c.metrics.ObserveRequest(method, 0, time.Since(start))

		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	c.metrics.ObserveRequest(method, resp.StatusCode(), time.Since(start))

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode()).
		Dur("elapsed", time.Since(start)).
		Msg("Help Scout request completed")

	return resp, nil
}

// newConnection prepares a fresh request carrying the current access token.
func (c *Client) newConnection(ctx context.Context, requestID string) (*resty.Request, error) {
	req := c.restyClient.R().
		SetContext(ctx).
		SetHeader(HeaderXRequestID, requestID)

	if c.tokenProvider == nil {
		return req, nil
	}

	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	return req.SetAuthToken(token), nil
}

func (c *Client) handleResponse(resp *resty.Response, requestID string) (*Response, error) {
	if respRequestID := resp.Header().Get(HeaderXRequestID); respRequestID != "" {
		requestID = respRequestID
	}

	rawBody := resp.Body()
	body := parseBody(rawBody)

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, newError(resp.StatusCode(), resp.Header(), body, rawBody, requestID)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Headers:    resp.Header().Clone(),
		Body:       body,
		RawBody:    rawBody,
		RequestID:  requestID,
	}, nil
}

func (c *Client) extractRequestID(ctx context.Context) string {
	if c.requestIDKey != nil {
		if id, ok := ctx.Value(c.requestIDKey).(string); ok && id != "" {
			return id
		}
	}

	return uuid.New().String()
}
