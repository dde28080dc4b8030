// Package api implements the REST client for the weather-alarm backend.
// Every request carries the session's bearer token when one is stored, every
// response travels in the uniform {success, data, error, message} envelope,
// and every failure is normalized into a single *Error with a fixed
// user-facing message. No retries happen at this layer.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/JokerTrickster/weather-alarm/internal/domain"
	"github.com/JokerTrickster/weather-alarm/internal/observability"
	"github.com/JokerTrickster/weather-alarm/internal/storage"
)

// Request outcome labels for metrics.
const (
	outcomeSuccess      = "success"
	outcomeUnauthorized = "unauthorized"
	outcomeForbidden    = "forbidden"
	outcomeServerError  = "server_error"
	outcomeNetworkError = "network_error"
	outcomeUnknown      = "unknown"
)

// Client wraps the HTTP transport with the backend's base path, the bearer
// token middleware, and envelope/error normalization.
type Client struct {
	http           *resty.Client
	store          *storage.SessionStore
	metrics        *observability.Metrics
	logger         *slog.Logger
	onUnauthorized func()
}

// Option configures optional client behavior.
type Option func(*Client)

// WithUnauthorizedHook installs the collaborator invoked after a 401 has
// cleared the session store. The browser build navigates to the login page
// here; the CLI prints a sign-in hint.
func WithUnauthorizedHook(hook func()) Option {
	return func(c *Client) {
		c.onUnauthorized = hook
	}
}

// New creates a REST client for the given base URL.
func New(baseURL string, timeout time.Duration, store *storage.SessionStore, metrics *observability.Metrics, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}

	c.http = resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			if token := store.Token(); token != "" {
				req.SetAuthToken(token)
			}
			return nil
		})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET and decodes the envelope's data into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with the given body and decodes the envelope's data
// into out. Both body and out may be nil.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with the given body and decodes the envelope's data into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()

	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	c.metrics.APIRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	if err != nil {
		// The request never produced a server response: DNS failure,
		// refused connection, or the client-side timeout.
		c.metrics.APIRequests.WithLabelValues(method, outcomeNetworkError).Inc()
		c.logger.Warn("request reached no server", "method", method, "path", path, "error", err)
		return &Error{Message: domain.MsgNetworkError}
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusUnauthorized:
		c.metrics.APIRequests.WithLabelValues(method, outcomeUnauthorized).Inc()
		c.logger.Info("unauthorized response, clearing session", "method", method, "path", path)
		if err := c.store.ClearAll(); err != nil {
			c.logger.Warn("session clear failed", "error", err)
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &Error{Message: domain.MsgUnauthorized}

	case status == http.StatusForbidden:
		c.metrics.APIRequests.WithLabelValues(method, outcomeForbidden).Inc()
		return &Error{Message: domain.MsgForbidden}

	case status >= 400:
		c.metrics.APIRequests.WithLabelValues(method, outcomeServerError).Inc()
		return &Error{Message: serverMessage(resp.Body())}
	}

	var env domain.Envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		c.metrics.APIRequests.WithLabelValues(method, outcomeUnknown).Inc()
		c.logger.Warn("undecodable response body", "method", method, "path", path, "error", err)
		return &Error{Message: domain.MsgUnknownError}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			c.metrics.APIRequests.WithLabelValues(method, outcomeUnknown).Inc()
			c.logger.Warn("undecodable envelope data", "method", method, "path", path, "error", err)
			return &Error{Message: domain.MsgUnknownError}
		}
	}

	c.metrics.APIRequests.WithLabelValues(method, outcomeSuccess).Inc()
	return nil
}

// serverMessage extracts the server-supplied error from an error response,
// preferring the envelope's error field over its message, with a fixed
// fallback when neither is present or the body is not an envelope.
func serverMessage(body []byte) string {
	var env domain.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return domain.MsgUnknownError
	}
	if env.Error != "" {
		return env.Error
	}
	if env.Message != "" {
		return env.Message
	}
	return domain.MsgUnknownError
}
