// Package backend holds the typed bindings for the desktop's upstream
// service: files, chat, browser proxy, email, slideshow and sync. The
// upstream is opaque; this package only knows its HTTP surface.
package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/resilience"
)

// Client talks to the upstream backend. All calls go through the rate
// limiter and circuit breaker; transient transport failures are retried by
// the underlying retryablehttp transport.
type Client struct {
	http *resty.Client
	// stream carries the chat calls: longer timeout, body left unparsed
	// so SSE responses can be scanned incrementally.
	stream  *resty.Client
	breaker *resilience.Breaker
	limiter *rate.Limiter
	metrics *monitoring.Metrics
	log     *logging.Logger
}

// New creates a backend client from configuration.
func New(cfg config.BackendConfig, log *logging.Logger) *Client {
	retry := retryablehttp.NewClient()
	retry.RetryMax = 3
	retry.RetryWaitMin = 100 * time.Millisecond
	retry.RetryWaitMax = 2 * time.Second
	retry.Logger = nil

	httpClient := resty.NewWithClient(retry.StandardClient()).
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	streamClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.ChatTimeout).
		SetDoNotParseResponse(true)

	c := &Client{
		http:   httpClient,
		stream: streamClient,
		breaker: resilience.NewBreaker(resilience.Settings{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		}),
		log: log.Named("backend"),
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), int(cfg.RateLimit)*2)
	}
	return c
}

// WithMetrics attaches metrics collectors.
func (c *Client) WithMetrics(metrics *monitoring.Metrics) *Client {
	c.metrics = metrics
	return c
}

// BreakerState exposes the breaker state for health reporting.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// getJSON performs a GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, query map[string]string, out any) error {
	return c.call(ctx, endpoint, func() error {
		req := c.http.R().SetContext(ctx)
		if query != nil {
			req.SetQueryParams(query)
		}
		resp, err := req.Get(path)
		if err != nil {
			return fmt.Errorf("GET %s: %w", path, err)
		}
		return c.decode(path, resp, out)
	})
}

// postJSON performs a POST with a JSON body and decodes the response into
// out when out is non-nil.
func (c *Client) postJSON(ctx context.Context, endpoint, path string, body, out any) error {
	return c.call(ctx, endpoint, func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			Post(path)
		if err != nil {
			return fmt.Errorf("POST %s: %w", path, err)
		}
		return c.decode(path, resp, out)
	})
}

// deleteJSON performs a DELETE.
func (c *Client) deleteJSON(ctx context.Context, endpoint, path string) error {
	return c.call(ctx, endpoint, func() error {
		resp, err := c.http.R().SetContext(ctx).Delete(path)
		if err != nil {
			return fmt.Errorf("DELETE %s: %w", path, err)
		}
		return c.decode(path, resp, nil)
	})
}

func (c *Client) call(ctx context.Context, endpoint string, fn func() error) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	start := time.Now()
	err := c.breaker.Execute(fn)
	c.observe(endpoint, start, err)
	if err != nil {
		c.log.Warn("backend call failed",
			zap.String("endpoint", endpoint), zap.Error(err))
	}
	return err
}

func (c *Client) observe(endpoint string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.metrics.BackendCalls.WithLabelValues(endpoint, status).Inc()
	c.metrics.BackendDuration.WithLabelValues(endpoint).
		Observe(time.Since(start).Seconds())
}

func (c *Client) decode(path string, resp *resty.Response, out any) error {
	if resp.IsError() {
		return fmt.Errorf("%s returned %s", path, resp.Status())
	}
	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
