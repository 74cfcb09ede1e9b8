// Package abilities runs store abilities against the platform's HTTP abilities endpoint
package abilities

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"assistify/internal/core/ability"
	perr "assistify/internal/platform/errors"
	"assistify/internal/platform/logger"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUA        = "assistify-api"
	defaultMaxRetry  = 3
	defaultRetryBase = 250 * time.Millisecond
	maxBackoff       = 10 * time.Second
)

// Options configures the Client
type Options struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration

	// Retries apply to read only abilities only; actions are attempted once.
	// Zero disables retries and a negative value uses the default.
	MaxRetries int
	RetryBase  time.Duration
}

// Client implements ability.Executor over HTTP
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

var _ ability.Executor = (*Client)(nil)

// NewClient creates a new Client with sane defaults
func NewClient(o Options) (*Client, error) {
	o.BaseURL = strings.TrimRight(strings.TrimSpace(o.BaseURL), "/")
	if o.BaseURL == "" {
		return nil, perr.InvalidArgf("abilities base url is required")
	}
	if _, err := url.Parse(o.BaseURL); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "abilities base url")
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("abilities"),
		now:   time.Now,
		sleep: sleepCtx,
	}, nil
}

type runRequest struct {
	Input map[string]any `json:"input"`
}

// Run POSTs params to {base}/abilities/{id}/run and decodes the JSON result
func (c *Client) Run(ctx context.Context, meta ability.Meta, params map[string]any) (any, error) {
	body, err := json.Marshal(runRequest{Input: params})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "encode ability input")
	}
	endpoint := c.opts.BaseURL + "/abilities/" + meta.ID + "/run"

	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "abilities new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if c.opts.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.opts.Token)
		}

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if !c.shouldRetry(meta, attempts) {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "ability %s unreachable", meta.ID)
			}
			if err := c.backoffAndLog(ctx, meta, attempts, "abilities transport error retrying"); err != nil {
				return nil, err
			}
			attempts++
			continue
		}

		c.log.Debug().
			Str("ability", meta.ID).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("abilities http response")

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return decodeResult(resp)
		case transient(resp.StatusCode) && c.shouldRetry(meta, attempts):
			_ = drainAndClose(resp.Body)
			if err := c.backoffAndLog(ctx, meta, attempts, "abilities transient status retrying"); err != nil {
				return nil, err
			}
			attempts++
			continue
		default:
			return nil, statusError(resp)
		}
	}
}

func (c *Client) backoffAndLog(ctx context.Context, meta ability.Meta, attempt int, msg string) error {
	back := c.backoff(attempt)
	c.log.Warn().Str("ability", meta.ID).Dur("retry_in", back).Int("attempt", attempt).Msg(msg)
	return c.sleep(ctx, back)
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase << uint(attempt)
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}

// shouldRetry never retries an ability that may have side effects
func (c *Client) shouldRetry(meta ability.Meta, attempt int) bool {
	return meta.ReadOnly && attempt < c.opts.MaxRetries
}
