// Package nominatim provides a reverse-geocoding client for the Nominatim
// REST API with retries, backoff, and request-rate throttling
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	perr "guia/internal/platform/errors"
	"guia/internal/platform/logger"
)

const (
	baseURLDefault     = "https://nominatim.openstreetmap.org"
	defaultTimeout     = 10 * time.Second
	defaultUA          = "guia-tracker"
	defaultMaxRetry    = 3
	defaultRetryBase   = 500 * time.Millisecond
	defaultMinInterval = time.Second
	defaultLanguage    = "pt-BR"
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string

	// Email identifies heavy users to the service operators, optional
	Email string

	// Language is sent as accept-language
	Language string

	Timeout time.Duration

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration

	// MinInterval throttles outgoing requests; the public instance asks for
	// at most one request per second
	MinInterval time.Duration
}

// Client is a minimal Nominatim client honoring the public usage policy
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(time.Duration)

	mu   sync.Mutex
	last time.Time
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Language == "" {
		o.Language = defaultLanguage
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	// zero means the policy default; negative disables throttling outright
	if o.MinInterval == 0 {
		o.MinInterval = defaultMinInterval
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("nominatim"),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Reverse geocodes a coordinate into the raw payload shape the address
// normalizer consumes
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (map[string]any, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", fmt.Sprintf("%.7f", lat))
	q.Set("lon", fmt.Sprintf("%.7f", lon))
	q.Set("addressdetails", "1")
	q.Set("accept-language", c.opts.Language)
	if c.opts.Email != "" {
		q.Set("email", c.opts.Email)
	}

	body, err := c.get(ctx, "/reverse?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeGeocode, "nominatim bad response body")
	}
	// the service reports "unable to geocode" with a 200 and an error key
	if msg, ok := raw["error"].(string); ok {
		return nil, perr.Geocodef("nominatim: %s", msg)
	}
	return raw, nil
}

// ReversePlace is the typed variant of Reverse, for display-oriented callers
func (c *Client) ReversePlace(ctx context.Context, lat, lon float64) (Place, error) {
	raw, err := c.Reverse(ctx, lat, lon)
	if err != nil {
		return Place{}, err
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return Place{}, perr.Wrapf(err, perr.ErrorCodeGeocode, "nominatim remarshal failed")
	}
	var p Place
	if err := json.Unmarshal(b, &p); err != nil {
		return Place{}, perr.Wrapf(err, perr.ErrorCodeGeocode, "nominatim bad place shape")
	}
	return p, nil
}

// get issues a throttled GET with retries and rate limit handling
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	u := c.opts.BaseURL + path
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		c.throttle()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "nominatim new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/json")

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if !c.shouldRetry(attempts) {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "nominatim do failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("nominatim transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		c.log.Debug().
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("nominatim http response")

		switch resp.StatusCode {
		case http.StatusOK:
			body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			_ = resp.Body.Close()
			if err != nil {
				return nil, perr.Wrapf(err, perr.ErrorCodeGeocode, "nominatim read failed")
			}
			return body, nil
		case http.StatusTooManyRequests:
			if !c.shouldRetry(attempts) {
				_ = drainAndClose(resp.Body)
				return nil, perr.Newf(perr.ErrorCodeTooManyRequests, "nominatim rate limited")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("sleep", back).Msg("nominatim rate limited backing off")
			_ = drainAndClose(resp.Body)
			c.sleep(back)
			attempts++
			continue
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			if !c.shouldRetry(attempts) {
				_ = drainAndClose(resp.Body)
				return nil, perr.Newf(perr.ErrorCodeUnavailable, "nominatim transient server error")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("nominatim transient error retrying")
			_ = drainAndClose(resp.Body)
			c.sleep(back)
			attempts++
			continue
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return nil, perr.Newf(perr.ErrorCodeGeocode, "nominatim unexpected status %d body %s", resp.StatusCode, string(body))
		}
	}
}

// throttle spaces requests MinInterval apart
func (c *Client) throttle() {
	if c.opts.MinInterval <= 0 {
		return
	}
	c.mu.Lock()
	now := c.now()
	wait := c.opts.MinInterval - now.Sub(c.last)
	if wait > 0 {
		c.last = now.Add(wait)
	} else {
		c.last = now
		wait = 0
	}
	c.mu.Unlock()

	if wait > 0 {
		c.sleep(wait)
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase
	ms := int64(d / time.Millisecond)
	ms = ms << uint(attempt)
	max := int64(30 * time.Second / time.Millisecond)
	if ms > max {
		ms = max
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 1<<20))
	return rc.Close()
}
