package audible

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/csandman/audnexus/internal/entity"
)

var tlds = map[string]string{
	"au": "com.au",
	"ca": "ca",
	"de": "de",
	"es": "es",
	"fr": "fr",
	"in": "in",
	"it": "it",
	"jp": "co.jp",
	"uk": "co.uk",
	"us": "com",
}

// TLD returns the Audible top-level domain for a region code.
func TLD(region string) (string, bool) {
	tld, ok := tlds[region]
	return tld, ok
}

// StatusError is a non-200 response from Audible.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.Code, e.URL)
}

func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNotFound {
		return entity.ErrNotFound
	}
	return nil
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
	apiBase    func(tld string) string
	webBase    func(tld string) string
	log        zerolog.Logger
}

type Option func(*Client)

// WithBaseURLs points every region at fixed hosts. Tests use it with httptest servers.
func WithBaseURLs(api, web string) Option {
	return func(c *Client) {
		c.apiBase = func(string) string { return strings.TrimRight(api, "/") }
		c.webBase = func(string) string { return strings.TrimRight(web, "/") }
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func NewClient(userAgent string, rps int, maxRetries int, timeout time.Duration, opts ...Option) *Client {
	if rps <= 0 {
		rps = 1
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
		apiBase:    func(tld string) string { return "https://api.audible." + tld },
		webBase:    func(tld string) string { return "https://www.audible." + tld },
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("component", "audible").Logger()
	return c
}

func (c *Client) hosts(region string) (api, web string, err error) {
	tld, ok := TLD(region)
	if !ok {
		return "", "", entity.ErrInvalidRegion
	}
	return c.apiBase(tld), c.webBase(tld), nil
}

// get fetches url, retrying 429 and 5xx responses with exponential backoff.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, retry, err := c.do(ctx, url)
		if err == nil {
			return body, nil
		}
		if !retry {
			return nil, err
		}
		c.log.Debug().Err(err).Int("attempt", i+1).Str("url", url).Msg("retrying")
		lastErr = err
	}
	return nil, fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, &StatusError{Code: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	return body, false, nil
}

func upstream(kind entity.Kind, asin string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, entity.ErrInvalidRegion) {
		return err
	}
	return fmt.Errorf("%w: %s %s: %w", entity.ErrUpstream, kind, asin, err)
}
