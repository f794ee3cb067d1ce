// Package upstream talks to the third-party Quran, tafsir and hadith APIs.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrTimeout is returned when an upstream call exceeds its deadline.
var ErrTimeout = errors.New("upstream timeout")

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Service, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Options tune every upstream client.
type Options struct {
	Timeout time.Duration
	// RPS caps outgoing requests per second; zero disables pacing.
	RPS float64
}

func (o Options) limiter() *rate.Limiter {
	if o.RPS <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(o.RPS)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(o.RPS), burst)
}

// jsonClient issues paced GET requests and decodes JSON bodies.
type jsonClient struct {
	service    string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func newJSONClient(service, baseURL string, opts Options) jsonClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return jsonClient{
		service:    service,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    opts.limiter(),
	}
}

func (c jsonClient) getJSON(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for %s rate limit: %w", c.service, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", c.service, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %s %s", ErrTimeout, c.service, path)
		}
		return fmt.Errorf("call %s: %w", c.service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Service: c.service, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %s %s", ErrTimeout, c.service, path)
		}
		return fmt.Errorf("decode %s response: %w", c.service, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
