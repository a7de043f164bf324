package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vitos/market_viewer/internal/domain"
	"github.com/vitos/market_viewer/internal/infrastructure/metrics"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout = 5 * time.Second

	maxBodyBytes = 1 << 20
)

// ErrRateLimited marks a request that never left the local rate limiter.
var ErrRateLimited = errors.New("rate limited")

// RequestError describes a failed call to one exchange endpoint. Status is
// 0 when no HTTP response was received.
type RequestError struct {
	Exchange domain.ExchangeID
	Endpoint string
	Status   int
	Err      error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: http %d: %v", e.Exchange, e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Exchange, e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Timeout reports whether the request ran out of time.
func (e *RequestError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// ClientConfig tunes the outbound behaviour for one exchange.
type ClientConfig struct {
	Timeout           time.Duration // per request
	RequestsPerSecond float64       // 0 disables limiting
	Burst             int
}

// NewHTTPClient returns the client shared by every adapter. *http.Client is
// safe for concurrent use, so one connection pool serves all fan-out.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 16
	return &http.Client{
		Timeout:   2 * timeout,
		Transport: transport,
	}
}

// restClient issues JSON GETs against a single exchange.
type restClient struct {
	exchange domain.ExchangeID
	http     *http.Client
	timeout  time.Duration
	limiter  *rate.Limiter
	metrics  *metrics.Metrics
}

func newRESTClient(exchange domain.ExchangeID, httpClient *http.Client, cfg ClientConfig, m *metrics.Metrics) *restClient {
	if httpClient == nil {
		httpClient = NewHTTPClient(cfg.Timeout)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &restClient{
		exchange: exchange,
		http:     httpClient,
		timeout:  timeout,
		metrics:  m,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}

// getJSON fetches url and decodes the body into out. The request gets its
// own timeout, independent of any sibling request. Time spent queued on
// the rate limiter is bounded by ctx only and does not count against it.
func (c *restClient) getJSON(ctx context.Context, endpoint, url string, out any) error {
	if c.limiter != nil {
		queued := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			c.metrics.ObserveRequest(string(c.exchange), endpoint, metrics.OutcomeRateLimited, time.Since(queued))
			return &RequestError{Exchange: c.exchange, Endpoint: endpoint, Err: fmt.Errorf("%w: %w", ErrRateLimited, err)}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	status, err := c.do(ctx, url, out)

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = metrics.OutcomeTimeout
		}
	}
	c.metrics.ObserveRequest(string(c.exchange), endpoint, outcome, time.Since(start))

	if err != nil {
		return &RequestError{Exchange: c.exchange, Endpoint: endpoint, Status: status, Err: err}
	}
	return nil
}

func (c *restClient) do(ctx context.Context, url string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// net/http reports its own deadline error; surface the context's.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("API error: %s", strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// rejected wraps an error envelope returned with a 2xx status.
func (c *restClient) rejected(endpoint string, err error) error {
	return &RequestError{Exchange: c.exchange, Endpoint: endpoint, Status: http.StatusOK, Err: err}
}
