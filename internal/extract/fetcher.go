package extract

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/MrSnakeDoc/solvelog/internal/logger"
	"github.com/MrSnakeDoc/solvelog/internal/utils"
)

// MaxPageSize caps how much of a response body is parsed.
const MaxPageSize = 5 << 20

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("page fetching temporarily unavailable")

// FetcherOptions configures a Fetcher.
type FetcherOptions struct {
	Timeout     time.Duration // per request, default 10s
	UserAgent   string
	MaxFailures uint32        // consecutive failures before the breaker opens, default 5
	OpenTimeout time.Duration // how long the breaker stays open, default 60s
}

// Fetcher downloads judge pages behind a circuit breaker.
type Fetcher struct {
	client    *http.Client
	userAgent string
	cb        *gobreaker.CircuitBreaker
	logger    logger.Logger
}

// NewFetcher creates a Fetcher. A nil client gets a default one.
func NewFetcher(opts FetcherOptions, client *http.Client, log logger.Logger) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = 5
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 60 * time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}
	if client == nil {
		client = &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: opts.Timeout,
				}).DialContext,
				TLSHandshakeTimeout: opts.Timeout,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
			},
		}
	}

	f := &Fetcher{client: client, userAgent: opts.UserAgent, logger: log}
	f.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "page-fetcher",
		Timeout: opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	})
	return f
}

// Fetch downloads rawURL and parses it.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	body, err := f.cb.Execute(func() (interface{}, error) {
		return f.get(ctx, rawURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return nil, err
	}
	return ParsePage(rawURL, bytes.NewReader(body.([]byte)))
}

// State exposes the breaker state, for /infra.
func (f *Fetcher) State() string {
	return f.cb.State().String()
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s: status %d", rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	return data, nil
}
