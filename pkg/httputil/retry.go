package httputil

import (
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultMaxAttempts  = 5
	defaultInitialDelay = 500 * time.Millisecond
	defaultMaxDelay     = 8 * time.Second
)

// RetryClient wraps an http.Client with exponential backoff. Rate limits and
// transient transport failures are retried; everything else returns as-is.
type RetryClient struct {
	client       *http.Client
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
	sleep        func(time.Duration)
}

type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

func NewRetryClient(client *http.Client, opts RetryOptions) *RetryClient {
	if client == nil {
		client = http.DefaultClient
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = defaultInitialDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = defaultMaxDelay
	}

	return &RetryClient{
		client:       client,
		maxAttempts:  opts.MaxAttempts,
		initialDelay: opts.InitialDelay,
		maxDelay:     opts.MaxDelay,
		sleep:        time.Sleep,
	}
}

func (c *RetryClient) Do(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error
	delay := c.initialDelay

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			if req.GetBody != nil {
				body, bodyErr := req.GetBody()
				if bodyErr != nil {
					return nil, bodyErr
				}
				req.Body = body
			}

			wait := delay
			if resp != nil {
				if after := retryAfter(resp); after > 0 {
					wait = after
				}
			}
			c.sleep(jitter(wait))
			delay = min(delay*2, c.maxDelay)
		}

		resp, err = c.client.Do(req)
		if !shouldRetry(resp, err) {
			return resp, err
		}

		if resp != nil {
			_ = resp.Body.Close()
		}
		if req.Context().Err() != nil {
			return nil, req.Context().Err()
		}
	}

	return resp, err
}

func shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return true
		}
		if _, ok := err.(*net.OpError); ok {
			return true
		}
		if _, ok := err.(*net.DNSError); ok {
			return true
		}
		return false
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.StatusCode >= 500 && resp.StatusCode < 600
}

func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func jitter(delay time.Duration) time.Duration {
	factor := 0.9 + rand.Float64()*0.2
	return time.Duration(float64(delay) * factor)
}
