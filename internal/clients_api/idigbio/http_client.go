package idigbio

// Package idigbio contains the client for the iDigBio summary-stats API.
// This file is the transport layer: it sends requests, applies rate
// limiting, circuit breaking and retries, and knows nothing about the
// response payloads.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shreyashinde0507/idigbio-live-charts/internal/infra/log"
	"github.com/shreyashinde0507/idigbio-live-charts/internal/infra/retry"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production iDigBio search API.
const DefaultBaseURL = "https://search.idigbio.org/v2"

// Client talks to the iDigBio summary-stats endpoints.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	rateLimiter    *rate.Limiter
	circuitBreaker *gobreaker.CircuitBreaker
	retryOpts      retry.Options
}

// NewClient builds a client for the given base URL. An empty baseURL means
// the production API. timeout bounds each HTTP attempt; maxRetries bounds
// retries of transient failures per request.
func NewClient(baseURL string, timeout time.Duration, maxRetries int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "iDigBioAPI",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Client{
		baseURL:        baseURL,
		rateLimiter:    rate.NewLimiter(rate.Limit(10), 20),
		circuitBreaker: circuitBreaker,
		retryOpts: retry.Options{
			MaxRetries: maxRetries,
			BaseDelay:  300 * time.Millisecond,
			MaxDelay:   5 * time.Second,
		},
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DisableKeepAlives: false,
				MaxIdleConns:      10,
				IdleConnTimeout:   90 * time.Second,
			},
		},
	}
}

func setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "idigbio-live-charts/1.0")
	req.Header.Set("Accept", "application/json")
}

// doGET fetches endpoint with the given query and returns the raw body.
func (c *Client) doGET(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, endpoint, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, err
		}
		setHeaders(req)
		return req, nil
	})
}

// doPOST sends body as JSON to endpoint and returns the raw response body.
func (c *Client) doPOST(ctx context.Context, endpoint string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &RemoteFetchError{Endpoint: endpoint, Err: fmt.Errorf("encode request body: %w", err)}
	}
	fullURL := c.baseURL + endpoint
	return c.do(ctx, http.MethodPost, endpoint, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		setHeaders(req)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
}

func (c *Client) do(ctx context.Context, method, endpoint string, newReq func() (*http.Request, error)) ([]byte, error) {
	requestID := log.GenerateRequestID()
	log.LogRequest(requestID, method, endpoint)

	var respBody []byte
	start := time.Now()
	err := retry.Do(ctx, c.retryOpts, func() error {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return err
		}
		_, cbErr := c.circuitBreaker.Execute(func() (interface{}, error) {
			req, err := newReq()
			if err != nil {
				return nil, err
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, err
			}

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return nil, &retry.HTTPError{
					StatusCode: resp.StatusCode,
					Body:       body,
					RetryAfter: retry.ParseRetryAfter(resp.Header.Get("Retry-After")),
				}
			}
			respBody = body
			return nil, nil
		})
		return cbErr
	})
	durationMs := time.Since(start).Milliseconds()

	if err != nil {
		statusCode := 0
		var he *retry.HTTPError
		if errors.As(err, &he) {
			statusCode = he.StatusCode
		}
		log.LogResponse(requestID, statusCode, durationMs, zap.String("endpoint", endpoint))
		return nil, &RemoteFetchError{Endpoint: endpoint, StatusCode: statusCode, Err: err}
	}

	log.LogResponse(requestID, http.StatusOK, durationMs,
		zap.String("endpoint", endpoint),
		zap.Int("body_bytes", len(respBody)))
	return respBody, nil
}
