package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultRequestTimeout = 30 * time.Second

	retryInitialInterval = 1 * time.Second
	retryMaxInterval     = 16 * time.Second
	retryMultiplier      = 2.0
	maxRetries           = 3
)

// retriableStatuses are the HTTP responses worth retrying. Everything else
// fails immediately.
var retriableStatuses = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// httpStatusError is returned by getJSON for non-2xx responses so callers
// can branch on the status code.
type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// restClient is the shared JSON-over-HTTP helper used by all registry
// clients. Header values set in headers apply to every request.
type restClient struct {
	http    *http.Client
	headers map[string]string
}

func newRESTClient(headers map[string]string) *restClient {
	return &restClient{
		http:    &http.Client{Timeout: defaultRequestTimeout},
		headers: headers,
	}
}

// getJSON issues a GET and decodes a 2xx JSON body into out. Non-2xx
// responses return *httpStatusError with a truncated body for diagnostics.
func (c *restClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &httpStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}

// getJSONRetry wraps getJSON with exponential backoff. Retriable statuses
// and transport errors are retried up to maxRetries times; anything else
// stops immediately.
func (c *restClient) getJSONRetry(ctx context.Context, url string, out any) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = retryInitialInterval
	policy.MaxInterval = retryMaxInterval
	policy.Multiplier = retryMultiplier

	op := func() error {
		err := c.getJSON(ctx, url, out)
		if err == nil {
			return nil
		}
		if isRetriable(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	return backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(policy, maxRetries), ctx))
}

func isRetriable(err error) bool {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return retriableStatuses[statusErr.StatusCode]
	}
	// *url.Error from the transport implements net.Error.
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	// Truncated bodies during decode.
	return errors.Is(err, io.ErrUnexpectedEOF)
}

// classify maps a raw transport or status error onto the source error
// taxonomy.
func classify(source string, err error) *SourceError {
	var se *SourceError
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewSourceError(ErrorTimeout, source, "request timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewSourceError(ErrorTimeout, source, "request timed out", err)
	}
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden:
			return NewSourceError(ErrorAuthentication, source, "registry rejected credentials", err)
		case statusErr.StatusCode == http.StatusTooManyRequests:
			return NewSourceError(ErrorRateLimited, source, "registry rate limit exceeded", err)
		case statusErr.StatusCode >= 500:
			return NewSourceError(ErrorOutage, source, "registry unavailable", err)
		default:
			return NewSourceError(ErrorBadData, source, "unexpected registry response", err)
		}
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return NewSourceError(ErrorBadData, source, "malformed registry response", err)
	}
	return NewSourceError(ErrorInternal, source, "registry call failed", err)
}
