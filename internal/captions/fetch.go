package captions

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Defaults for provider HTTP calls
const (
	DefaultTimeout      = 15 * time.Second
	DefaultMaxBodyBytes = 10_000_000
	DefaultUserAgent    = "transcripts/1.0"
	DefaultLanguage     = "en-US"
)

// httpStatusError reports a non-2xx provider response
type httpStatusError struct {
	StatusCode int
	Status     string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected http status %s", e.Status)
}

// readLimited reads a response body, failing when it exceeds maxBytes
func readLimited(resp *http.Response, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	if resp.ContentLength > maxBytes {
		return nil, fmt.Errorf("content-length %d exceeds limit %d", resp.ContentLength, maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("body too large (>%d bytes)", maxBytes)
	}
	return data, nil
}

// getBytes performs a GET and returns the body of a 2xx response
func getBytes(ctx context.Context, client *http.Client, rawURL, userAgent string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", DefaultLanguage)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpStatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return readLimited(resp, maxBytes)
}
