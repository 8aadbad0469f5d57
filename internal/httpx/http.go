package httpx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// CloseWithLog closes an io.Closer and logs any error that occurs.
// Useful in defer statements where cleanup must happen but the close error
// should not override the function's primary return error.
func CloseWithLog(closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		slog.Warn("failed to close resource", "error", err.Error())
	}
}

// HeaderOption is a single custom HTTP header to attach to a request.
type HeaderOption struct {
	Key   string
	Value string
}

// TruncateString truncates s to maxLen bytes, appending a "... (truncated)"
// marker. Used to keep error messages and debug logs bounded when
// echoing server response bodies.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "... (truncated)"
}

// DoPostSync performs a synchronous JSON POST and returns the raw response
// body. A non-2xx status is reported as a *StatusError carrying the body,
// so callers can attempt to parse it as a structured API error.
func DoPostSync(ctx context.Context, client *http.Client, url string, body []byte, headers ...HeaderOption) ([]byte, error) {
	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("httpx: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for _, h := range headers {
		req.Header.Set(h.Key, h.Value)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpx: sending request: %w", err)
	}
	defer CloseWithLog(resp.Body)

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return nil, fmt.Errorf("httpx: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}
