package httpx

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxSSELineSize is the maximum size of a single SSE line (1 MB). The default
// bufio.Scanner limit is 64 KiB, which is too small for large SSE events such
// as streamed tool-call arguments. Lines exceeding this limit make Next()
// return an error wrapping bufio.ErrTooLong.
const maxSSELineSize = 1 * 1024 * 1024

// maxErrorBodySize caps how much of a response body is read into memory
// (10 MB): a non-2xx body in DoPostStream, and every body, successful or
// not, in DoPostSync. It prevents unbounded allocation from a rogue server.
const maxErrorBodySize int64 = 10 * 1024 * 1024

// DoPostStream issues an HTTP POST and returns the response with its body
// left open for SSE consumption via NewSSEScanner. The caller must close the
// response body once the stream has been drained. Non-2xx responses have
// their body read (capped at maxErrorBodySize), closed, and returned as
// StatusError so callers can classify them without a separate round trip.
func DoPostStream(ctx context.Context, client *http.Client, url string, body []byte, headers ...HeaderOption) (*http.Response, error) {
	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("httpx: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	for _, h := range headers {
		req.Header.Set(h.Key, h.Value)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return resp, fmt.Errorf("httpx: sending request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer CloseWithLog(resp.Body)
		errBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		if readErr != nil {
			return resp, &StatusError{Code: resp.StatusCode, Body: fmt.Sprintf("(failed to read body: %v)", readErr)}
		}
		return resp, &StatusError{Code: resp.StatusCode, Body: string(errBody)}
	}

	return resp, nil
}

// StatusError represents a non-2xx HTTP response. Code and Body let callers
// classify retryability and surface the server's error payload.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("non-2xx status %d: %s", e.Code, TruncateString(e.Body, 500))
}

// SSEScanner reads the wire format one "data:" line at a time: each line is
// its own complete event, with no blank-line separators between them. It
// skips comment lines (prefixed ':') and other SSE fields (event:, id:,
// retry:), and surfaces the "[DONE]" sentinel as io.EOF.
type SSEScanner struct {
	scanner *bufio.Scanner
}

// NewSSEScanner wraps reader in an SSEScanner. Individual lines are capped at
// maxSSELineSize; a longer line causes Next() to return a wrapped
// bufio.ErrTooLong.
func NewSSEScanner(reader io.Reader) *SSEScanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELineSize)
	return &SSEScanner{scanner: scanner}
}

// Next returns the next "data:" line's payload, or io.EOF when the stream
// ends (either by EOF from the underlying reader or the "[DONE]" sentinel).
// Scanner errors (including oversized lines) are returned wrapped; callers
// treat per-call errors as non-fatal to the surrounding decode loop except
// when they indicate the stream itself is unusable. Blank lines, comment
// lines, and non-data fields are skipped without ending the stream.
func (s *SSEScanner) Next() (string, error) {
	for s.scanner.Scan() {
		line := s.scanner.Text()

		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		if strings.HasPrefix(line, "data:") {
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return "", io.EOF
			}
			return data, nil
		}

		// event:, id:, retry: and any other SSE field are not meaningful to
		// this protocol; the event_type discriminator travels inside the
		// JSON payload instead.
	}

	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("httpx: sse scan: %w", err)
	}

	return "", io.EOF
}
