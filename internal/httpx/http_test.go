package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDoPostSyncReturnsBodyOnSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("X-Request-Id") != "req-1" {
			t.Errorf("X-Request-Id = %q, want req-1", r.Header.Get("X-Request-Id"))
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	body, err := DoPostSync(context.Background(), server.Client(), server.URL, []byte(`{}`),
		HeaderOption{Key: "X-Request-Id", Value: "req-1"})
	if err != nil {
		t.Fatalf("DoPostSync() error = %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %s, want {\"ok\":true}", body)
	}
}

func TestDoPostSyncReturnsStatusErrorOnNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	_, err := DoPostSync(context.Background(), server.Client(), server.URL, []byte(`{}`))
	if err == nil {
		t.Fatal("DoPostSync() error = nil, want *StatusError")
	}
	statusErr, ok := err.(*StatusError)
	if !ok {
		t.Fatalf("error type = %T, want *StatusError", err)
	}
	if statusErr.Code != http.StatusTooManyRequests {
		t.Errorf("Code = %d, want 429", statusErr.Code)
	}
	if !strings.Contains(statusErr.Body, "rate limited") {
		t.Errorf("Body = %q, want to contain 'rate limited'", statusErr.Body)
	}
}

func TestDoPostSyncDefaultsToDefaultClientWhenNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	if _, err := DoPostSync(context.Background(), nil, server.URL, []byte(`{}`)); err != nil {
		t.Fatalf("DoPostSync(nil client) error = %v", err)
	}
}

func TestDoPostSyncPropagatesContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DoPostSync(ctx, server.Client(), server.URL, []byte(`{}`))
	if err == nil {
		t.Error("DoPostSync() error = nil, want context cancellation error")
	}
}

func TestStatusErrorMessageTruncatesLongBody(t *testing.T) {
	err := &StatusError{Code: 500, Body: strings.Repeat("x", 1000)}
	if !strings.Contains(err.Error(), "truncated") {
		t.Errorf("Error() = %q, want to mention truncation", err.Error())
	}
}

func TestTruncateStringShortPassesThrough(t *testing.T) {
	if got := TruncateString("short", 100); got != "short" {
		t.Errorf("TruncateString() = %q, want unchanged", got)
	}
}

func TestTruncateStringLongIsCapped(t *testing.T) {
	got := TruncateString(strings.Repeat("a", 50), 10)
	if !strings.HasPrefix(got, strings.Repeat("a", 10)) || !strings.Contains(got, "truncated") {
		t.Errorf("TruncateString() = %q", got)
	}
}

func TestCloseWithLogHandlesNil(t *testing.T) {
	CloseWithLog(nil) // must not panic
}
