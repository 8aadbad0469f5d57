package tool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWebFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok body"))
	}))
	defer server.Close()

	w := NewWeb()
	args, _ := json.Marshal(WebInput{URL: server.URL})
	result, err := w.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if result.IsError {
		t.Fatalf("IsError = true, want false for 200")
	}
	var out WebOutput
	if err := json.Unmarshal(result.Output, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Status != 200 || out.Body != "ok body" {
		t.Errorf("got %+v, want status=200 body=%q", out, "ok body")
	}
}

func TestWebFetchNonOKIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	w := NewWeb()
	args, _ := json.Marshal(WebInput{URL: server.URL})
	result, err := w.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if !result.IsError {
		t.Error("IsError = false, want true for 404")
	}
}

func TestWebFetchEmptyURL(t *testing.T) {
	w := NewWeb()
	args, _ := json.Marshal(WebInput{URL: ""})
	result, err := w.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if !result.IsError {
		t.Error("IsError = false, want true for empty url")
	}
}
