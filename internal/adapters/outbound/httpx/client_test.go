package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient() *Client {
	// High rate so the limiter never stalls the test.
	return New("test", 2*time.Second, 1000, 1000, 2)
}

func TestGetJSONDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "secret" {
			t.Errorf("header X-Api-Key = %q", got)
		}
		w.Write([]byte(`{"value": 42}`))
	}))
	defer srv.Close()

	c := newTestClient()
	c.SetHeader("X-Api-Key", "secret")

	var out struct {
		Value int `json:"value"`
	}
	if err := c.GetJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out.Value != 42 {
		t.Errorf("value = %d, want 42", out.Value)
	}
}

func TestGetJSONRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	if err := newTestClient().GetJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("GetJSON after retries: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server hit %d times, want 3", got)
	}
	if !out.OK {
		t.Error("final body not decoded")
	}
}

func TestGetJSONGivesUpAfterBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	var out map[string]any
	if err := newTestClient().GetJSON(context.Background(), srv.URL, &out); err == nil {
		t.Fatal("want error after exhausting retries")
	}
	if got := calls.Load(); got != maxAttempts {
		t.Errorf("server hit %d times, want %d", got, maxAttempts)
	}
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "no such route", http.StatusNotFound)
	}))
	defer srv.Close()

	var out map[string]any
	if err := newTestClient().GetJSON(context.Background(), srv.URL, &out); err == nil {
		t.Fatal("want error on 404")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1 (4xx is not retryable)", got)
	}
}

func TestGetJSONHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out map[string]any
	if err := newTestClient().GetJSON(ctx, srv.URL, &out); err == nil {
		t.Fatal("want error with cancelled context")
	}
}
