package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestDoJSON_AttachesFreshBearerToken(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("expected X-Request-ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"7"}`))
	}))
	defer srv.Close()

	token := "t1"
	c, err := NewWithOptions(Options{
		BaseURL: srv.URL,
		Service: "pet",
		Token:   func(context.Context) string { return token },
	})
	if err != nil {
		t.Fatalf("NewWithOptions: %v", err)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.Get(context.Background(), "/pets/7", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	token = "t2" // renovado "en otro lado"
	if err := c.Get(context.Background(), "pets/7", &out); err != nil {
		t.Fatalf("Get #2: %v", err)
	}

	if out.ID != "7" {
		t.Fatalf("expected id 7, got %q", out.ID)
	}
	if len(seen) != 2 || seen[0] != "Bearer t1" || seen[1] != "Bearer t2" {
		t.Fatalf("expected fresh tokens per call, got %#v", seen)
	}
}

func TestDoJSON_UnauthorizedInvokesHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"statusCode":401,"message":"Unauthorized"}`))
	}))
	defer srv.Close()

	var calls int32
	c, _ := NewWithOptions(Options{
		BaseURL:        srv.URL,
		OnUnauthorized: func(context.Context) { atomic.AddInt32(&calls, 1) },
	})

	err := c.Get(context.Background(), "/users", nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if StatusCode(err) != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", StatusCode(err))
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected hook called once, got %d", calls)
	}
}

func TestDoJSON_Non2xxIsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, _ := NewWithBaseURL(srv.URL, 0)
	err := c.Post(context.Background(), "/pets", map[string]string{"name": "Milo"}, nil)

	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *HTTPError, got %T", err)
	}
	if he.StatusCode != http.StatusBadGateway || he.Body != "boom" {
		t.Fatalf("unexpected error: %+v", he)
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatalf("502 must not match ErrUnauthorized")
	}
	if !IsRetryable(err) {
		t.Fatalf("5xx should be retryable")
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(&HTTPError{StatusCode: http.StatusBadRequest}) {
		t.Fatalf("400 must not be retryable")
	}
	if !IsRetryable(&HTTPError{StatusCode: http.StatusTooManyRequests}) {
		t.Fatalf("429 should be retryable")
	}
	if IsRetryable(context.Canceled) {
		t.Fatalf("cancel must not be retryable")
	}
	if IsRetryable(nil) {
		t.Fatalf("nil is not retryable")
	}
}

func TestResolveURL_RelativeRequiresBase(t *testing.T) {
	c := New(0)
	if err := c.Get(context.Background(), "/pets", nil); err == nil {
		t.Fatalf("expected error for relative path without BaseURL")
	}
	if _, err := NewWithBaseURL("::bad", 0); err == nil {
		t.Fatalf("expected invalid base url error")
	}
}
