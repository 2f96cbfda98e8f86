package gateway

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testOptions(baseURL string) Options {
	return Options{
		BaseURL:    baseURL,
		Timeout:    time.Second,
		MaxRetries: 3,
		BaseDelay:  5 * time.Millisecond,
		MaxDelay:   20 * time.Millisecond,
		Jitter:     time.Millisecond,
	}
}

func TestFetchFirstAttemptSuccess(t *testing.T) {
	var attempts atomic.Int32
	payload := []byte("image-bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		if r.URL.Path != "/ipfs/QmTest" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write(payload)
	}))
	defer server.Close()

	client := NewClient(testOptions(server.URL))

	start := time.Now()
	data, err := client.Fetch(context.Background(), "QmTest")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("got %q, want %q", data, payload)
	}
	if n := attempts.Load(); n != 1 {
		t.Errorf("expected 1 attempt, got %d", n)
	}
	// No backoff sleep on first-attempt success.
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("first-attempt success took %v, expected no sleeps", elapsed)
	}
}

func TestFetchPermanentAbsence(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusForbidden} {
		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
			w.WriteHeader(status)
		}))

		client := NewClient(testOptions(server.URL))
		_, err := client.Fetch(context.Background(), "QmGone")
		server.Close()

		if !errors.Is(err, ErrAbsent) {
			t.Errorf("status %d: expected ErrAbsent, got %v", status, err)
		}
		if n := attempts.Load(); n != 1 {
			t.Errorf("status %d: expected exactly 1 attempt, got %d", status, n)
		}
	}
}

func TestFetchUnexpectedStatusNotRetried(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	client := NewClient(testOptions(server.URL))
	_, err := client.Fetch(context.Background(), "QmOdd")

	if !errors.Is(err, ErrAbsent) {
		t.Errorf("expected ErrAbsent for unexpected status, got %v", err)
	}
	if n := attempts.Load(); n != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", n)
	}
}

func TestFetchRetriesTransientThenSucceeds(t *testing.T) {
	var attempts atomic.Int32
	payload := []byte("eventually")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(payload)
	}))
	defer server.Close()

	opts := testOptions(server.URL)
	opts.MaxRetries = 5
	client := NewClient(opts)

	start := time.Now()
	data, err := client.Fetch(context.Background(), "QmFlaky")
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("got %q, want %q", data, payload)
	}
	if n := attempts.Load(); n != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", n)
	}
	// Two sleeps: base*1 and base*2, each plus at most jitter.
	min := opts.BaseDelay + 2*opts.BaseDelay
	max := min + 2*opts.Jitter + 500*time.Millisecond
	if elapsed < min {
		t.Errorf("elapsed %v shorter than the two backoff sleeps (%v)", elapsed, min)
	}
	if elapsed > max {
		t.Errorf("elapsed %v longer than expected bound %v", elapsed, max)
	}
}

func TestFetchExhaustsRetryBudget(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	opts := testOptions(server.URL)
	opts.MaxRetries = 4
	client := NewClient(opts)

	_, err := client.Fetch(context.Background(), "QmDown")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if n := attempts.Load(); n != 4 {
		t.Errorf("expected exactly MaxRetries=4 attempts, got %d", n)
	}
}

func TestFetchRetriesRateLimit(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(testOptions(server.URL))
	data, err := client.Fetch(context.Background(), "QmBusy")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "ok" {
		t.Errorf("got %q, want %q", data, "ok")
	}
	if n := attempts.Load(); n != 2 {
		t.Errorf("expected 2 attempts, got %d", n)
	}
}

func TestFetchNetworkErrorRetried(t *testing.T) {
	// Server closed before the fetch: every attempt fails at the
	// connection level, which is transient.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	opts := testOptions(url)
	opts.MaxRetries = 2
	client := NewClient(opts)

	_, err := client.Fetch(context.Background(), "QmNoConn")
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted for connection errors, got %v", err)
	}
}

func TestFetchContextCancelledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	opts := testOptions(server.URL)
	opts.BaseDelay = 10 * time.Second
	opts.MaxDelay = 10 * time.Second
	client := NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Fetch(ctx, "QmSlow")
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context error, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("cancellation did not interrupt the backoff sleep")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Timeout != 15*time.Second {
		t.Errorf("expected default timeout 15s, got %v", opts.Timeout)
	}
	if opts.MaxRetries != 10 {
		t.Errorf("expected default max retries 10, got %d", opts.MaxRetries)
	}
	if opts.BaseDelay != 2*time.Second {
		t.Errorf("expected default base delay 2s, got %v", opts.BaseDelay)
	}
	if opts.MaxDelay != 30*time.Second {
		t.Errorf("expected default max delay 30s, got %v", opts.MaxDelay)
	}
}
