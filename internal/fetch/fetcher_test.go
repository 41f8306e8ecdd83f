package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/subwatch/subwatch/internal/domain"
)

func newTestClient(cfg Config) *Client {
	return New(cfg, zap.NewNop())
}

func TestDo_PlainGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "ClashforWindows/0.18.1" {
			t.Errorf("unexpected user agent %q", ua)
		}
		w.Header().Set("Subscription-Userinfo", "upload=1;download=2;total=3;expire=4")
		fmt.Fprint(w, "body")
	}))
	defer srv.Close()

	c := newTestClient(Config{UserAgent: "ClashforWindows/0.18.1"})
	res, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("status = %d", res.StatusCode)
	}
	if string(res.Body) != "body" {
		t.Errorf("body = %q", res.Body)
	}
	if res.Userinfo() != "upload=1;download=2;total=3;expire=4" {
		t.Errorf("userinfo = %q", res.Userinfo())
	}
}

func TestDo_FollowsRedirectsToFirstNon3xx(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Redirect(w, r, "/b", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Redirect(w, r, "/final", http.StatusFound)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTeapot)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(Config{})
	res, err := c.Get(context.Background(), srv.URL+"/a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != http.StatusTeapot {
		t.Errorf("status = %d, want 418", res.StatusCode)
	}
	if res.FinalURL != srv.URL+"/final" {
		t.Errorf("final url = %q", res.FinalURL)
	}
	if hits.Load() != 3 {
		t.Errorf("hits = %d, want 3", hits.Load())
	}
}

func TestDo_SelfRedirectHitsHopCap(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Redirect(w, r, "/loop", http.StatusFound)
	}))
	defer srv.Close()

	c := newTestClient(Config{MaxRedirects: 4})
	_, err := c.Get(context.Background(), srv.URL+"/loop")
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	// initial request + 4 followed hops, never more
	if hits.Load() != 5 {
		t.Errorf("hits = %d, want 5", hits.Load())
	}
}

func TestDo_TimeoutIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(Config{})
	_, err := c.Do(context.Background(), Request{URL: srv.URL, Timeout: 30 * time.Millisecond})
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestDo_ConnectionRefusedIsNetworkError(t *testing.T) {
	c := newTestClient(Config{})
	_, err := c.Get(context.Background(), "http://127.0.0.1:1")
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestDo_PerRequestUserAgentOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	c := newTestClient(Config{UserAgent: "default-agent"})
	res, err := c.Do(context.Background(), Request{URL: srv.URL, UserAgent: "Mozilla/5.0"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(res.Body) != "Mozilla/5.0" {
		t.Errorf("user agent seen by server = %q", res.Body)
	}
}
