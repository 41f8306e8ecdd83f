package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/subwatch/subwatch/internal/domain"
	"github.com/subwatch/subwatch/internal/fetch"
)

func TestProxyURIHost(t *testing.T) {
	cases := []struct {
		in   string
		host string
		ok   bool
	}{
		{"ss://aes-256-gcm:pass@example.com:8443#MyNode", "example.com:8443", true},
		{"ss://aes-256-gcm:pass@example.com:8443", "example.com:8443", true},
		{"ss://bm9hdGhvc3Q", "", false},
		{"vmess://abc@host:1#x", "", false},
		{"ss://a@b@c", "", false},
	}
	for _, c := range cases {
		host, ok := ProxyURIHost(c.in)
		if host != c.host || ok != c.ok {
			t.Errorf("ProxyURIHost(%q) = (%q, %v), want (%q, %v)", c.in, host, ok, c.host, c.ok)
		}
	}
}

func TestProbe_StopsAtFirstNonZeroResult(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/user/info":
			w.WriteHeader(http.StatusNotFound)
		case "/api/user/info":
			fmt.Fprint(w, `{"u":0,"d":0,"transfer_enable":0,"expire":0}`)
		case "/api/v1/user/info":
			fmt.Fprint(w, `{"u":100,"d":200,"transfer_enable":1000,"expire":1700000000}`)
		default:
			t.Errorf("unexpected probe path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	p := NewProbe(fetch.New(fetch.Config{}, zap.NewNop()), zap.NewNop())

	f, err := p.Run(context.Background(), host)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Upload() != 100 || f.Download() != 200 || f.Total() != 1000 || f.Expire() != 1700000000 {
		t.Errorf("fields = %+v", f)
	}
	want := []string{"/user/info", "/api/user/info", "/api/v1/user/info"}
	if len(paths) != len(want) {
		t.Fatalf("probed %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("probe order %v, want %v", paths, want)
		}
	}
}

func TestProbe_LongKeysAreFallbackForShortKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// short u present and wins; d absent so long download applies
		fmt.Fprint(w, `{"u":5,"upload":99,"download":7,"total":50}`)
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	p := NewProbe(fetch.New(fetch.Config{}, zap.NewNop()), zap.NewNop())

	f, err := p.Run(context.Background(), host)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Upload() != 5 {
		t.Errorf("upload = %d, want short key value 5", f.Upload())
	}
	if f.Download() != 7 {
		t.Errorf("download = %d, want long key value 7", f.Download())
	}
	if f.Total() != 50 {
		t.Errorf("total = %d, want 50", f.Total())
	}
}

func TestProbe_ExhaustedWhenAllPathsYieldNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	host := strings.TrimPrefix(srv.URL, "http://")
	p := NewProbe(fetch.New(fetch.Config{}, zap.NewNop()), zap.NewNop())

	_, err := p.Run(context.Background(), host)
	if !errors.Is(err, domain.ErrProbeExhausted) {
		t.Fatalf("expected ErrProbeExhausted, got %v", err)
	}
}

func TestFieldsFromQuery(t *testing.T) {
	f := FieldsFromQuery("https://example.com/sub?upload=10&download=20&total=100&expire=1700000000&other=x")
	if f.Upload() != 10 || f.Download() != 20 || f.Total() != 100 || f.Expire() != 1700000000 {
		t.Errorf("fields = %+v", f)
	}

	if f := FieldsFromQuery("https://example.com/sub"); !f.IsZero() {
		t.Errorf("expected zero fields, got %+v", f)
	}
}
