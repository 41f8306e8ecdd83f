package resolve

import (
	"errors"
	"testing"

	"github.com/subwatch/subwatch/internal/domain"
)

func TestParseUserinfo(t *testing.T) {
	m, err := ParseUserinfo("upload=100;download=200;total=1000;expire=1700000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]int64{"upload": 100, "download": 200, "total": 1000, "expire": 1700000000}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("%s = %d, want %d", k, m[k], v)
		}
	}

	f := trafficFromMap(m)
	if f.Used() != 300 {
		t.Errorf("used = %d, want 300", f.Used())
	}
	if f.Remaining() != 700 {
		t.Errorf("remaining = %d, want 700", f.Remaining())
	}
}

func TestParseUserinfo_TrimsAndKeepsUnknownKeys(t *testing.T) {
	m, err := ParseUserinfo(" upload = 1 ; download=2; custom=7 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["upload"] != 1 || m["download"] != 2 {
		t.Errorf("known keys wrong: %v", m)
	}
	if m["custom"] != 7 {
		t.Errorf("unknown key not kept: %v", m)
	}
}

func TestParseUserinfo_Malformed(t *testing.T) {
	cases := []string{
		"",
		"upload",
		"upload=abc",
		"upload=1;download",
	}
	for _, in := range cases {
		if _, err := ParseUserinfo(in); !errors.Is(err, domain.ErrMalformedHeader) {
			t.Errorf("ParseUserinfo(%q): expected ErrMalformedHeader, got %v", in, err)
		}
	}
}
