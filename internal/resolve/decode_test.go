package resolve

import (
	"encoding/base64"
	"testing"
)

func TestDecodeBody(t *testing.T) {
	plain := "upload=500\ndownload=700"

	if got := DecodeBody(base64.StdEncoding.EncodeToString([]byte(plain))); got != plain {
		t.Errorf("std decode: got %q", got)
	}
	if got := DecodeBody(base64.RawStdEncoding.EncodeToString([]byte(plain))); got != plain {
		t.Errorf("raw decode: got %q", got)
	}
}

func TestDecodeBody_PassthroughOnFailure(t *testing.T) {
	// not base64 at all: returned unchanged
	in := "upload=500\ntotal=5000"
	if got := DecodeBody(in); got != in {
		t.Errorf("got %q, want input unchanged", got)
	}
}

func TestDecodeBody_RejectsNonUTF8(t *testing.T) {
	// valid base64 but decodes to invalid UTF-8: keep original
	in := base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, 0xfd, 0xfc})
	if got := DecodeBody(in); got != in {
		t.Errorf("got %q, want input unchanged", got)
	}
}

func TestDecodeBody_TrimsSurroundingWhitespace(t *testing.T) {
	plain := "total=42"
	in := "\n  " + base64.StdEncoding.EncodeToString([]byte(plain)) + "  \n"
	if got := DecodeBody(in); got != plain {
		t.Errorf("got %q, want %q", got, plain)
	}
}
