package format

import "testing"

func TestEscapeHTML(t *testing.T) {
	if got := EscapeHTML(`<b>a & b</b>`); got != "&lt;b&gt;a &amp; b&lt;/b&gt;" {
		t.Errorf("got %q", got)
	}
	if got := EscapeHTML("plain"); got != "plain" {
		t.Errorf("got %q", got)
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	in := "a_b*c[d]e(f)g~h`i>j#k+l-m=n|o{p}q.r!s"
	want := `a\_b\*c\[d\]e\(f\)g\~h` + "\\`" + `i\>j\#k\+l\-m\=n\|o\{p\}q\.r\!s`
	if got := EscapeMarkdownV2(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEscapeMarkdownV2_URL(t *testing.T) {
	if got := EscapeMarkdownV2("https://example.com/sub?a=1"); got != `https://example\.com/sub?a\=1` {
		t.Errorf("got %q", got)
	}
}
