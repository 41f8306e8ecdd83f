package format

import "strings"

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeHTML escapes the three entities the HTML message dialect treats as
// structural, leaving rich inline tags to the caller.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

var markdownV2Replacer = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"[", `\[`,
	"]", `\]`,
	"(", `\(`,
	")", `\)`,
	"~", `\~`,
	"`", "\\`",
	">", `\>`,
	"#", `\#`,
	"+", `\+`,
	"-", `\-`,
	"=", `\=`,
	"|", `\|`,
	"{", `\{`,
	"}", `\}`,
	".", `\.`,
	"!", `\!`,
)

// EscapeMarkdownV2 backslash-escapes the 18 punctuation characters that are
// structural in the MarkdownV2 dialect. Every dynamically sourced string
// (names, URLs, dates, notes) must pass through here before being embedded
// into an outgoing MarkdownV2 message.
func EscapeMarkdownV2(s string) string {
	return markdownV2Replacer.Replace(s)
}
