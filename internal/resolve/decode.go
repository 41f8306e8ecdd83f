package resolve

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// bodyEncodings lists the base64 variants providers wrap bodies in.
var bodyEncodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// DecodeBody attempts a best-effort base64 decode of a response body,
// returning the input unchanged when no variant yields valid UTF-8 text.
// Decoding is advisory: this never fails past the resolver boundary.
func DecodeBody(body string) string {
	trimmed := strings.TrimSpace(body)
	for _, enc := range bodyEncodings {
		decoded, err := enc.DecodeString(trimmed)
		if err != nil || !utf8.Valid(decoded) {
			continue
		}
		return string(decoded)
	}
	return body
}
