// Package resolve extracts traffic quota and provider identity from
// subscription endpoints whose response shape is not standardized. The
// strategies (userinfo header, base64 body, key-value lines, proxy-URI
// probing) live here together with the orchestrating Resolver.
package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/subwatch/subwatch/internal/domain"
	"github.com/subwatch/subwatch/internal/domain/traffic"
)

// ParseUserinfo parses a subscription-userinfo header value of the form
// "upload=100;download=200;total=1000;expire=1700000000". Keys are
// lower-cased and whitespace-trimmed; unknown keys are kept in the map.
// Returns domain.ErrMalformedHeader when a segment lacks '=' or carries a
// non-numeric value.
func ParseUserinfo(value string) (map[string]int64, error) {
	fields := make(map[string]int64)
	for _, seg := range strings.Split(value, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		key, val, found := strings.Cut(seg, "=")
		if !found {
			return nil, fmt.Errorf("%w: segment %q has no value", domain.ErrMalformedHeader, seg)
		}
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %q is not numeric", domain.ErrMalformedHeader, seg)
		}
		fields[strings.ToLower(strings.TrimSpace(key))] = n
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty header", domain.ErrMalformedHeader)
	}
	return fields, nil
}

// trafficFromMap builds a Fields value from a parsed userinfo map, treating
// absent keys as zero.
func trafficFromMap(m map[string]int64) traffic.Fields {
	return traffic.New(
		clampUint(m["upload"]),
		clampUint(m["download"]),
		clampUint(m["total"]),
		m["expire"],
	)
}

func clampUint(n int64) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}
