package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/subwatch/subwatch/internal/domain"
	"github.com/subwatch/subwatch/internal/domain/traffic"
)

// ScanPolicy decides which line wins when several lines set the same field.
type ScanPolicy int

// Scan policies. LastWins matches straightforward sequential overwrite
// semantics and is the default.
const (
	LastWins ScanPolicy = iota
	FirstWins
)

// scanKeys in branch priority order: for each line the '=' spellings are
// tried before the ':' spellings, first matching branch wins, one field per
// line.
var scanKeys = []string{"upload", "download", "total", "expire"}

// informationalLabels are recognized so their lines are not mistaken for
// noise, but they are display-only hints and never populate traffic fields.
var informationalLabels = []string{"剩余流量", "已用流量"}

// ScanLines extracts traffic fields from line-oriented key-value text.
// Lines are lower-cased; non-matching lines are ignored. A line whose
// matched value is not a trailing integer fails the whole scan with
// domain.ErrParse, mirroring the strictness of the header form.
func ScanLines(text string, policy ScanPolicy) (traffic.Fields, error) {
	values := make(map[string]int64, len(scanKeys))

	for _, line := range strings.Split(text, "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		key, raw, ok := matchLine(line)
		if !ok {
			continue
		}
		if _, seen := values[key]; seen && policy == FirstWins {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return traffic.Fields{}, fmt.Errorf("%w: line %q has non-numeric %s", domain.ErrParse, line, key)
		}
		values[key] = n
	}

	return trafficFromMap(values), nil
}

// matchLine returns the first matching field key and the text after its
// separator, checking '=' spellings before ':' spellings.
func matchLine(line string) (key, value string, ok bool) {
	for _, sep := range []string{"=", ":"} {
		for _, k := range scanKeys {
			marker := k + sep
			if !strings.Contains(line, marker) {
				continue
			}
			parts := strings.SplitN(line, sep, 3)
			if len(parts) < 2 {
				continue
			}
			return k, parts[1], true
		}
	}
	for _, label := range informationalLabels {
		if strings.Contains(line, label) {
			// display-only hint, intentionally not stored
			return "", "", false
		}
	}
	return "", "", false
}
