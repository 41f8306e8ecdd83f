package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/subwatch/subwatch/internal/domain"
	"github.com/subwatch/subwatch/internal/domain/traffic"
	"github.com/subwatch/subwatch/internal/fetch"
)

// probePaths is the fixed, ordered list of candidate REST endpoints a
// provider panel may expose traffic JSON on.
var probePaths = []string{
	"/user/info",
	"/api/user/info",
	"/api/v1/user/info",
	"/api/v1/user/traffic",
	"/api/user/traffic",
}

// probeTimeout bounds each individual path attempt.
const probeTimeout = 5 * time.Second

// ProxyURIHost extracts host[:port] from an ss://-style proxy URI line:
// the segment after '@', with any '#'-fragment stripped. Other proxy URI
// schemes are not recognized.
func ProxyURIHost(line string) (string, bool) {
	if !strings.HasPrefix(line, "ss://") {
		return "", false
	}
	parts := strings.Split(line, "@")
	if len(parts) != 2 {
		return "", false
	}
	host, _, _ := strings.Cut(parts[1], "#")
	if host == "" {
		return "", false
	}
	return host, true
}

// firstProxyURILine returns the first ss:// line, if any.
func firstProxyURILine(lines []string) (string, bool) {
	for _, line := range lines {
		if strings.HasPrefix(line, "ss://") {
			return line, true
		}
	}
	return "", false
}

// Probe queries a proxy host's candidate REST endpoints for traffic JSON.
type Probe struct {
	client *fetch.Client
	logger *zap.Logger
}

// NewProbe creates a Probe over the shared fetch client.
func NewProbe(client *fetch.Client, logger *zap.Logger) *Probe {
	return &Probe{client: client, logger: logger}
}

// Run tries each probe path in order against http://host and stops at the
// first HTTP 200 JSON object that yields a non-all-zero field set. When
// every path is exhausted it returns domain.ErrProbeExhausted, which the
// caller recovers from by falling back to FieldsFromQuery.
func (p *Probe) Run(ctx context.Context, host string) (traffic.Fields, error) {
	for _, path := range probePaths {
		target := "http://" + host + path
		res, err := p.client.Do(ctx, fetch.Request{URL: target, Timeout: probeTimeout})
		if err != nil {
			p.logger.Debug("probe path failed", zap.String("url", target), zap.Error(err))
			continue
		}
		if res.StatusCode != http.StatusOK {
			continue
		}
		fields, ok := fieldsFromJSON(res.Body)
		if !ok {
			continue
		}
		if fields.IsZero() {
			continue
		}
		p.logger.Debug("probe path yielded traffic info", zap.String("url", target))
		return fields, nil
	}
	return traffic.Fields{}, fmt.Errorf("%w: host %s", domain.ErrProbeExhausted, host)
}

// fieldsFromJSON reads traffic fields from a panel JSON object, preferring
// the short key spellings (u, d, transfer_enable) and falling back to the
// long ones (upload, download, total).
func fieldsFromJSON(body []byte) (traffic.Fields, bool) {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return traffic.Fields{}, false
	}
	return traffic.New(
		clampUint(jsonInt(obj, "u", "upload")),
		clampUint(jsonInt(obj, "d", "download")),
		clampUint(jsonInt(obj, "transfer_enable", "total")),
		jsonInt(obj, "expire", "expire"),
	), true
}

// jsonInt coerces obj[short], falling back to obj[long], into an integer.
func jsonInt(obj map[string]any, short, long string) int64 {
	if n, ok := coerceInt(obj[short]); ok {
		return n
	}
	n, _ := coerceInt(obj[long])
	return n
}

func coerceInt(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// FieldsFromQuery fills traffic fields from the subscription URL's own
// query parameters (upload, download, total, expire), the last resort after
// an exhausted probe.
func FieldsFromQuery(rawURL string) traffic.Fields {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return traffic.Fields{}
	}
	q := parsed.Query()
	values := make(map[string]int64, len(scanKeys))
	for _, key := range scanKeys {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		values[key] = n
	}
	return trafficFromMap(values)
}
