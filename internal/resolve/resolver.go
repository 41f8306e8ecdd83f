package resolve

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/subwatch/subwatch/internal/domain/status"
	"github.com/subwatch/subwatch/internal/domain/subscription"
	"github.com/subwatch/subwatch/internal/domain/traffic"
	"github.com/subwatch/subwatch/internal/fetch"
	"github.com/subwatch/subwatch/internal/format"
)

// input carries one fetched response through the strategy chain.
type input struct {
	url      string
	userinfo string
	body     string
}

// strategy attempts to extract traffic fields from a fetched response.
// The second return value reports whether the strategy produced a result;
// a false without error means "not applicable, try the next one".
type strategy interface {
	name() string
	attempt(ctx context.Context, in *input) (traffic.Fields, bool, error)
}

// headerStrategy reads the subscription-userinfo response header. In the
// full chain a malformed or missing header falls through to content
// parsing instead of failing the resolution.
type headerStrategy struct{}

func (headerStrategy) name() string { return "userinfo-header" }

func (headerStrategy) attempt(_ context.Context, in *input) (traffic.Fields, bool, error) {
	if in.userinfo == "" {
		return traffic.Fields{}, false, nil
	}
	m, err := ParseUserinfo(in.userinfo)
	if err != nil {
		return traffic.Fields{}, false, nil
	}
	return trafficFromMap(m), true, nil
}

// contentStrategy decodes the body, probes an embedded ss:// host when one
// is present, and scans the text lines, overlaying scanner values only onto
// fields the probe left at zero.
type contentStrategy struct {
	probe  *Probe
	policy ScanPolicy
	logger *zap.Logger
}

func (*contentStrategy) name() string { return "body-content" }

func (s *contentStrategy) attempt(ctx context.Context, in *input) (traffic.Fields, bool, error) {
	text := DecodeBody(in.body)
	lines := strings.Split(text, "\n")

	var fields traffic.Fields
	if line, ok := firstProxyURILine(lines); ok {
		if host, ok := ProxyURIHost(line); ok {
			probed, err := s.probe.Run(ctx, host)
			if err != nil {
				// probe exhaustion is recovered via the URL's own query string
				s.logger.Debug("probe yielded nothing, using url query fallback",
					zap.String("host", host), zap.Error(err))
				probed = FieldsFromQuery(in.url)
			}
			fields = probed
		}
	}

	scanned, err := ScanLines(text, s.policy)
	if err != nil {
		return traffic.Fields{}, false, err
	}
	return fields.Overlay(scanned), true, nil
}

// Config holds resolver policy settings.
type Config struct {
	// ScanPolicy decides per-field precedence between key-value lines.
	ScanPolicy ScanPolicy
	// TimeOffset is the fixed civil-time offset applied when rendering
	// expiry dates. Applied uniformly on both resolution paths.
	TimeOffset time.Duration
}

// Resolver orchestrates the extraction strategies. It holds no mutable
// state between calls beyond the pooled fetch client and is safe for
// concurrent use.
type Resolver struct {
	client     *fetch.Client
	strategies []strategy
	offset     time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a Resolver over the shared fetch client.
func New(client *fetch.Client, cfg Config, logger *zap.Logger) *Resolver {
	return &Resolver{
		client: client,
		strategies: []strategy{
			headerStrategy{},
			&contentStrategy{
				probe:  NewProbe(client, logger),
				policy: cfg.ScanPolicy,
				logger: logger,
			},
		},
		offset: cfg.TimeOffset,
		logger: logger,
		now:    time.Now,
	}
}

// Failure reasons embedded into status reports.
const (
	reasonConnect     = "连接错误"
	reasonUnreachable = "无法访问"
	reasonNoUserinfo  = "无法获取订阅信息"
	reasonParsePrefix = "解析失败: "
)

// Check resolves a subscription from the live response headers only, the
// shape used by scheduled batch checks. Any header failure is terminal;
// batch mode never falls through to content parsing. Total: always returns
// a status, never an error.
func (r *Resolver) Check(ctx context.Context, ref subscription.Ref) status.Status {
	st := r.checkHeader(ctx, ref)
	if ref.Note() != "" {
		st = st.WithNote(ref.Note())
	}
	return st
}

func (r *Resolver) checkHeader(ctx context.Context, ref subscription.Ref) status.Status {
	res, err := r.client.Get(ctx, ref.URL())
	if err != nil {
		r.logger.Warn("subscription fetch failed",
			zap.String("name", ref.Name()), zap.Error(err))
		return status.Err(ref.Name(), reasonConnect)
	}
	if res.StatusCode != http.StatusOK {
		return status.Err(ref.Name(), reasonUnreachable)
	}
	m, err := ParseUserinfo(res.Userinfo())
	if err != nil {
		return status.Err(ref.Name(), reasonNoUserinfo)
	}
	return status.Ok(ref.Name(), r.usage(trafficFromMap(m), format.SizeGB))
}

// Inspect resolves a bare URL through the full strategy chain, the shape
// used by one-off link checks. Total: parse failures come back as an Err
// status, never as a fault.
func (r *Resolver) Inspect(ctx context.Context, rawURL string) status.Status {
	res, err := r.client.Get(ctx, rawURL)
	if err != nil {
		r.logger.Warn("inspect fetch failed", zap.String("url", rawURL), zap.Error(err))
		return status.Err(rawURL, reasonConnect)
	}
	if res.StatusCode != http.StatusOK {
		return status.Err(rawURL, reasonUnreachable)
	}

	in := &input{url: rawURL, userinfo: res.Userinfo(), body: string(res.Body)}
	for _, strat := range r.strategies {
		fields, ok, err := strat.attempt(ctx, in)
		if err != nil {
			r.logger.Debug("strategy failed",
				zap.String("strategy", strat.name()), zap.Error(err))
			return status.Err(rawURL, reasonParsePrefix+err.Error())
		}
		if !ok {
			continue
		}
		return status.Ok(rawURL, r.usage(fields, format.Size))
	}
	return status.Err(rawURL, reasonNoUserinfo)
}

// usage formats a field set with the size formatter of the calling path:
// the compact two-decimal GB form for batch checks, the multi-unit form
// for one-off inspection.
func (r *Resolver) usage(f traffic.Fields, size func(int64) string) status.Usage {
	expire := f.Expire()
	expireDate := format.ExpireDate(expire, r.offset)

	var remainingTime string
	var expired bool
	if expire > 0 {
		now := r.now().Unix()
		if now <= expire {
			remainingTime = format.Duration(expire - now)
		} else {
			expired = true
		}
	}

	return status.NewUsage(
		size(int64(f.Upload())),
		size(int64(f.Download())),
		size(int64(f.Used())),
		size(f.Remaining()),
		size(int64(f.Total())),
		expireDate,
		remainingTime,
		expired,
	)
}
