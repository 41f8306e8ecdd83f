// Package inspect resolves ad-hoc subscription links pasted into chat and
// renders a one-off usage report.
package inspect

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/subwatch/subwatch/internal/domain/status"
	"github.com/subwatch/subwatch/internal/format"
	"github.com/subwatch/subwatch/internal/metrics"
)

// urlPattern matches http(s) URLs embedded in free-form message text.
var urlPattern = regexp.MustCompile(`https?://[-A-Za-z0-9+&@#/%?=~_|!:,.;]+[-A-Za-z0-9+&@#/%=~_|]`)

// ExtractURL returns the first http(s) URL found in text.
func ExtractURL(text string) (string, bool) {
	m := urlPattern.FindString(text)
	return m, m != ""
}

// Report is the rendered outcome of one link inspection.
type Report struct {
	// Text is the message body.
	Text string
	// MarkdownV2 reports whether Text is MarkdownV2, plain text otherwise.
	MarkdownV2 bool
}

// Service handles ad-hoc link inspection.
type Service struct {
	inspector Inspector
	namer     Namer
	logger    *zap.Logger
}

// New creates a Service.
func New(inspector Inspector, namer Namer, logger *zap.Logger) *Service {
	return &Service{inspector: inspector, namer: namer, logger: logger}
}

// Run inspects the first URL found in text. The second return value reports
// whether a URL was found at all.
func (s *Service) Run(ctx context.Context, text string) (Report, bool) {
	url, ok := ExtractURL(text)
	if !ok {
		return Report{}, false
	}

	st := s.inspector.Inspect(ctx, url)
	outcome := metrics.OutcomeOk
	if st.IsErr() {
		outcome = metrics.OutcomeErr
	}
	metrics.InspectTotal.WithLabelValues(outcome).Inc()

	if st.IsErr() {
		s.logger.Info("link inspection failed",
			zap.String("url", url), zap.String("reason", st.Reason()))
		return Report{Text: st.Reason() + "\n请检查链接是否正确或稍后重试"}, true
	}

	name := s.namer.Resolve(ctx, url)
	return Report{Text: renderMarkdownV2(url, name, st.Usage()), MarkdownV2: true}, true
}

func renderMarkdownV2(url, name string, u status.Usage) string {
	var b strings.Builder
	b.WriteString("订阅链接：")
	b.WriteString(format.EscapeMarkdownV2(url))
	b.WriteString("\n机场名：")
	b.WriteString(format.EscapeMarkdownV2(name))
	b.WriteString("\n已用上行：")
	b.WriteString(format.EscapeMarkdownV2(u.Upload()))
	b.WriteString("\n已用下行：")
	b.WriteString(format.EscapeMarkdownV2(u.Download()))
	b.WriteString("\n剩余：")
	b.WriteString(format.EscapeMarkdownV2(u.Remaining()))
	b.WriteString("\n总共：")
	b.WriteString(format.EscapeMarkdownV2(u.Total()))
	b.WriteString("\n")
	b.WriteString(expiryLine(u))
	return b.String()
}

func expiryLine(u status.Usage) string {
	if u.ExpireDate() == format.UnknownDate {
		return "到期时间：" + format.UnknownDate
	}
	date := format.EscapeMarkdownV2(u.ExpireDate())
	if u.Expired() {
		return "此订阅已于 " + date + " 过期！"
	}
	return "此订阅将于 " + date + " 过期，剩余 " + format.EscapeMarkdownV2(u.RemainingTime())
}
