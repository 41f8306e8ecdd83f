package inspect

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/subwatch/subwatch/internal/domain/status"
)

type mockInspector struct {
	inspectFn func(ctx context.Context, rawURL string) status.Status
}

func (m *mockInspector) Inspect(ctx context.Context, rawURL string) status.Status {
	return m.inspectFn(ctx, rawURL)
}

type mockNamer struct {
	resolveFn func(ctx context.Context, rawURL string) string
}

func (m *mockNamer) Resolve(ctx context.Context, rawURL string) string {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, rawURL)
	}
	return "未知"
}

func TestExtractURL(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{
			name: "bare url",
			text: "https://example.com/sub?token=abc",
			want: "https://example.com/sub?token=abc",
			ok:   true,
		},
		{
			name: "url inside prose",
			text: "看看这个 https://example.com/sub?token=abc 好不好用",
			want: "https://example.com/sub?token=abc",
			ok:   true,
		},
		{
			name: "first of several",
			text: "http://a.example.com/x and https://b.example.com/y",
			want: "http://a.example.com/x",
			ok:   true,
		},
		{
			name: "no url",
			text: "没有链接",
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractURL(tt.text)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ExtractURL(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestService_Run(t *testing.T) {
	inspector := &mockInspector{
		inspectFn: func(_ context.Context, rawURL string) status.Status {
			return status.Ok(rawURL, status.NewUsage(
				"1.000 GB", "2.000 GB", "3.000 GB", "7.000 GB", "10.000 GB",
				"2026-01-01", "45天13小时", false,
			))
		},
	}
	namer := &mockNamer{
		resolveFn: func(_ context.Context, _ string) string { return "MyPanel" },
	}
	svc := New(inspector, namer, zap.NewNop())

	report, ok := svc.Run(context.Background(), "check https://example.com/sub?token=abc please")
	if !ok {
		t.Fatal("expected a report")
	}
	if !report.MarkdownV2 {
		t.Error("report should be MarkdownV2")
	}
	if !strings.Contains(report.Text, "订阅链接：https://example\\.com/sub?token\\=abc") {
		t.Errorf("missing url line:\n%s", report.Text)
	}
	if !strings.Contains(report.Text, "机场名：MyPanel") {
		t.Errorf("missing name line:\n%s", report.Text)
	}
	if !strings.Contains(report.Text, "剩余：7\\.000 GB") {
		t.Errorf("missing remaining line:\n%s", report.Text)
	}
	if !strings.Contains(report.Text, "此订阅将于 2026\\-01\\-01 过期，剩余 45天13小时") {
		t.Errorf("missing expiry line:\n%s", report.Text)
	}
}

func TestService_Run_NoURL(t *testing.T) {
	svc := New(&mockInspector{}, &mockNamer{}, zap.NewNop())

	_, ok := svc.Run(context.Background(), "这里没有任何链接")
	if ok {
		t.Fatal("expected no report")
	}
}

func TestService_Run_InspectionFailure(t *testing.T) {
	inspector := &mockInspector{
		inspectFn: func(_ context.Context, rawURL string) status.Status {
			return status.Err(rawURL, "连接错误")
		},
	}
	svc := New(inspector, &mockNamer{}, zap.NewNop())

	report, ok := svc.Run(context.Background(), "https://down.example.com/sub")
	if !ok {
		t.Fatal("expected a report")
	}
	if report.MarkdownV2 {
		t.Error("failure report should be plain text")
	}
	if !strings.HasPrefix(report.Text, "连接错误\n") {
		t.Errorf("report = %q", report.Text)
	}
}
