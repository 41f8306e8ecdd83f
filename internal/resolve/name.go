package resolve

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/subwatch/subwatch/internal/fetch"
)

// UnknownProvider is returned whenever name resolution fails for any
// reason; resolution never surfaces an error to the caller.
const UnknownProvider = "未知"

const browserUserAgent = "Mozilla/5.0 (Windows NT 6.1; Win64; x64) AppleWebKit/537.36 (HTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"

const (
	// loginTitlePrefix is stripped from panel login page titles.
	loginTitlePrefix = "登录 — "

	maxNameRecursion = 2
)

var (
	innerURLPattern = regexp.MustCompile(`url=([^&]*)`)
	filenamePattern = regexp.MustCompile(`filename\*=UTF-8''(.+)`)
)

// titleSubstitutions map well-known interstitial page titles to a
// human-readable explanation of why the panel name cannot be read.
var titleSubstitutions = []struct {
	marker string
	name   string
}{
	{"Attention Required! | Cloudflare", "该域名仅限国内IP访问"},
	{"Access denied", "该域名非机场面板域名"},
	{"404 Not Found", "该域名非机场面板域名"},
	{"Just a moment", "该域名开启了5s盾"},
}

// NameResolver infers a human-readable provider name from a subscription
// URL using URL-shape rules and, failing those, an HTML title scrape.
type NameResolver struct {
	client *fetch.Client
	logger *zap.Logger
}

// NewNameResolver creates a NameResolver over the shared fetch client.
func NewNameResolver(client *fetch.Client, logger *zap.Logger) *NameResolver {
	return &NameResolver{client: client, logger: logger}
}

// Resolve returns the provider name for a subscription URL, or
// UnknownProvider when every rule fails.
func (n *NameResolver) Resolve(ctx context.Context, rawURL string) string {
	return n.resolve(ctx, rawURL, 0)
}

func (n *NameResolver) resolve(ctx context.Context, rawURL string, depth int) string {
	switch {
	case strings.Contains(rawURL, "sub?target="):
		return n.fromConverterURL(ctx, rawURL, depth)
	case strings.Contains(rawURL, "api/v1/client/subscribe?token"):
		return n.fromContentDisposition(ctx, rawURL)
	default:
		return n.fromLoginTitle(ctx, rawURL)
	}
}

// fromConverterURL unwraps a sub-converter URL's url= parameter and
// resolves the inner subscription URL. Recursion is depth-bounded and a
// self-referential inner URL degrades to UnknownProvider.
func (n *NameResolver) fromConverterURL(ctx context.Context, rawURL string, depth int) string {
	if depth >= maxNameRecursion {
		return UnknownProvider
	}
	m := innerURLPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return UnknownProvider
	}
	inner, err := url.PathUnescape(m[1])
	if err != nil || inner == "" || inner == rawURL {
		return UnknownProvider
	}
	return n.resolve(ctx, inner, depth+1)
}

// fromContentDisposition reads the provider name from the
// Content-Disposition filename of a panel subscribe endpoint.
func (n *NameResolver) fromContentDisposition(ctx context.Context, rawURL string) string {
	if !strings.Contains(rawURL, "&flag=clash") {
		rawURL += "&flag=clash"
	}
	res, err := n.client.Do(ctx, fetch.Request{URL: rawURL, Timeout: 10 * time.Second})
	if err != nil {
		n.logger.Debug("name probe failed", zap.String("url", rawURL), zap.Error(err))
		return UnknownProvider
	}
	m := filenamePattern.FindStringSubmatch(res.Header.Get("Content-Disposition"))
	if m == nil {
		return UnknownProvider
	}
	// PathUnescape keeps literal '+' intact; the %20/%2B replacements below
	// handle double-encoded filenames some panels emit.
	name, err := url.PathUnescape(m[1])
	if err != nil {
		return UnknownProvider
	}
	name = strings.ReplaceAll(name, "%20", " ")
	name = strings.ReplaceAll(name, "%2B", "+")
	return name
}

// fromLoginTitle scrapes the panel login page title: first the origin's
// /auth/login with a generous timeout, then the bare origin with a short
// one (fail fast, then fall back).
func (n *NameResolver) fromLoginTitle(ctx context.Context, rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return UnknownProvider
	}
	origin := parsed.Scheme + "://" + parsed.Host

	res, err := n.client.Do(ctx, fetch.Request{
		URL:       origin + "/auth/login",
		UserAgent: browserUserAgent,
		Timeout:   10 * time.Second,
	})
	if err != nil || res.StatusCode != http.StatusOK {
		res, err = n.client.Do(ctx, fetch.Request{
			URL:       origin,
			UserAgent: browserUserAgent,
			Timeout:   time.Second,
		})
		if err != nil {
			n.logger.Debug("title probe failed", zap.String("origin", origin), zap.Error(err))
			return UnknownProvider
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return UnknownProvider
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return UnknownProvider
	}
	title = strings.Replace(title, loginTitlePrefix, "", 1)
	for _, sub := range titleSubstitutions {
		if strings.Contains(title, sub.marker) {
			return sub.name
		}
	}
	return title
}
