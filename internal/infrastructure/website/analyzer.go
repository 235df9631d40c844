package website

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/samber/lo"
	"github.com/weppos/publicsuffix-go/publicsuffix"

	"website_revolution/internal/domain/entity"
	"website_revolution/pkg/contextx"
	"website_revolution/pkg/httpx"
	"website_revolution/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	defaultTimeout  = 10 * time.Second
	defaultMaxBytes = 2 << 20
	userAgent       = "Mozilla/5.0 (compatible; WebsiteRevolutionBot/1.0)"
	maxEmails       = 5
)

//nolint:gochecknoglobals
var (
	reEmail     = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	reAsset     = regexp.MustCompile(`\.(png|jpe?g|gif|svg|webp)$`)
	reCopyright = regexp.MustCompile(`(?i)(?:©|\(c\)|copyright)\s*(?:\d{4}\s*[-–]\s*)?((?:19|20)\d{2})`)

	socialHosts = []string{
		"facebook.com", "instagram.com", "twitter.com", "x.com",
		"linkedin.com", "tiktok.com", "youtube.com", "pinterest.com", "yelp.com",
	}
)

type Config struct {
	Timeout   time.Duration
	ReqPerSec float64
	Burst     int
	MaxBytes  int64
}

// Analyzer fetches a business website and records what it finds. It never
// returns an error: a site that cannot be fetched is reported as unreachable.
type Analyzer struct {
	client   *http.Client
	limiter  *HostLimiter
	maxBytes int64
}

func NewAnalyzer(cfg Config, opts ...httpx.Option) *Analyzer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.ReqPerSec <= 0 {
		cfg.ReqPerSec = 1
	}

	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxBytes
	}

	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // stdlib default

	return &Analyzer{
		client: &http.Client{
			Transport: httpx.NewLoggingRoundTripper(transport, opts...),
			Timeout:   cfg.Timeout,
		},
		limiter:  NewHostLimiter(cfg.ReqPerSec, cfg.Burst),
		maxBytes: cfg.MaxBytes,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, website string) entity.WebsiteReport {
	website = strings.TrimSpace(website)
	if website == "" {
		return entity.WebsiteReport{}
	}

	u, err := normalize(website)
	if err != nil {
		logger(ctx).Warn("invalid website url", slog.String(logx.FieldWebsite, website), logx.Error(err))
		return entity.WebsiteReport{URL: website, HasWebsite: true}
	}

	report := entity.WebsiteReport{
		URL:        u.String(),
		Domain:     registrableDomain(u.Hostname()),
		HasWebsite: true,
		HTTPS:      u.Scheme == "https",
	}

	if err := a.limiter.WaitURL(ctx, report.URL); err != nil {
		return report
	}

	body, final, err := a.fetch(ctx, &report)
	if err != nil {
		logger(ctx).Info("website unreachable", slog.String(logx.FieldWebsite, report.URL), logx.Error(err))
		return report
	}

	if final != nil {
		report.HTTPS = final.Scheme == "https"
	}

	if !report.Reachable {
		return report
	}

	inspect(&report, body, lo.Ternary(final != nil, final, u))

	return report
}

func (a *Analyzer) fetch(ctx context.Context, report *entity.WebsiteReport) ([]byte, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, report.URL, http.NoBody)
	if err != nil {
		return nil, nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, a.maxBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	report.LoadTime = time.Since(start)
	report.StatusCode = resp.StatusCode
	report.Reachable = resp.StatusCode < http.StatusBadRequest

	return body, resp.Request.URL, nil
}

func inspect(report *entity.WebsiteReport, body []byte, pageURL *url.URL) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return
	}

	report.HasViewport = doc.Find(`meta[name="viewport"]`).Length() > 0
	report.HasTitle = strings.TrimSpace(doc.Find("title").First().Text()) != ""
	report.HasMetaDescription = strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", "")) != ""
	report.HasH1 = strings.TrimSpace(doc.Find("h1").First().Text()) != ""

	images := doc.Find("img")
	report.Images = images.Length()
	images.Each(func(_ int, img *goquery.Selection) {
		if strings.TrimSpace(img.AttrOr("alt", "")) == "" {
			report.ImagesMissingAlt++
		}
	})

	emails := make([]string, 0, maxEmails)
	report.HasContactPath = doc.Find("form").Length() > 0

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		lower := strings.ToLower(href)

		switch {
		case strings.HasPrefix(lower, "mailto:"):
			report.HasContactPath = true
			addr := strings.SplitN(href[len("mailto:"):], "?", 2)[0]
			emails = append(emails, addr)
		case strings.Contains(lower, "contact"):
			report.HasContactPath = true
		}

		if isSocial(href) {
			report.HasSocialLinks = true
		}
	})

	text := doc.Find("body").Text()
	emails = append(emails, reEmail.FindAllString(text, -1)...)
	emails = lo.FilterMap(emails, func(e string, _ int) (string, bool) {
		e = strings.ToLower(strings.TrimSpace(e))
		return e, e != "" && !reAsset.MatchString(e)
	})
	report.Emails = lo.Slice(lo.Uniq(emails), 0, maxEmails)

	report.CopyrightYear = copyrightYear(text)
	report.TextLength = readableLength(body, pageURL, text)
}

func readableLength(body []byte, pageURL *url.URL, fallback string) int {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return utf8.RuneCountInString(strings.Join(strings.Fields(article.TextContent), " "))
	}

	return utf8.RuneCountInString(strings.Join(strings.Fields(fallback), " "))
}

// copyrightYear returns the latest year mentioned in a copyright notice, or 0.
func copyrightYear(text string) int {
	year := 0

	for _, m := range reCopyright.FindAllStringSubmatch(text, -1) {
		if y, err := strconv.Atoi(m[1]); err == nil && y > year {
			year = y
		}
	}

	return year
}

func isSocial(href string) bool {
	u, err := url.Parse(href)
	if err != nil || u.Host == "" {
		return false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	return lo.ContainsBy(socialHosts, func(s string) bool {
		return host == s || strings.HasSuffix(host, "."+s)
	})
}

func normalize(raw string) (*url.URL, error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	if u.Hostname() == "" {
		return nil, fmt.Errorf("missing host in %q", raw)
	}

	return u, nil
}

func registrableDomain(host string) string {
	host = strings.ToLower(host)
	if !strings.Contains(host, ".") || net.ParseIP(host) != nil {
		return host
	}

	domain, err := publicsuffix.Domain(host)
	if err != nil {
		return host
	}

	return domain
}
